package tablerecon

import (
	"log/slog"
)

// ============================================================================
// Strategy Interfaces
// ============================================================================

// Segmenter partitions a page into table regions and assembles them into tables
type Segmenter interface {
	// Segment returns the tables found on the page, without footnotes attached
	Segment(page Page) []Table

	// Name returns the name of this segmentation strategy
	Name() string
}

// ============================================================================
// Title-Bounded Strategy Implementation
// ============================================================================

// TitleBoundedSegmenter cuts the page between consecutive "Table N" titles
type TitleBoundedSegmenter struct {
	config Config
	logger *slog.Logger
}

// NewTitleBoundedSegmenter creates a new title-bounded segmenter
func NewTitleBoundedSegmenter(config Config, logger *slog.Logger) *TitleBoundedSegmenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TitleBoundedSegmenter{config: config, logger: logger}
}

// Name returns the strategy name
func (s *TitleBoundedSegmenter) Name() string {
	return StrategyTitle
}

// Segment implements Segmenter
func (s *TitleBoundedSegmenter) Segment(page Page) []Table {
	return s.SegmentTitles(page, FindTitles(page))
}

// SegmentTitles builds one table per title whose region is large enough.
// titles must be ordered top to bottom, as returned by FindTitles.
func (s *TitleBoundedSegmenter) SegmentTitles(page Page, titles []Title) []Table {
	var tables []Table

	for i, title := range titles {
		var next *Title
		if i+1 < len(titles) {
			next = &titles[i+1]
		}

		content := s.regionTokens(page, title, next, titles)
		if s.config.ExcludeFootnoteRows {
			content = withoutFootnoteDefinitions(content)
		}

		if len(content) < s.config.MinRegionTokens {
			s.logger.Info("discarding titled region",
				"page", page.Number, "title", title.Token.Trimmed(),
				"tokens", len(content), "reason", "too few tokens")
			continue
		}

		rows := ClusterRows(sortReadingOrder(content), s.config.RowBucket)
		if len(rows) < s.config.MinTitledRows {
			s.logger.Info("discarding titled region",
				"page", page.Number, "title", title.Token.Trimmed(),
				"rows", len(rows), "reason", "too few rows")
			continue
		}

		// The ordinal is the position the table will take on this page.
		ordinal := len(tables) + 1
		table, ok := assembleTable(rows, title.Token.Trimmed(), ordinal, TitledHeaderNamer(ordinal))
		if !ok || len(table.Data) == 0 {
			s.logger.Info("discarding titled region",
				"page", page.Number, "title", title.Token.Trimmed(), "reason", "no data rows")
			continue
		}
		table.PageNumber = page.Number
		tables = append(tables, table)
	}

	return tables
}

// regionTokens returns the tokens that belong between title and next.
func (s *TitleBoundedSegmenter) regionTokens(page Page, title Title, next *Title, titles []Title) []Token {
	if s.config.TitleSlicing == SliceByVertical {
		return verticalSlice(page, title, next, titles)
	}
	return streamSlice(page, title, next)
}

// streamSlice takes the tokens that follow title in stream order up to the
// next title's stream index. This trusts the stream to be in reading order.
func streamSlice(page Page, title Title, next *Title) []Token {
	start := title.Index + 1
	end := len(page.Tokens)
	if next != nil {
		end = next.Index
	}
	if start >= end {
		return nil
	}
	return page.Tokens[start:end]
}

// verticalSlice takes the non-title tokens lying below title and above the
// next title, independent of stream order. Tokens sharing a title's y are
// ordered by stream index.
func verticalSlice(page Page, title Title, next *Title, titles []Title) []Token {
	isTitle := make(map[int]bool, len(titles))
	for _, t := range titles {
		isTitle[t.Index] = true
	}

	var tokens []Token
	for i, tok := range page.Tokens {
		if isTitle[i] {
			continue
		}
		if !precedes(title.Token.Y, title.Index, tok.Y, i) {
			continue
		}
		if next != nil && !precedes(tok.Y, i, next.Token.Y, next.Index) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// precedes orders positions by y, then by stream index.
func precedes(y1 float64, i1 int, y2 float64, i2 int) bool {
	if y1 != y2 {
		return y1 < y2
	}
	return i1 < i2
}
