package tablerecon

import (
	"fmt"
	"log/slog"
)

// ============================================================================
// Structure-Bounded Strategy Implementation
// ============================================================================

// StructureBoundedSegmenter finds tables as runs of consecutive multi-token rows
type StructureBoundedSegmenter struct {
	config Config
	logger *slog.Logger
}

// NewStructureBoundedSegmenter creates a new structure-bounded segmenter
func NewStructureBoundedSegmenter(config Config, logger *slog.Logger) *StructureBoundedSegmenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &StructureBoundedSegmenter{config: config, logger: logger}
}

// Name returns the strategy name
func (s *StructureBoundedSegmenter) Name() string {
	return StrategyStructure
}

// Segment implements Segmenter
func (s *StructureBoundedSegmenter) Segment(page Page) []Table {
	rows := pageRows(page, s.config)
	acc := newStructuralAccumulator(page, s.config, s.logger)

	start := -1
	for i, row := range rows {
		if row.Len() >= s.config.MinRowTokens {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			acc.close(rows[start:i])
			start = -1
		}
	}
	if start != -1 {
		acc.close(rows[start:])
	}

	return acc.tables
}

// ============================================================================
// Column-Signature Strategy Implementation
// ============================================================================

// ColumnSignatureSegmenter splits runs of multi-token rows whenever a row's
// quantized column positions stop matching the signature of the region's first row
type ColumnSignatureSegmenter struct {
	config Config
	logger *slog.Logger
}

// NewColumnSignatureSegmenter creates a new column-signature segmenter
func NewColumnSignatureSegmenter(config Config, logger *slog.Logger) *ColumnSignatureSegmenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ColumnSignatureSegmenter{config: config, logger: logger}
}

// Name returns the strategy name
func (s *ColumnSignatureSegmenter) Name() string {
	return StrategySignature
}

// Segment implements Segmenter
func (s *ColumnSignatureSegmenter) Segment(page Page) []Table {
	rows := pageRows(page, s.config)
	acc := newStructuralAccumulator(page, s.config, s.logger)

	start := -1
	var signature []float64
	for i, row := range rows {
		if row.Len() < s.config.MinRowTokens {
			if start != -1 {
				acc.close(rows[start:i])
				start = -1
			}
			continue
		}

		positions := ColumnSignature(row, s.config.ColumnQuantum)
		if start == -1 {
			start, signature = i, positions
			continue
		}
		if SignatureOverlap(positions, signature, s.config.ColumnTolerance) < s.config.SignatureOverlap {
			acc.close(rows[start:i])
			start, signature = i, positions
		}
	}
	if start != -1 {
		acc.close(rows[start:])
	}

	return acc.tables
}

// ColumnSignature returns the x positions of a row rounded to quantum.
func ColumnSignature(row Row, quantum float64) []float64 {
	positions := make([]float64, len(row.Tokens))
	for i, tok := range row.Tokens {
		positions[i] = quantize(tok.X, quantum)
	}
	return positions
}

// SignatureOverlap returns the share of positions lying within tolerance
// (exclusive) of some position of signature.
func SignatureOverlap(positions, signature []float64, tolerance float64) float64 {
	if len(positions) == 0 {
		return 0
	}
	matching := 0
	for _, x := range positions {
		for _, col := range signature {
			if abs(x-col) < tolerance {
				matching++
				break
			}
		}
	}
	return float64(matching) / float64(len(positions))
}

// ============================================================================
// Shared Helpers
// ============================================================================

// pageRows clusters a whole page into rows.
func pageRows(page Page, config Config) []Row {
	tokens := page.Tokens
	if config.ExcludeFootnoteRows {
		tokens = withoutFootnoteDefinitions(tokens)
	}
	return ClusterRows(tokens, config.RowBucket)
}

// structuralAccumulator collects the tables of a page found without titles.
type structuralAccumulator struct {
	page   Page
	config Config
	logger *slog.Logger
	tables []Table
}

func newStructuralAccumulator(page Page, config Config, logger *slog.Logger) *structuralAccumulator {
	return &structuralAccumulator{page: page, config: config, logger: logger}
}

// close turns a finished run of rows into a table when it is long enough.
func (a *structuralAccumulator) close(rows []Row) {
	if len(rows) < a.config.MinStructuralRows {
		a.logger.Info("discarding structural region",
			"page", a.page.Number, "rows", len(rows), "reason", "too few rows")
		return
	}

	n := len(a.tables) + 1
	title := fmt.Sprintf("%s %d", StructuralTitlePrefix, n)
	table, ok := assembleTable(rows, title, n, StructuralHeaderNamer())
	if !ok {
		return
	}
	table.PageNumber = a.page.Number
	a.tables = append(a.tables, table)
}
