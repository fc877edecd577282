package tokensource

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Hanaasagi/pdftables/pkg/tablerecon"
)

// Glyph merging defaults
const (
	// DefaultLineTolerance is the maximum baseline difference for two glyphs to share a token
	DefaultLineTolerance = 1.0

	// DefaultMergeGapFactor is the maximum horizontal gap between two glyphs of
	// one token, as a multiple of the font size
	DefaultMergeGapFactor = 0.6

	// DefaultSpaceGapFactor is the gap, as a multiple of the font size, above
	// which a space is inserted between two merged glyphs
	DefaultSpaceGapFactor = 0.2

	// maxParentDepth bounds the walk up the page tree when looking for an inherited MediaBox
	maxParentDepth = 32
)

// PDFExtractor extracts tokens from the text layer of a PDF
type PDFExtractor struct {
	LineTolerance  float64
	MergeGapFactor float64
	SpaceGapFactor float64
	Logger         *slog.Logger
}

// NewPDFExtractor creates a PDF extractor with default merging thresholds
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{
		LineTolerance:  DefaultLineTolerance,
		MergeGapFactor: DefaultMergeGapFactor,
		SpaceGapFactor: DefaultSpaceGapFactor,
	}
}

// Name returns the extractor name
func (e *PDFExtractor) Name() string {
	return "pdf"
}

func (e *PDFExtractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// Extract implements Extractor. Panics raised while decoding the file are
// reported as ErrUnreadableDocument.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (doc tablerecon.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = tablerecon.Document{}
			err = unreadable(path, fmt.Errorf("%v", r))
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return tablerecon.Document{}, unreadable(path, err)
	}
	defer f.Close()

	numPages := r.NumPage()
	doc = tablerecon.Document{Source: path, Pages: make([]tablerecon.Page, 0, numPages)}

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return tablerecon.Document{}, err
		}

		page := tablerecon.Page{Number: i}
		p := r.Page(i)
		if p.V.IsNull() {
			e.logger().Debug("skipping null page", "page", i)
			doc.Pages = append(doc.Pages, page)
			continue
		}

		glyphs := p.Content().Text
		height, ok := pageHeight(p.V)
		page.Tokens = e.mergeGlyphs(glyphs, height, ok)
		normalizePage(&page)
		e.logger().Debug("extracted page", "page", i, "glyphs", len(glyphs), "tokens", len(page.Tokens))

		doc.Pages = append(doc.Pages, page)
	}

	return doc, nil
}

// mergeGlyphs joins consecutive glyphs of one line into tokens and flips y
// to grow downwards. Without a page height y is negated instead.
func (e *PDFExtractor) mergeGlyphs(glyphs []pdf.Text, height float64, hasHeight bool) []tablerecon.Token {
	flip := func(y float64) float64 {
		if hasHeight {
			return height - y
		}
		return -y
	}

	var tokens []tablerecon.Token
	var current strings.Builder
	var start, prev pdf.Text
	open := false

	emit := func() {
		if !open {
			return
		}
		if text := current.String(); strings.TrimSpace(text) != "" {
			tokens = append(tokens, tablerecon.Token{Text: text, X: start.X, Y: flip(start.Y)})
		}
		current.Reset()
		open = false
	}

	for _, g := range glyphs {
		if open && e.continues(prev, g) {
			if gap := g.X - (prev.X + prev.W); gap > e.SpaceGapFactor*fontSize(prev) &&
				!strings.HasSuffix(current.String(), " ") && !strings.HasPrefix(g.S, " ") {
				current.WriteByte(' ')
			}
			current.WriteString(g.S)
			prev = g
			continue
		}

		emit()
		start, prev, open = g, g, true
		current.WriteString(g.S)
	}
	emit()

	return tokens
}

// continues reports whether g extends the token that ends with prev.
func (e *PDFExtractor) continues(prev, g pdf.Text) bool {
	if abs(g.Y-prev.Y) > e.LineTolerance {
		return false
	}
	return abs(g.X-(prev.X+prev.W)) <= e.MergeGapFactor*fontSize(prev)
}

// pageHeight returns the height of the page's MediaBox, inherited from the
// page tree when the page does not carry one.
func pageHeight(v pdf.Value) (float64, bool) {
	for depth := 0; depth < maxParentDepth && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() >= 4 {
			return box.Index(3).Float64() - box.Index(1).Float64(), true
		}
		v = v.Key("Parent")
	}
	return 0, false
}

func fontSize(t pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize
	}
	return 10
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
