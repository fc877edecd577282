package tablerecon

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================================
// Input Types
// ============================================================================

// Token is a positioned fragment of extracted text
type Token struct {
	Text string  `json:"str"` // The text content as emitted by the extractor
	X    float64 `json:"x"`   // Horizontal position on the page
	Y    float64 `json:"y"`   // Vertical position on the page, growing downwards
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("%q@(%.1f,%.1f)", t.Text, t.X, t.Y)
}

// Trimmed returns the token text without surrounding whitespace
func (t Token) Trimmed() string {
	return strings.TrimSpace(t.Text)
}

// Page is the ordered token stream of a single page, in the order the
// extractor emitted it.
type Page struct {
	Number int     `json:"page"`    // 1-based page number within the document
	Tokens []Token `json:"content"` // Tokens in stream order
}

// Document is the ordered sequence of pages produced by the extractor.
type Document struct {
	Source string `json:"source,omitempty"`
	Pages  []Page `json:"pages"`
}

// TokenCount returns the number of tokens across all pages
func (d Document) TokenCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Tokens)
	}
	return n
}

// ============================================================================
// Intermediate Types
// ============================================================================

// Row is a run of tokens sharing a quantized vertical position, ordered left to right.
type Row struct {
	Y      float64 `json:"y"` // Quantized vertical position shared by every token in the row
	Tokens []Token `json:"tokens"`
}

// Len returns the number of tokens in the row
func (r Row) Len() int {
	return len(r.Tokens)
}

// Texts returns the trimmed text of every token in the row
func (r Row) Texts() []string {
	texts := make([]string, len(r.Tokens))
	for i, tok := range r.Tokens {
		texts[i] = tok.Trimmed()
	}
	return texts
}

// Region is a run of rows judged to form one table.
type Region struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Title is a token recognised as a table title.
type Title struct {
	Token Token `json:"token"`
	Index int   `json:"index"` // Position of the token in the page stream
}

// ============================================================================
// Output Types
// ============================================================================

// Record maps a header name to the text of the cell below it.
type Record map[string]string

// Table is a reconstructed table
type Table struct {
	Index      int               `json:"tableIndex" yaml:"tableIndex"` // 1-based position among tables of the page
	Title      string            `json:"title" yaml:"title"`
	Headers    []string          `json:"headers" yaml:"headers"`
	Data       []Record          `json:"data" yaml:"data"`
	PageNumber int               `json:"pageNumber" yaml:"pageNumber"`
	Footnotes  map[string]string `json:"footnotes" yaml:"footnotes"`
}

// String returns a string representation of the table
func (t Table) String() string {
	return fmt.Sprintf("Table[%d p%d]: %q %d×%d, footnotes=%d",
		t.Index, t.PageNumber, t.Title, len(t.Data), len(t.Headers), len(t.Footnotes))
}

// Footnote is a page-level footnote definition such as "(1) estimated".
type Footnote struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// quantize rounds v to the nearest multiple of step, halves rounding up.
func quantize(v, step float64) float64 {
	return math.Floor(v/step+0.5) * step
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
