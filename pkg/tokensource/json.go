package tokensource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Hanaasagi/pdftables/pkg/tablerecon"
)

// jsonDocument mirrors the output of pdf.js-extract. Fields the engine does
// not use are ignored.
type jsonDocument struct {
	Pages []struct {
		PageInfo struct {
			Num int `json:"num"`
		} `json:"pageInfo"`
		Content []tablerecon.Token `json:"content"`
	} `json:"pages"`
}

// JSONExtractor reads token streams already extracted to JSON
type JSONExtractor struct{}

// NewJSONExtractor creates a new JSON token stream reader
func NewJSONExtractor() *JSONExtractor {
	return &JSONExtractor{}
}

// Name returns the extractor name
func (e *JSONExtractor) Name() string {
	return "json"
}

// Extract implements Extractor
func (e *JSONExtractor) Extract(ctx context.Context, path string) (tablerecon.Document, error) {
	if err := ctx.Err(); err != nil {
		return tablerecon.Document{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return tablerecon.Document{}, unreadable(path, err)
	}
	defer f.Close()

	doc, err := e.Decode(f)
	if err != nil {
		return tablerecon.Document{}, unreadable(path, err)
	}
	doc.Source = path
	return doc, nil
}

// Decode reads a token stream document from r. Pages without a page number
// are numbered by position.
func (e *JSONExtractor) Decode(r io.Reader) (tablerecon.Document, error) {
	var raw jsonDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return tablerecon.Document{}, fmt.Errorf("decoding token stream: %w", err)
	}

	doc := tablerecon.Document{Pages: make([]tablerecon.Page, len(raw.Pages))}
	for i, p := range raw.Pages {
		page := tablerecon.Page{Number: p.PageInfo.Num, Tokens: p.Content}
		if page.Number == 0 {
			page.Number = i + 1
		}
		normalizePage(&page)
		doc.Pages[i] = page
	}
	return doc, nil
}
