// Package tokensource turns documents into the positioned token streams the
// table reconstruction engine consumes.
package tokensource

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Hanaasagi/pdftables/pkg/tablerecon"
)

var (
	// ErrUnreadableDocument is returned when a document cannot be opened or decoded.
	ErrUnreadableDocument = errors.New("unreadable document")

	// ErrUnsupportedFormat is returned when no extractor handles the input.
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// Extractor produces the token stream of every page of a document
type Extractor interface {
	// Extract reads the document at path. Pages keep the order of the
	// document and tokens keep the order the source emitted them.
	Extract(ctx context.Context, path string) (tablerecon.Document, error)

	// Name returns the name of this extractor
	Name() string
}

// ForPath returns the extractor matching the extension of path.
func ForPath(path string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDFExtractor(), nil
	case ".json":
		return NewJSONExtractor(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Extract is a convenience wrapper selecting the extractor by extension.
func Extract(ctx context.Context, path string) (tablerecon.Document, error) {
	extractor, err := ForPath(path)
	if err != nil {
		return tablerecon.Document{}, err
	}
	return extractor.Extract(ctx, path)
}

func unreadable(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnreadableDocument, path, err)
}
