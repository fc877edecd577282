// Package output renders reconstructed tables.
package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Hanaasagi/pdftables/pkg/tablerecon"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// DefaultIndent is the indentation width of structured formats
const DefaultIndent = 2

// ErrUnknownFormat is returned by New for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Writer renders a list of tables
type Writer interface {
	Write(w io.Writer, tables []tablerecon.Table) error
}

// Options configures the writers built by New
type Options struct {
	Indent      int
	Color       bool   // Colorize the text preview
	TitleColor  string // Color name or #rrggbb for table titles
	HeaderColor string // Color name or #rrggbb for header cells
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Indent:      DefaultIndent,
		TitleColor:  "bold cyan",
		HeaderColor: "yellow",
	}
}

// New returns the writer for format.
func New(format string, opts Options) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return &JSONWriter{Indent: opts.Indent}, nil
	case FormatYAML, "yml":
		return &YAMLWriter{Indent: opts.Indent}, nil
	case FormatText:
		return NewTextWriter(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// normalized replaces nil collections so every table serializes with empty
// arrays and an empty footnote object.
func normalized(tables []tablerecon.Table) []tablerecon.Table {
	out := make([]tablerecon.Table, len(tables))
	for i, table := range tables {
		if table.Headers == nil {
			table.Headers = []string{}
		}
		if table.Data == nil {
			table.Data = []tablerecon.Record{}
		}
		if table.Footnotes == nil {
			table.Footnotes = map[string]string{}
		}
		out[i] = table
	}
	return out
}
