package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Hanaasagi/pdftables/pkg/tablerecon"
)

// JSONWriter writes tables as a JSON array
type JSONWriter struct {
	Indent int
}

// Write implements Writer
func (j *JSONWriter) Write(w io.Writer, tables []tablerecon.Table) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if j.Indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", j.Indent))
	}
	if err := enc.Encode(normalized(tables)); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// YAMLWriter writes tables as a YAML sequence
type YAMLWriter struct {
	Indent int
}

// Write implements Writer
func (y *YAMLWriter) Write(w io.Writer, tables []tablerecon.Table) error {
	enc := yaml.NewEncoder(w)
	if y.Indent > 0 {
		enc.SetIndent(y.Indent)
	}
	if err := enc.Encode(normalized(tables)); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
