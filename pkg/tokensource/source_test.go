package tokensource

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hanaasagi/pdftables/pkg/tablerecon"
)

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"report.pdf", "pdf"},
		{"REPORT.PDF", "pdf"},
		{"tokens.json", "json"},
	}

	for _, tt := range tests {
		extractor, err := ForPath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, extractor.Name(), tt.path)
	}

	_, err := ForPath("notes.docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"ﬁnal", "final"},
		{"ＱＴＹ１", "QTY1"},
		{"a\tb\nc", "a b c"},
		{"bell\x07", "bell"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestJSONExtractor_Decode(t *testing.T) {
	input := `{
		"meta": {"info": {}},
		"pages": [
			{"pageInfo": {"num": 1}, "content": [
				{"x": 0, "y": 0, "str": "Table 1: Sales", "width": 60, "fontName": "g_d0_f1"},
				{"x": 0, "y": 10, "str": "Ｎａｍｅ"}
			]},
			{"content": []}
		]
	}`

	doc, err := NewJSONExtractor().Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)

	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Equal(t, 2, doc.Pages[1].Number, "pages without pageInfo are numbered by position")
	assert.Equal(t, []tablerecon.Token{
		{Text: "Table 1: Sales", X: 0, Y: 0},
		{Text: "Name", X: 0, Y: 10},
	}, doc.Pages[0].Tokens)
	assert.Empty(t, doc.Pages[1].Tokens)
}

func TestJSONExtractor_Unreadable(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"pages": [`), 0o644))

	_, err := NewJSONExtractor().Extract(context.Background(), broken)
	assert.ErrorIs(t, err, ErrUnreadableDocument)

	_, err = NewJSONExtractor().Extract(context.Background(), filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrUnreadableDocument)
}

func TestExtract_JSONEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.json")
	input := `{"pages":[{"content":[
		{"str":"Table 1: Sales","x":0,"y":0},
		{"str":"Name","x":0,"y":10},
		{"str":"Qty","x":50,"y":10},
		{"str":"Bob","x":0,"y":20},
		{"str":"3 (1)","x":50,"y":20},
		{"str":"(1) estimated","x":0,"y":30}
	]}]}`
	require.NoError(t, os.WriteFile(path, []byte(input), 0o644))

	doc, err := Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)

	tables, err := tablerecon.DetectTables(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Table 1: Sales", tables[0].Title)
	assert.Equal(t, []tablerecon.Record{{"Name": "Bob", "Qty": "3 (1)"}}, tables[0].Data)
	assert.Equal(t, map[string]string{"1": "estimated"}, tables[0].Footnotes)
}
