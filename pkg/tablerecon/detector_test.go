package tablerecon

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func salesPage() Page {
	return Page{Tokens: []Token{
		{Text: "Table 1: Sales", X: 0, Y: 0},
		{Text: "Name", X: 0, Y: 10},
		{Text: "Qty", X: 50, Y: 10},
		{Text: "Bob", X: 0, Y: 20},
		{Text: "3 (1)", X: 50, Y: 20},
		{Text: "(1) estimated", X: 0, Y: 30},
	}}
}

func untitledPage() Page {
	return Page{Tokens: gridRows(0, []float64{0, 100},
		[]string{"Item", "Qty"},
		[]string{"Apple", "3"},
		[]string{"Pear", "5"},
		[]string{"Plum", "7"},
	)}
}

func TestDetectTables_TitledWithFootnote(t *testing.T) {
	doc := Document{Pages: []Page{salesPage()}}

	tables, err := DetectTables(context.Background(), doc, WithLogger(quietLogger))
	if err != nil {
		t.Fatalf("DetectTables() error: %v", err)
	}

	want := []Table{{
		Index:      1,
		Title:      "Table 1: Sales",
		Headers:    []string{"Name", "Qty"},
		Data:       []Record{{"Name": "Bob", "Qty": "3 (1)"}},
		PageNumber: 1,
		Footnotes:  map[string]string{"1": "estimated"},
	}}
	if !reflect.DeepEqual(tables, want) {
		t.Errorf("DetectTables() =\n%v\nwant\n%v", tables, want)
	}
}

func TestDetectTables_FootnoteRowKeptWhenNotExcluded(t *testing.T) {
	config := DefaultConfig()
	config.ExcludeFootnoteRows = false

	tables, err := DetectTables(context.Background(), Document{Pages: []Page{salesPage()}},
		WithConfig(config), WithLogger(quietLogger))
	if err != nil {
		t.Fatalf("DetectTables() error: %v", err)
	}
	if len(tables) != 1 || len(tables[0].Data) != 2 {
		t.Fatalf("Expected one table with the definition as a data row, got %v", tables)
	}
	if got := tables[0].Data[1]["Name"]; got != "(1) estimated" {
		t.Errorf("Expected the definition under Name, got %q", got)
	}
}

func TestDetectTables_NoTitleFallsBackToStructure(t *testing.T) {
	tables, err := DetectTables(context.Background(), Document{Pages: []Page{untitledPage()}}, WithLogger(quietLogger))
	if err != nil {
		t.Fatalf("DetectTables() error: %v", err)
	}

	if len(tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(tables))
	}
	table := tables[0]
	if table.Title != "Structural Table 1" {
		t.Errorf("Expected structural title, got %q", table.Title)
	}
	if len(table.Data) != 3 {
		t.Errorf("Expected 3 data rows, got %d", len(table.Data))
	}
	if table.Footnotes == nil || len(table.Footnotes) != 0 {
		t.Errorf("Expected an empty footnote map, got %v", table.Footnotes)
	}
}

func TestDetectPage_StrategySelection(t *testing.T) {
	drift := Page{Number: 1}
	drift.Tokens = append(drift.Tokens, gridRows(0, []float64{0, 100, 200},
		[]string{"a", "b", "c"}, []string{"1", "2", "3"}, []string{"4", "5", "6"})...)
	drift.Tokens = append(drift.Tokens, gridRows(30, []float64{400, 500, 600},
		[]string{"d", "e", "f"}, []string{"7", "8", "9"}, []string{"0", "1", "2"})...)

	titled := Page{Number: 1, Tokens: append([]Token{{Text: "Table 1", X: 0, Y: -20}}, untitledPage().Tokens...)}

	tests := []struct {
		name       string
		opts       []DetectorOption
		page       Page
		wantTitles []string
	}{
		{"auto uses titles", nil, titled, []string{"Table 1"}},
		{"auto falls back to structure", nil, drift, []string{"Structural Table 1"}},
		{"auto falls back to signature", []DetectorOption{WithFallback(StrategySignature)}, drift,
			[]string{"Structural Table 1", "Structural Table 2"}},
		{"forced structure ignores titles", []DetectorOption{WithStrategy(StrategyStructure)}, titled,
			[]string{"Structural Table 1"}},
		{"forced title without titles", []DetectorOption{WithStrategy(StrategyTitle)}, drift, nil},
		{"forced signature", []DetectorOption{WithStrategy(StrategySignature)}, drift,
			[]string{"Structural Table 1", "Structural Table 2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := NewDetector(append(tt.opts, WithLogger(quietLogger))...)

			var got []string
			for _, table := range detector.DetectPage(tt.page) {
				got = append(got, table.Title)
			}
			if !reflect.DeepEqual(got, tt.wantTitles) {
				t.Errorf("Expected titles %v, got %v", tt.wantTitles, got)
			}
		})
	}
}

func TestDetectDocument_PageOrderAndNumbers(t *testing.T) {
	doc := Document{Pages: []Page{
		untitledPage(),
		{Tokens: []Token{{Text: "nothing to see"}}},
		salesPage(),
		untitledPage(),
	}}

	for _, workers := range []int{1, 8} {
		tables, err := NewDetector(WithWorkers(workers), WithLogger(quietLogger)).DetectDocument(context.Background(), doc)
		if err != nil {
			t.Fatalf("workers=%d: DetectDocument() error: %v", workers, err)
		}

		var pages []int
		for _, table := range tables {
			pages = append(pages, table.PageNumber)
			if table.Index != 1 {
				t.Errorf("workers=%d: expected per-page index 1, got %d", workers, table.Index)
			}
		}
		if want := []int{1, 3, 4}; !reflect.DeepEqual(pages, want) {
			t.Errorf("workers=%d: expected pages %v, got %v", workers, want, pages)
		}
		if tables[1].Title != "Table 1: Sales" {
			t.Errorf("workers=%d: expected the titled table second, got %q", workers, tables[1].Title)
		}
	}
}

func TestDetectDocument_KeepsExplicitPageNumbers(t *testing.T) {
	page := untitledPage()
	page.Number = 12

	tables, err := DetectTables(context.Background(), Document{Pages: []Page{page}}, WithLogger(quietLogger))
	if err != nil {
		t.Fatalf("DetectTables() error: %v", err)
	}
	if len(tables) != 1 || tables[0].PageNumber != 12 {
		t.Errorf("Expected page number 12, got %v", tables)
	}
}

func TestDetectDocument_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := Document{Pages: []Page{untitledPage(), untitledPage()}}
	_, err := NewDetector(WithLogger(quietLogger)).DetectDocument(ctx, doc)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestDetectDocument_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		opts   []DetectorOption
		wantIn string
	}{
		{"zero bucket", []DetectorOption{WithRowBucket(0)}, "RowBucket"},
		{"unknown strategy", []DetectorOption{WithStrategy("guess")}, "Strategy"},
		{"unknown slicing", []DetectorOption{WithTitleSlicing("diagonal")}, "TitleSlicing"},
		{"negative workers", []DetectorOption{WithWorkers(-1)}, "Workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DetectTables(context.Background(), Document{Pages: []Page{salesPage()}}, tt.opts...)
			if err == nil {
				t.Fatal("Expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("Expected error to mention %q, got %v", tt.wantIn, err)
			}
		})
	}
}

func TestValidateConfig_Default(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Errorf("Default config should be valid, got %v", err)
	}
}

func TestDetectPage_WarnsOnOutOfOrderStream(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	page := Page{Number: 3, Tokens: []Token{
		{Text: "Name", X: 0, Y: 10},
		{Text: "Table 1", X: 0, Y: 0},
		{Text: "Bob", X: 0, Y: 20},
	}}
	NewDetector(WithLogger(logger)).DetectPage(page)

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "not in reading order") {
		t.Errorf("Expected a reading order warning, got:\n%s", out)
	}
	if !strings.Contains(out, "discarding titled region") {
		t.Errorf("Expected the small region to be logged as discarded, got:\n%s", out)
	}
}
