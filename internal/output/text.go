package output

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Hanaasagi/pdftables/pkg/tablerecon"
)

const columnGap = "  "

// TextWriter renders an aligned, human readable preview of each table
type TextWriter struct {
	title  func(a ...interface{}) string
	header func(a ...interface{}) string
}

// NewTextWriter creates a preview writer. Colors are only applied when opts.Color is set.
func NewTextWriter(opts Options) (*TextWriter, error) {
	tw := &TextWriter{title: fmt.Sprint, header: fmt.Sprint}
	if !opts.Color {
		return tw, nil
	}

	var err error
	if tw.title, err = colorFunc(opts.TitleColor); err != nil {
		return nil, fmt.Errorf("title color: %w", err)
	}
	if tw.header, err = colorFunc(opts.HeaderColor); err != nil {
		return nil, fmt.Errorf("header color: %w", err)
	}
	return tw, nil
}

func colorFunc(name string) (func(a ...interface{}) string, error) {
	parsed, err := ParseColor(name)
	if err != nil {
		return nil, err
	}
	// The cached color is shared; force color on a copy only.
	c := *parsed
	c.EnableColor()
	return c.SprintFunc(), nil
}

// Write implements Writer
func (t *TextWriter) Write(w io.Writer, tables []tablerecon.Table) error {
	bw := bufio.NewWriter(w)
	for i, table := range tables {
		if i > 0 {
			bw.WriteString("\n")
		}
		t.writeTable(bw, table)
	}
	return bw.Flush()
}

func (t *TextWriter) writeTable(w *bufio.Writer, table tablerecon.Table) {
	fmt.Fprintf(w, "%s  (page %d, table %d)\n", t.title(table.Title), table.PageNumber, table.Index)

	widths := columnWidths(table)

	cells := make([]string, len(table.Headers))
	for i, h := range table.Headers {
		cells[i] = t.header(pad(h, widths[i], i == len(widths)-1))
	}
	fmt.Fprintln(w, strings.Join(cells, columnGap))

	for i := range table.Headers {
		cells[i] = strings.Repeat("-", widths[i])
	}
	fmt.Fprintln(w, strings.Join(cells, columnGap))

	for _, record := range table.Data {
		for i, h := range table.Headers {
			cells[i] = pad(record[h], widths[i], i == len(widths)-1)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, columnGap), " "))
	}

	if len(table.Footnotes) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, number := range footnoteOrder(table.Footnotes) {
		fmt.Fprintf(w, "(%s) %s\n", number, table.Footnotes[number])
	}
}

// columnWidths returns the display width of every column.
func columnWidths(table tablerecon.Table) []int {
	widths := make([]int, len(table.Headers))
	for i, h := range table.Headers {
		widths[i] = max(runewidth.StringWidth(h), 1)
		for _, record := range table.Data {
			widths[i] = max(widths[i], runewidth.StringWidth(record[h]))
		}
	}
	return widths
}

func pad(s string, width int, last bool) string {
	if last {
		return s
	}
	return runewidth.FillRight(s, width)
}

// footnoteOrder sorts footnote numbers numerically.
func footnoteOrder(footnotes map[string]string) []string {
	numbers := make([]string, 0, len(footnotes))
	for n := range footnotes {
		numbers = append(numbers, n)
	}
	slices.SortFunc(numbers, func(a, b string) int {
		x, _ := strconv.Atoi(a)
		y, _ := strconv.Atoi(b)
		if x != y {
			return x - y
		}
		return strings.Compare(a, b)
	})
	return numbers
}
