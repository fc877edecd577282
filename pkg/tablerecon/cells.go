package tablerecon

import "fmt"

// HeaderNamer synthesizes a name for the header at position pos when its text is empty.
type HeaderNamer func(pos int) string

// TitledHeaderNamer names empty headers "Column<ordinal>_<pos+1>".
func TitledHeaderNamer(ordinal int) HeaderNamer {
	return func(pos int) string {
		return fmt.Sprintf("Column%d_%d", ordinal, pos+1)
	}
}

// StructuralHeaderNamer names empty headers "Column<pos+1>".
func StructuralHeaderNamer() HeaderNamer {
	return func(pos int) string {
		return fmt.Sprintf("Column%d", pos+1)
	}
}

// HeaderNames returns one display name per header token.
func HeaderNames(header Row, namer HeaderNamer) []string {
	names := make([]string, len(header.Tokens))
	for i, tok := range header.Tokens {
		name := tok.Trimmed()
		if name == "" {
			name = namer(i)
		}
		names[i] = name
	}
	return names
}

// NearestHeader returns the index of the header closest to x. Ties go to
// the leftmost header.
func NearestHeader(header Row, x float64) int {
	best := 0
	minDistance := abs(x - header.Tokens[0].X)
	for h := 1; h < len(header.Tokens); h++ {
		if d := abs(x - header.Tokens[h].X); d < minDistance {
			minDistance = d
			best = h
		}
	}
	return best
}

// AssignCells maps every token of a data row to its nearest header. Tokens
// landing on the same header are joined left to right with a single space.
func AssignCells(header Row, names []string, data Row) Record {
	record := make(Record)
	if len(header.Tokens) == 0 {
		return record
	}

	for _, cell := range data.Tokens {
		key := names[NearestHeader(header, cell.X)]
		text := cell.Trimmed()
		if existing, ok := record[key]; ok && existing != "" {
			record[key] = existing + " " + text
		} else {
			record[key] = text
		}
	}
	return record
}

// assembleTable turns a region's rows into a table using the first row as
// header. It reports false when the region has no header row.
func assembleTable(rows []Row, title string, index int, namer HeaderNamer) (Table, bool) {
	if len(rows) == 0 || rows[0].Len() == 0 {
		return Table{}, false
	}

	header := rows[0]
	names := HeaderNames(header, namer)

	data := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if row.Len() == 0 {
			continue
		}
		record := AssignCells(header, names, row)
		if len(record) == 0 {
			continue
		}
		data = append(data, record)
	}

	return Table{
		Index:     index,
		Title:     title,
		Headers:   names,
		Data:      data,
		Footnotes: make(map[string]string),
	}, true
}
