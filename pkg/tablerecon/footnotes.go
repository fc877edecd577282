package tablerecon

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	footnoteDefinitionPattern = regexp.MustCompile(`^\((\d+)\)\s+(.*)$`)
	footnoteReferencePattern  = regexp.MustCompile(`\(\d+\)|\s\d+$`)
)

// IsFootnoteDefinition reports whether text is a footnote definition such as "(2) restated".
func IsFootnoteDefinition(text string) bool {
	return footnoteDefinitionPattern.MatchString(strings.TrimSpace(text))
}

// ExtractFootnotes scans every token of the page for footnote definitions.
// The first definition of a number wins.
func ExtractFootnotes(page Page) map[string]string {
	defs := make(map[string]string)
	for _, tok := range page.Tokens {
		m := footnoteDefinitionPattern.FindStringSubmatch(tok.Trimmed())
		if m == nil {
			continue
		}
		if _, seen := defs[m[1]]; seen {
			continue
		}
		defs[m[1]] = m[2]
	}
	return defs
}

// FootnoteReferences returns the candidate footnote numbers referenced by a
// cell value, in order of appearance.
func FootnoteReferences(cell string) []string {
	markers := footnoteReferencePattern.FindAllString(cell, -1)
	if len(markers) == 0 {
		return nil
	}

	numbers := make([]string, 0, len(markers))
	for _, marker := range markers {
		numbers = append(numbers, strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return r
			}
			return -1
		}, marker))
	}
	return numbers
}

// AttachFootnotes links each table to the definitions its data cells
// reference. Existing entries are never overwritten, so running it twice is
// a no-op. A cell that is itself a small number may resolve as a reference.
func AttachFootnotes(tables []Table, defs map[string]string) {
	if len(defs) == 0 {
		for i := range tables {
			if tables[i].Footnotes == nil {
				tables[i].Footnotes = make(map[string]string)
			}
		}
		return
	}

	for i := range tables {
		table := &tables[i]
		if table.Footnotes == nil {
			table.Footnotes = make(map[string]string)
		}
		for _, record := range table.Data {
			// Walk headers rather than the map so attachment order is stable.
			for _, header := range table.Headers {
				cell, ok := record[header]
				if !ok {
					continue
				}
				for _, number := range FootnoteReferences(cell) {
					text, defined := defs[number]
					if !defined {
						continue
					}
					if _, attached := table.Footnotes[number]; attached {
						continue
					}
					table.Footnotes[number] = text
				}
			}
		}
	}
}

// withoutFootnoteDefinitions drops footnote definition tokens from a region.
func withoutFootnoteDefinitions(tokens []Token) []Token {
	kept := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if IsFootnoteDefinition(tok.Text) {
			continue
		}
		kept = append(kept, tok)
	}
	return kept
}
