package tablerecon

import (
	"cmp"
	"regexp"
	"slices"
)

var titlePattern = regexp.MustCompile(`(?i)^table\s+\d+`)

// IsTitle reports whether text looks like a table title ("Table 3: ...").
func IsTitle(text string) bool {
	return titlePattern.MatchString(text)
}

// FindTitles returns the title tokens of a page ordered top to bottom. Each
// title keeps its index in the page stream; titles on the same y keep stream order.
func FindTitles(page Page) []Title {
	var titles []Title
	for i, tok := range page.Tokens {
		if IsTitle(tok.Trimmed()) {
			titles = append(titles, Title{Token: tok, Index: i})
		}
	}

	slices.SortStableFunc(titles, func(a, b Title) int {
		return cmp.Compare(a.Token.Y, b.Token.Y)
	})
	return titles
}
