package tokensource

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/Hanaasagi/pdftables/pkg/tablerecon"
)

// Normalize applies NFKC to text so ligatures and full-width forms compare
// equal to their plain spellings. Tabs and line breaks become spaces and
// other control characters are dropped.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, text)
}

// normalizePage normalizes every token of the page in place.
func normalizePage(page *tablerecon.Page) {
	for i := range page.Tokens {
		page.Tokens[i].Text = Normalize(page.Tokens[i].Text)
	}
}
