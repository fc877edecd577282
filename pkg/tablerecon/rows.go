package tablerecon

import (
	"cmp"
	"slices"
)

// ClusterRows groups tokens into rows by rounding their y position to the
// nearest multiple of bucket. Rows are ordered top to bottom and tokens inside
// a row left to right; ties are broken by y then text so the result does not
// depend on the order of the input.
//
// Two lines closer than bucket may merge, and one visual line may split when
// its tokens straddle a bucket boundary. No correction pass is made.
func ClusterRows(tokens []Token, bucket float64) []Row {
	if len(tokens) == 0 {
		return nil
	}
	if bucket <= 0 {
		bucket = DefaultRowBucket
	}

	buckets := make(map[float64][]Token)
	for _, tok := range tokens {
		key := quantize(tok.Y, bucket)
		buckets[key] = append(buckets[key], tok)
	}

	keys := make([]float64, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	rows := make([]Row, 0, len(keys))
	for _, key := range keys {
		members := buckets[key]
		slices.SortStableFunc(members, compareTokensInRow)
		rows = append(rows, Row{Y: key, Tokens: members})
	}

	return rows
}

// compareTokensInRow orders tokens left to right.
func compareTokensInRow(a, b Token) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.Text, b.Text)
}

// sortReadingOrder orders tokens top to bottom, then left to right.
func sortReadingOrder(tokens []Token) []Token {
	sorted := slices.Clone(tokens)
	slices.SortStableFunc(sorted, func(a, b Token) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return sorted
}

// InReadingOrder reports whether the page's token stream is already ordered
// top to bottom once y is quantized with bucket. Title-bounded slicing by
// stream index is only sound for pages where this holds.
func InReadingOrder(page Page, bucket float64) bool {
	if bucket <= 0 {
		bucket = DefaultRowBucket
	}
	for i := 1; i < len(page.Tokens); i++ {
		if quantize(page.Tokens[i].Y, bucket) < quantize(page.Tokens[i-1].Y, bucket) {
			return false
		}
	}
	return true
}
