package tablerecon

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestClusterRows_GroupsByBucket(t *testing.T) {
	tokens := []Token{
		{Text: "b", X: 50, Y: 11},
		{Text: "a", X: 0, Y: 12},
		{Text: "c", X: 0, Y: 13},
		{Text: "d", X: 0, Y: 30},
	}

	rows := ClusterRows(tokens, DefaultRowBucket)

	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d: %v", len(rows), rows)
	}

	// 11 and 12 round to 10, 13 rounds to 15
	expected := [][]string{{"a", "b"}, {"c"}, {"d"}}
	for i, row := range rows {
		if got := row.Texts(); !reflect.DeepEqual(got, expected[i]) {
			t.Errorf("Row %d: expected %v, got %v", i, expected[i], got)
		}
	}

	if rows[0].Y != 10 || rows[1].Y != 15 || rows[2].Y != 30 {
		t.Errorf("Unexpected quantized rows: %v, %v, %v", rows[0].Y, rows[1].Y, rows[2].Y)
	}
}

func TestClusterRows_HalfRoundsUp(t *testing.T) {
	rows := ClusterRows([]Token{{Text: "x", Y: 2.5}, {Text: "y", Y: -2.5}}, 5)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Y != 0 || rows[1].Y != 5 {
		t.Errorf("Expected buckets 0 and 5, got %v and %v", rows[0].Y, rows[1].Y)
	}
}

func TestClusterRows_Empty(t *testing.T) {
	if rows := ClusterRows(nil, DefaultRowBucket); rows != nil {
		t.Errorf("Expected nil rows for no tokens, got %v", rows)
	}
}

func TestClusterRows_Deterministic(t *testing.T) {
	tokens := []Token{
		{Text: "Name", X: 0, Y: 10},
		{Text: "Qty", X: 50, Y: 9},
		{Text: "Price", X: 100, Y: 11},
		{Text: "Bob", X: 0, Y: 20},
		{Text: "3", X: 50, Y: 21},
		{Text: "same-x-a", X: 100, Y: 20},
		{Text: "same-x-b", X: 100, Y: 20},
		{Text: "Eve", X: 0, Y: 31},
	}

	want := ClusterRows(tokens, DefaultRowBucket)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 20; i++ {
		shuffled := make([]Token, len(tokens))
		copy(shuffled, tokens)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		if got := ClusterRows(shuffled, DefaultRowBucket); !reflect.DeepEqual(got, want) {
			t.Fatalf("Permutation %d produced different rows:\nwant %v\ngot  %v", i, want, got)
		}
	}
}

func TestClusterRows_OrderingInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tokens := make([]Token, 200)
	for i := range tokens {
		tokens[i] = Token{Text: "t", X: rng.Float64() * 500, Y: rng.Float64() * 800}
	}

	rows := ClusterRows(tokens, DefaultRowBucket)

	total := 0
	for i, row := range rows {
		total += row.Len()
		if i > 0 && rows[i-1].Y > row.Y {
			t.Errorf("Row %d at %v is above row %d at %v", i, row.Y, i-1, rows[i-1].Y)
		}
		for j := 1; j < row.Len(); j++ {
			if row.Tokens[j-1].X > row.Tokens[j].X {
				t.Errorf("Row %d is not ordered by x at %d", i, j)
			}
		}
		for _, tok := range row.Tokens {
			if quantize(tok.Y, DefaultRowBucket) != row.Y {
				t.Errorf("Token %v does not belong to row at %v", tok, row.Y)
			}
		}
	}

	if total != len(tokens) {
		t.Errorf("Expected %d clustered tokens, got %d", len(tokens), total)
	}
}

func TestInReadingOrder(t *testing.T) {
	tests := []struct {
		name   string
		tokens []Token
		want   bool
	}{
		{"empty", nil, true},
		{"top to bottom", []Token{{Y: 0}, {Y: 10}, {Y: 11}, {Y: 20}}, true},
		{"jitter inside bucket", []Token{{Y: 10}, {Y: 9}, {Y: 20}}, true},
		{"title emitted after its table", []Token{{Y: 10}, {Y: 20}, {Y: 0}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InReadingOrder(Page{Tokens: tt.tokens}, DefaultRowBucket); got != tt.want {
				t.Errorf("InReadingOrder() = %v, want %v", got, tt.want)
			}
		})
	}
}
