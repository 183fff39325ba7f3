package tsvparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLines(t *testing.T) {
	header, data := Lines("\n  Order\tDate\nrow1\nrow2\n\n")
	assert.Equal(t, "Order\tDate", header)
	assert.Equal(t, []string{"row1", "row2"}, data)

	header, data = Lines("   \n\t")
	assert.Empty(t, header)
	assert.Empty(t, data)

	header, data = Lines("only a header")
	assert.Equal(t, "only a header", header)
	assert.Empty(t, data)
}

func TestSplit(t *testing.T) {
	lines := []string{
		"https://manapool.com/seller/orders/a\tcol",
		"card one",
		"card two",
		"https://manapool.com/seller/orders/b\tcol",
		"card three",
	}

	blocks := Split(lines)

	assert.Equal(t, []RecordBlock{
		"https://manapool.com/seller/orders/a\tcol\ncard one\ncard two",
		"https://manapool.com/seller/orders/b\tcol\ncard three",
	}, blocks)
}

func TestSplit_NoPrefix(t *testing.T) {
	blocks := Split([]string{"a\tb", "c\td"})
	assert.Equal(t, []RecordBlock{"\na\tb\nc\td"}, blocks)
}

func TestSplit_Empty(t *testing.T) {
	assert.Empty(t, Split(nil))
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		block RecordBlock
		want  TokenRow
	}{
		{
			name:  "plain tabs",
			block: "a\tb\tc",
			want:  TokenRow{"a", "b", "c"},
		},
		{
			name:  "quoted tab and newline stay in column",
			block: "a\t\"b\tstill b\nmore b\"\tc",
			want:  TokenRow{"a", "b\tstill b\nmore b", "c"},
		},
		{
			name:  "trailing tab adds no empty column",
			block: "a\tb\t",
			want:  TokenRow{"a", "b"},
		},
		{
			name:  "empty middle column kept",
			block: "a\t\tc",
			want:  TokenRow{"a", "", "c"},
		},
		{
			name:  "unbalanced quote swallows remaining tabs",
			block: "a\t\"b\tc",
			want:  TokenRow{"a", "b\tc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.block))
		})
	}
}

func TestTokenRow_Column(t *testing.T) {
	row := TokenRow{"a", "b"}
	assert.Equal(t, "b", row.Column(1))
	assert.Equal(t, "", row.Column(2))
	assert.Equal(t, "", row.Column(-1))
}
