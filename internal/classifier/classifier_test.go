package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		id   string
		want Kind
	}{
		{"https://x", KindURL},
		{"https://manapool.com/seller/orders/abc", KindURL},
		{"1ccca6e6-7d39-4e03-889a-5b0aa24eee34", KindManapool},
		{"1CCCA6E6-7D39-4E03-889A-5B0AA24EEE34", KindManapool},
		{"8B5DCE37-050272-E8FFC", KindTCGplayer},
		{"8b5dce37-050272-e8ffc", KindTCGplayer},
		{"ZZZ123", KindUnrecognized},
		{"{1ccca6e6-7d39-4e03-889a-5b0aa24eee34}", KindUnrecognized},
		{"1ccca6e67d394e03889a5b0aa24eee34", KindUnrecognized},
		{"http://insecure.example", KindUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.id))
		})
	}
}

func TestGenerateURLs(t *testing.T) {
	raw := "https://x\n\n  1ccca6e6-7d39-4e03-889a-5b0aa24eee34  \n8B5DCE37-050272-E8FFC\r\nZZZ123\n"

	urls, summary, err := GenerateURLs(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://x",
		"https://manapool.com/seller/orders/1ccca6e6-7d39-4e03-889a-5b0aa24eee34",
		"https://sellerportal.tcgplayer.com/orders/8B5DCE37-050272-E8FFC",
		"https://sellerportal.tcgplayer.com/orders/ZZZ123",
	}, urls)

	assert.Equal(t, 4, summary.TotalOrders)
	assert.True(t, summary.TotalNet.IsZero())
	assert.False(t, summary.AllDirect)
	assert.Equal(t, "", summary.DateRange)
}

func TestGenerate_KeepsInputAndKind(t *testing.T) {
	links, err := Generate("ZZZ123\nhttps://y")
	require.NoError(t, err)
	require.Len(t, links, 2)

	assert.Equal(t, Link{Input: "ZZZ123", Kind: KindUnrecognized, URL: "https://sellerportal.tcgplayer.com/orders/ZZZ123"}, links[0])
	assert.Equal(t, KindURL, links[1].Kind)
}

func TestGenerateURLs_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t\n"} {
		_, _, err := GenerateURLs(raw)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
	assert.Equal(t, "no order numbers given", ErrEmptyInput.Error())
}
