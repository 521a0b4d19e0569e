package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	products := fallbackProducts(t)

	tests := []struct {
		name string
		term string
		want []string
	}{
		{name: "Empty term", term: "", want: []string{}},
		{name: "Whitespace term", term: "   ", want: []string{}},
		{name: "Name match ignores case", term: "MATCHA", want: []string{"prod-002"}},
		{name: "Description match", term: "radiant skin", want: []string{"prod-005"}},
		{name: "Tag only match", term: "stress-relief", want: []string{"prod-008"}},
		{name: "Catalog order is kept", term: "collagen", want: []string{"prod-007"}},
		{name: "Partial word", term: "grass", want: []string{"prod-007"}},
		{name: "No match", term: "kombucha", want: []string{}},
		{name: "Leading space is matched as typed", term: " matcha", want: []string{"prod-002"}},
		{name: "Trailing space is matched as typed", term: "skin ", want: []string{}},
		{name: "Same word without the space", term: "skin", want: []string{"prod-005", "prod-007"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(products, tt.term)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSearch_ManyMatches(t *testing.T) {
	got := Search(fallbackProducts(t), "adaptogen")
	assert.Equal(t, []string{"prod-004", "prod-008"}, ids(got))
}
