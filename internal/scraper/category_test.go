package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferCategory(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.asos.com/us/women/dresses/cat/?cid=8799", "dresses"},
		{"https://www.asos.com/us/men/jeans/cat/?cid=4208", "mens-bottoms"},
		{"https://www.asos.com/us/women/pants/cat/?cid=2640", "womens-bottoms"},
		{"https://www.asos.com/us/women/coats-jackets/cat/?cid=2641", "womens-outerwear"},
		{"https://www.asos.com/us/men/t-shirts-tank-tops/cat/?cid=7616", "mens-tops"},
		{"https://www2.hm.com/en_us/ladies/tops.html", "womens-tops"},
		{"https://example.com/sneakers-sale", "shoes"},
		{"https://example.com/trousers", "bottoms"},
		{"https://example.com/gift-cards", "other"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, InferCategory(tc.url), "url: %s", tc.url)
	}
}

func TestInferCategoryDressBeatsGenderedBottoms(t *testing.T) {
	// dress outranks other garment keywords regardless of gender segment
	assert.Equal(t, "dresses", InferCategory("https://example.com/women/dress-with-pants"))
}
