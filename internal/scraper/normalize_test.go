package scraper

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceToCents(t *testing.T) {
	assert.Equal(t, int64(1999), PriceToCents(19.99))
	assert.Equal(t, int64(1500), PriceToCents(15.0))
	assert.Equal(t, int64(0), PriceToCents(0))
	// 29.99*100 is 2998.9999... in float; rounding must not truncate
	assert.Equal(t, int64(2999), PriceToCents(29.99))
}

func TestDedupeImagesPreservesFirstSeenOrder(t *testing.T) {
	images := DedupeImages([]string{"a", "b", "a", "", "c", "b", "d"})
	assert.Equal(t, []string{"a", "b", "c", "d"}, images)
}

func TestDedupeImagesCaps(t *testing.T) {
	images := DedupeImages([]string{"1", "2", "3", "4", "5", "6", "7"})
	assert.Len(t, images, 5)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, images)
}

func TestCrossVariantsBounded(t *testing.T) {
	colors := []string{"Red", "Blue", "Green", "Black", "White"}
	sizes := []string{"XS", "S", "M", "L", "XL", "XXL", "3XL"}

	variants := CrossVariants("SKU-1", colors, sizes, 1999, true)

	// capped at 3 colors x 5 sizes
	require.Len(t, variants, 15)
	for _, v := range variants {
		assert.NotEmpty(t, v.Color)
		assert.NotEmpty(t, v.Size)
		assert.Equal(t, int64(1999), v.PriceCents)
	}
}

func TestCrossVariantsMultibyteColorSKU(t *testing.T) {
	variants := CrossVariants("SKU-9", []string{"Béige"}, []string{"M"}, 999, true)

	require.Len(t, variants, 1)
	assert.Equal(t, "SKU-9-Béi-M", variants[0].SKU)
	assert.True(t, utf8.ValidString(variants[0].SKU))
}

func TestCrossVariantsSingleDefaultWhenDimensionMissing(t *testing.T) {
	variants := CrossVariants("SKU-2", nil, []string{"M", "L"}, 999, true)

	require.Len(t, variants, 1)
	assert.Empty(t, variants[0].Color)
	assert.Equal(t, "M", variants[0].Size)

	variants = CrossVariants("SKU-3", nil, nil, 999, false)
	require.Len(t, variants, 1)
	assert.False(t, variants[0].InStock)
}

func TestSizeVariants(t *testing.T) {
	variants := SizeVariants([]sizeOption{
		{Size: "M", Available: true},
		{Size: "L", Available: false},
	}, 2500)

	require.Len(t, variants, 2)
	assert.True(t, variants[0].InStock)
	assert.False(t, variants[1].InStock)

	// no sizes extracted falls back to one in-stock default variant
	variants = SizeVariants(nil, 2500)
	require.Len(t, variants, 1)
	assert.True(t, variants[0].InStock)
	assert.Empty(t, variants[0].Size)
}
