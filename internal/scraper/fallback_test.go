package scraper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackProductDeterministic(t *testing.T) {
	url := "https://www.asos.com/us/product/prd/1234567"

	first := FallbackProduct(url, "ASOS", "ASOS")
	second := FallbackProduct(url, "ASOS", "ASOS")

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, firstJSON, secondJSON)
}

func TestFallbackProductDiffersByURL(t *testing.T) {
	a := FallbackProduct("https://www.asos.com/us/product/prd/1", "ASOS", "ASOS")
	b := FallbackProduct("https://www.asos.com/us/product/prd/2", "ASOS", "ASOS")

	assert.NotEqual(t, a.ExternalID, b.ExternalID)
}

func TestFallbackProductPassesValidationGate(t *testing.T) {
	p := FallbackProduct("https://www.asos.com/us/women/dresses/prd/99", "ASOS", "ASOS")

	assert.NoError(t, ValidateRecord(p))
	assert.NotEmpty(t, p.Name)
	assert.GreaterOrEqual(t, len(p.Images), 2)
	for _, v := range p.Variants {
		assert.Positive(t, v.PriceCents)
	}
}

func TestFallbackListingURLsStable(t *testing.T) {
	first := FallbackListingURLs("https://example.com/listing", "https://example.com/prd/", 20)
	second := FallbackListingURLs("https://example.com/listing", "https://example.com/prd/", 20)

	require.Len(t, first, 20)
	assert.Equal(t, first, second)
}
