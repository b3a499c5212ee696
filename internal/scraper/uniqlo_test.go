package scraper

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniqloTestItem(t *testing.T, mainImages int) *uniqloItem {
	t.Helper()

	main := map[string]any{}
	for i := 0; i < mainImages; i++ {
		code := fmt.Sprintf("%02d", i)
		main[code] = map[string]string{
			"image": fmt.Sprintf("https://image.uniqlo.com/goods/E470/item/%s_3x4.jpg", code),
		}
	}

	raw, err := json.Marshal(map[string]any{
		"productId":        "E470",
		"name":             "Crew neck t-shirt",
		"shortDescription": "Soft cotton tee",
		"prices":           map[string]any{"base": map[string]any{"value": 14.90}},
		"images":           map[string]any{"main": main},
		"colors":           []map[string]string{{"name": "White"}, {"name": "Black"}},
		"sizes":            []map[string]string{{"name": "S"}, {"name": "M"}},
		"category":         map[string]string{"name": "Tops"},
		"stock":            map[string]string{"statusText": "In stock"},
	})
	require.NoError(t, err)

	var item uniqloItem
	require.NoError(t, json.Unmarshal(raw, &item))
	return &item
}

func TestUniqloTransformImageOrderDeterministic(t *testing.T) {
	s := NewUniqloScraper(nil, false)
	item := uniqloTestItem(t, 8)

	// Main images live in a map; iteration must not leak map ordering into
	// the result, or re-scrapes of unchanged data churn image rows.
	first := s.transform(item).Images
	for i := 0; i < 200; i++ {
		assert.Equal(t, first, s.transform(item).Images)
	}

	require.Len(t, first, 5)
	for i, img := range first {
		assert.Contains(t, img, fmt.Sprintf("%02d_zoom.jpg", i))
	}
}

func TestUniqloTransformImageZoomSwap(t *testing.T) {
	s := NewUniqloScraper(nil, false)
	product := s.transform(uniqloTestItem(t, 2))

	require.Len(t, product.Images, 2)
	for _, img := range product.Images {
		assert.Contains(t, img, "_zoom.jpg")
		assert.NotContains(t, img, "_3x4.jpg")
	}
}
