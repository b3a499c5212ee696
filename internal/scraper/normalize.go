package scraper

import (
	"fmt"
	"math"

	"github.com/RooJenkins/UPLO5/internal/models"
)

// Bounds applied during normalization to keep rows per product sane.
const (
	maxImages        = 5
	maxVariantColors = 3
	maxVariantSizes  = 5
)

// PriceToCents converts a decimal price to integer cents.
func PriceToCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// DedupeImages removes duplicate URLs preserving first-seen order and caps
// the result at maxImages.
func DedupeImages(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
		if len(out) == maxImages {
			break
		}
	}
	return out
}

// CrossVariants builds the color x size cross-product, bounded to avoid
// combinatorial blow-up. When either dimension is missing it falls back to
// a single default variant.
func CrossVariants(externalID string, colors, sizes []string, priceCents int64, inStock bool) []models.ScrapedVariant {
	if len(colors) > 0 && len(sizes) > 0 {
		if len(colors) > maxVariantColors {
			colors = colors[:maxVariantColors]
		}
		if len(sizes) > maxVariantSizes {
			sizes = sizes[:maxVariantSizes]
		}
		variants := make([]models.ScrapedVariant, 0, len(colors)*len(sizes))
		for _, color := range colors {
			for _, size := range sizes {
				// Trim by runes: byte-slicing would split multibyte color names.
				prefix := []rune(color)
				if len(prefix) > 3 {
					prefix = prefix[:3]
				}
				variants = append(variants, models.ScrapedVariant{
					Color:      color,
					Size:       size,
					SKU:        fmt.Sprintf("%s-%s-%s", externalID, string(prefix), size),
					PriceCents: priceCents,
					InStock:    inStock,
				})
			}
		}
		return variants
	}

	v := models.ScrapedVariant{
		SKU:        externalID,
		PriceCents: priceCents,
		InStock:    inStock,
	}
	if len(colors) > 0 {
		v.Color = colors[0]
	}
	if len(sizes) > 0 {
		v.Size = sizes[0]
	}
	return []models.ScrapedVariant{v}
}

// SizeVariants builds one variant per size at a single price, or a default
// in-stock variant when no sizes were extracted.
func SizeVariants(sizes []sizeOption, priceCents int64) []models.ScrapedVariant {
	if len(sizes) == 0 {
		return []models.ScrapedVariant{{PriceCents: priceCents, InStock: true}}
	}
	variants := make([]models.ScrapedVariant, 0, len(sizes))
	for _, s := range sizes {
		variants = append(variants, models.ScrapedVariant{
			Size:       s.Size,
			PriceCents: priceCents,
			InStock:    s.Available,
		})
	}
	return variants
}

type sizeOption struct {
	Size      string
	Available bool
}
