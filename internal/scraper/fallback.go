package scraper

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/RooJenkins/UPLO5/internal/models"
)

// Deterministic fallback mode: when live extraction is disabled, records are
// derived from a hash of the input URL so the whole pipeline can run without
// network access. Repeated calls for the same URL are byte-identical.

var fallbackNames = []string{
	"Slim fit t-shirt with crew neck",
	"Oversized t-shirt in washed black",
	"Midi dress with v neck",
	"Jersey maxi dress in floral",
	"Skinny jeans in mid wash blue",
	"Slim jeans with rips in black",
	"Cropped t-shirt in white",
	"Longline t-shirt with curved hem",
}

var fallbackDescriptions = []string{
	"Made from soft cotton jersey fabric. Regular fit. Crew neckline. Short sleeves.",
	"Relaxed oversized fit. Soft washed finish. Round neckline.",
	"Woven fabric. V-neckline. Sleeveless design. Midi length.",
	"Jersey material. Maxi length. Pull-on design. Floral print.",
}

var fallbackSizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

func urlHash(rawURL string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(rawURL))
	return h.Sum64()
}

// FallbackListingURLs derives a stable set of detail URLs from a listing URL.
func FallbackListingURLs(listingURL, detailPrefix string, count int) []string {
	baseID := urlHash(listingURL) % 10000000
	urls := make([]string, count)
	for i := 0; i < count; i++ {
		urls[i] = fmt.Sprintf("%s%d", detailPrefix, baseID+uint64(i))
	}
	return urls
}

// FallbackProduct derives a stable pseudo-random product from a detail URL.
func FallbackProduct(detailURL, brand, store string) *models.ScrapedProduct {
	h := urlHash(detailURL)

	segments := strings.Split(strings.TrimRight(detailURL, "/"), "/")
	externalID := segments[len(segments)-1]

	name := fmt.Sprintf("%s %s", strings.ToUpper(brand), fallbackNames[h%uint64(len(fallbackNames))])
	description := fallbackDescriptions[h%uint64(len(fallbackDescriptions))]
	priceCents := int64(1500 + h%5000)

	images := make([]string, 4)
	for i := range images {
		imgID := 1234 + (h+uint64(i))%9999
		images[i] = fmt.Sprintf("https://images.%s-media.example.com/products/%d/1-1.jpg",
			strings.ToLower(store), imgID)
	}

	variants := make([]models.ScrapedVariant, len(fallbackSizes))
	for i, size := range fallbackSizes {
		variants[i] = models.ScrapedVariant{
			Size:       size,
			PriceCents: priceCents,
			InStock:    (h+uint64(i))%3 != 0,
		}
	}

	return &models.ScrapedProduct{
		ExternalID:  externalID,
		Name:        name,
		Description: description,
		Category:    InferCategory(detailURL),
		Brand:       brand,
		Store:       store,
		ProductURL:  detailURL,
		BuyURL:      detailURL,
		Images:      images,
		Variants:    variants,
	}
}
