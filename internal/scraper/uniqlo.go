package scraper

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/RooJenkins/UPLO5/internal/models"
)

// UniqloScraper uses the retailer's public product search API instead of
// page extraction. Listing URLs are search terms; detail fetches re-query
// the API for one product id.
type UniqloScraper struct {
	cfg     Config
	fetcher *Fetcher
	live    bool
	baseURL string
}

var uniqloFallbackColors = []string{"White", "Black", "Navy", "Olive", "Beige", "Gray"}

func NewUniqloScraper(fetcher *Fetcher, live bool) *UniqloScraper {
	return &UniqloScraper{
		cfg: Config{
			Brand: "UNIQLO",
			Store: "UNIQLO",
			URLs: []string{
				"shirt", "t-shirt", "jeans", "pants", "dress",
				"sweater", "hoodie", "jacket", "coat", "shorts",
			},
		},
		fetcher: fetcher,
		live:    live,
		baseURL: "https://www.uniqlo.com/us/api/commerce/v5/en/products",
	}
}

func (s *UniqloScraper) Source() string        { return "uniqlo" }
func (s *UniqloScraper) ListingURLs() []string { return s.cfg.URLs }

type uniqloSearchResponse struct {
	Result struct {
		Items []uniqloItem `json:"items"`
	} `json:"result"`
}

type uniqloItem struct {
	ProductID        string `json:"productId"`
	Name             string `json:"name"`
	ShortDescription string `json:"shortDescription"`
	LongDescription  string `json:"longDescription"`
	Prices           struct {
		Base struct {
			Value float64 `json:"value"`
		} `json:"base"`
	} `json:"prices"`
	Images struct {
		Main map[string]struct {
			Image string `json:"image"`
		} `json:"main"`
		Sub []struct {
			Image string `json:"image"`
		} `json:"sub"`
	} `json:"images"`
	Colors []struct {
		Name string `json:"name"`
	} `json:"colors"`
	Sizes []struct {
		Name string `json:"name"`
	} `json:"sizes"`
	Category struct {
		Name string `json:"name"`
	} `json:"category"`
	Stock struct {
		StatusText string `json:"statusText"`
	} `json:"stock"`
}

func (s *UniqloScraper) ScrapeListing(ctx context.Context, query string) ([]string, error) {
	if !s.live {
		ids := FallbackListingURLs("uniqlo:"+query, "E4", 20)
		return ids, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "50")
	params.Set("offset", "0")

	var resp uniqloSearchResponse
	if err := s.fetcher.GetJSON(ctx, s.baseURL, params, &resp); err != nil {
		return nil, fmt.Errorf("uniqlo search %q: %w", query, err)
	}

	ids := make([]string, 0, len(resp.Result.Items))
	for _, item := range resp.Result.Items {
		if item.ProductID != "" {
			ids = append(ids, item.ProductID)
		}
	}
	return ids, nil
}

func (s *UniqloScraper) ScrapeDetail(ctx context.Context, productID string) (*models.ScrapedProduct, error) {
	if !s.live {
		return s.fallbackProduct(productID), nil
	}

	params := url.Values{}
	params.Set("q", productID)
	params.Set("limit", "1")

	var resp uniqloSearchResponse
	if err := s.fetcher.GetJSON(ctx, s.baseURL, params, &resp); err != nil {
		return nil, fmt.Errorf("uniqlo product %s: %w", productID, err)
	}
	if len(resp.Result.Items) == 0 {
		return nil, fmt.Errorf("uniqlo product %s: %w: not in search results", productID, ErrIncompleteRecord)
	}

	product := s.transform(&resp.Result.Items[0])
	if err := ValidateRecord(product); err != nil {
		return nil, fmt.Errorf("uniqlo product %s: %w", productID, err)
	}
	return product, nil
}

func (s *UniqloScraper) transform(item *uniqloItem) *models.ScrapedProduct {
	priceCents := PriceToCents(item.Prices.Base.Value)

	// Main images arrive keyed by color code; iterate in sorted key order so
	// identical API data always yields the same image list.
	colorCodes := make([]string, 0, len(item.Images.Main))
	for code := range item.Images.Main {
		colorCodes = append(colorCodes, code)
	}
	sort.Strings(colorCodes)

	var images []string
	for _, code := range colorCodes {
		if img := item.Images.Main[code]; img.Image != "" {
			// Swap listing thumbnails for the zoom rendition.
			images = append(images, strings.Replace(img.Image, "_3x4.jpg", "_zoom.jpg", 1))
		}
	}
	for _, img := range item.Images.Sub {
		if img.Image != "" {
			images = append(images, strings.Replace(img.Image, "_3x4.jpg", "_zoom.jpg", 1))
		}
	}
	images = DedupeImages(images)

	colors := make([]string, 0, len(item.Colors))
	for _, c := range item.Colors {
		if c.Name != "" {
			colors = append(colors, c.Name)
		}
	}
	sizes := make([]string, 0, len(item.Sizes))
	for _, sz := range item.Sizes {
		if sz.Name != "" {
			sizes = append(sizes, sz.Name)
		}
	}

	category := strings.ToLower(item.Category.Name)
	if category == "" {
		category = "other"
	}

	inStock := strings.ToLower(item.Stock.StatusText) != "out of stock"

	description := item.LongDescription
	if description == "" {
		description = item.ShortDescription
	}
	if description == "" {
		description = item.Name
	}

	productURL := "https://www.uniqlo.com/us/en/products/" + item.ProductID

	return &models.ScrapedProduct{
		ExternalID:  item.ProductID,
		Name:        item.Name,
		Description: description,
		Category:    category,
		Brand:       s.cfg.Brand,
		Store:       s.cfg.Store,
		ProductURL:  productURL,
		BuyURL:      productURL,
		Images:      images,
		Variants:    CrossVariants("UNIQLO-"+item.ProductID, colors, sizes, priceCents, inStock),
	}
}

// fallbackProduct mirrors FallbackProduct but carries both color and size
// dimensions so the cross-product path is exercised offline.
func (s *UniqloScraper) fallbackProduct(productID string) *models.ScrapedProduct {
	detailURL := "https://www.uniqlo.com/us/en/products/" + productID
	base := FallbackProduct(detailURL, s.cfg.Brand, s.cfg.Store)
	base.ExternalID = productID

	h := urlHash(detailURL)
	colorCount := 2 + int(h%3)
	colors := make([]string, 0, colorCount)
	for i := 0; i < colorCount; i++ {
		idx := (h + uint64(i)*7) % uint64(len(uniqloFallbackColors))
		colors = append(colors, uniqloFallbackColors[idx])
	}

	sizes := fallbackSizes[:3+h%3]
	priceCents := int64(990 + h%4000)

	base.Variants = CrossVariants("UNIQLO-"+productID, colors, sizes, priceCents, h%4 != 0)
	return base
}
