package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/RooJenkins/UPLO5/internal/models"
)

var hmProductIDPattern = regexp.MustCompile(`\.([0-9]+)\.html`)

var (
	hmNameSelectors = []string{
		`h1.product-item-headline`,
		`h1`,
	}
	hmDescriptionSelectors = []string{
		`.product-description`,
		`div[class*="description"]`,
	}
	hmPriceSelectors = []string{
		`.price-value`,
		`span[class*="price"]`,
	}
	hmImageSelectors = []string{
		`.product-detail-main-image-container img`,
		`img[class*="product-image"]`,
	}
)

type HMScraper struct {
	cfg     Config
	fetcher *Fetcher
	live    bool
}

func NewHMScraper(fetcher *Fetcher, live bool) *HMScraper {
	return &HMScraper{
		cfg: Config{
			Brand: "H&M",
			Store: "H&M",
			URLs: []string{
				"https://www2.hm.com/en_us/men/products/t-shirts-tank-tops.html",
				"https://www2.hm.com/en_us/women/products/dresses.html",
				"https://www2.hm.com/en_us/men/products/jeans.html",
				"https://www2.hm.com/en_us/women/products/tops.html",
			},
		},
		fetcher: fetcher,
		live:    live,
	}
}

func (s *HMScraper) Source() string        { return "hm" }
func (s *HMScraper) ListingURLs() []string { return s.cfg.URLs }

func (s *HMScraper) ScrapeListing(ctx context.Context, url string) ([]string, error) {
	if !s.live {
		return FallbackListingURLs(url, "https://www2.hm.com/en_us/productpage.", 20), nil
	}

	doc, err := s.fetcher.FetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	links := doc.CollectAttr([]string{`.product-item a`}, "href")

	seen := map[string]struct{}{}
	var urls []string
	for _, href := range links {
		if strings.HasPrefix(href, "/") {
			href = "https://www2.hm.com" + href
		}
		if !strings.Contains(href, "/productpage") {
			continue
		}
		if _, dup := seen[href]; dup {
			continue
		}
		seen[href] = struct{}{}
		urls = append(urls, href)
	}
	return urls, nil
}

func (s *HMScraper) ScrapeDetail(ctx context.Context, url string) (*models.ScrapedProduct, error) {
	if !s.live {
		return FallbackProduct(url, s.cfg.Brand, s.cfg.Store), nil
	}

	return retryDetail(ctx, detailRetries, func() (*models.ScrapedProduct, error) {
		return s.scrapeDetailOnce(ctx, url)
	})
}

func (s *HMScraper) scrapeDetailOnce(ctx context.Context, url string) (*models.ScrapedProduct, error) {
	doc, err := s.fetcher.FetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	name := doc.FirstText(hmNameSelectors)
	description := doc.FirstText(hmDescriptionSelectors)
	price := parsePrice(doc.FirstText(hmPriceSelectors))

	images := doc.CollectAttr(hmImageSelectors, "src", "data-src")
	var httpImages []string
	for _, img := range images {
		if strings.HasPrefix(img, "http") {
			httpImages = append(httpImages, img)
		}
	}
	httpImages = DedupeImages(httpImages)

	var sizes []sizeOption
	doc.Each(`.product-size-list .size-list-item`, func(sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		sizes = append(sizes, sizeOption{
			Size:      text,
			Available: !sel.HasClass("out-of-stock"),
		})
	})

	product := &models.ScrapedProduct{
		ExternalID:  extractID(hmProductIDPattern, url),
		Name:        name,
		Description: description,
		Category:    InferCategory(url),
		Brand:       s.cfg.Brand,
		Store:       s.cfg.Store,
		ProductURL:  url,
		BuyURL:      url,
		Images:      httpImages,
		Variants:    SizeVariants(sizes, PriceToCents(price)),
	}

	if err := ValidateRecord(product); err != nil {
		return nil, fmt.Errorf("hm product %s: %w", url, err)
	}
	return product, nil
}
