package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/RooJenkins/UPLO5/internal/models"
)

// ASOS serves heavy bot protection; live extraction needs browser-like
// headers and conservative pacing, and may still be blocked without a proxy
// layer. Fallback mode keeps the pipeline exercisable regardless.

// detailRetries bounds attempts per detail page across all page adapters.
const detailRetries = 3

var asosProductIDPattern = regexp.MustCompile(`prd/([0-9]+)`)

var (
	asosNameSelectors = []string{
		`h1`,
		`[class*="product-hero"] h1`,
		`[data-test-id="product-name"]`,
	}
	asosDescriptionSelectors = []string{
		`[class*="product-description"]`,
		`[data-test-id="product-description"]`,
		`div[class*="description"]`,
	}
	asosPriceSelectors = []string{
		`[data-testid="current-price"]`,
		`[class*="current-price"]`,
		`span[data-id="current-price"]`,
		`[class*="price"]`,
	}
	asosImageSelectors = []string{
		`img[class*="product-image"]`,
		`img[class*="gallery"]`,
		`button[class*="thumbnail"] img`,
		`img[src*="asos-media"]`,
	}
)

type ASOSScraper struct {
	cfg     Config
	fetcher *Fetcher
	live    bool
}

func NewASOSScraper(fetcher *Fetcher, live bool) *ASOSScraper {
	return &ASOSScraper{
		cfg: Config{
			Brand: "ASOS",
			Store: "ASOS",
			URLs: []string{
				"https://www.asos.com/us/men/t-shirts-tank-tops/cat/?cid=7616",
				"https://www.asos.com/us/men/jeans/cat/?cid=4208",
				"https://www.asos.com/us/men/pants/cat/?cid=4910",
				"https://www.asos.com/us/women/dresses/cat/?cid=8799",
				"https://www.asos.com/us/women/tops/cat/?cid=4169",
				"https://www.asos.com/us/women/jeans/cat/?cid=2639",
				"https://www.asos.com/us/women/coats-jackets/cat/?cid=2641",
			},
		},
		fetcher: fetcher,
		live:    live,
	}
}

func (s *ASOSScraper) Source() string        { return "asos" }
func (s *ASOSScraper) ListingURLs() []string { return s.cfg.URLs }

func (s *ASOSScraper) ScrapeListing(ctx context.Context, url string) ([]string, error) {
	if !s.live {
		return FallbackListingURLs(url, "https://www.asos.com/us/product/prd/", 20), nil
	}

	doc, err := s.fetcher.FetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	links := doc.CollectAttr([]string{
		`article[data-auto-id="productTile"] a`,
		`a[href*="/prd/"]`,
		`section[data-id] a`,
	}, "href")

	seen := map[string]struct{}{}
	var urls []string
	for _, href := range links {
		if !strings.Contains(href, "/prd/") {
			continue
		}
		if !strings.HasPrefix(href, "http") {
			href = "https://www.asos.com" + href
		}
		if _, dup := seen[href]; dup {
			continue
		}
		seen[href] = struct{}{}
		urls = append(urls, href)
	}
	return urls, nil
}

func (s *ASOSScraper) ScrapeDetail(ctx context.Context, url string) (*models.ScrapedProduct, error) {
	if !s.live {
		// Simulated network pacing.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
		return FallbackProduct(url, s.cfg.Brand, s.cfg.Store), nil
	}

	return retryDetail(ctx, detailRetries, func() (*models.ScrapedProduct, error) {
		return s.scrapeDetailOnce(ctx, url)
	})
}

func (s *ASOSScraper) scrapeDetailOnce(ctx context.Context, url string) (*models.ScrapedProduct, error) {
	doc, err := s.fetcher.FetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	var name, description string
	var price float64
	var images []string

	// Embedded structured metadata beats selector scraping when present.
	if meta := doc.ProductMetadata(); meta != nil {
		name = meta.Name
		description = meta.Description
		price = meta.Price()
		images = meta.Images()
	}

	if name == "" {
		name = doc.FirstText(asosNameSelectors)
	}
	if description == "" {
		description = doc.FirstText(asosDescriptionSelectors)
	}
	if price == 0 {
		price = parsePrice(doc.FirstText(asosPriceSelectors))
	}
	if len(images) == 0 {
		images = doc.CollectAttr(asosImageSelectors, "src", "data-src")
	}
	images = DedupeImages(images)

	externalID := extractID(asosProductIDPattern, url)

	sizes := collectSizeOptions(doc, []string{
		`select[data-id="sizeSelect"] option`,
		`button[class*="size"]`,
		`select[id*="size"] option`,
	})

	product := &models.ScrapedProduct{
		ExternalID:  externalID,
		Name:        name,
		Description: description,
		Category:    InferCategory(url),
		Brand:       s.cfg.Brand,
		Store:       s.cfg.Store,
		ProductURL:  url,
		BuyURL:      url,
		Images:      images,
		Variants:    SizeVariants(sizes, PriceToCents(price)),
	}

	if err := ValidateRecord(product); err != nil {
		return nil, fmt.Errorf("asos product %s: %w", url, err)
	}
	return product, nil
}

// collectSizeOptions tries selector strategies in order; the first selector
// yielding any options wins.
func collectSizeOptions(doc *Document, selectors []string) []sizeOption {
	for _, sel := range selectors {
		var sizes []sizeOption
		doc.Each(sel, func(s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text == "" || text == "Please select" {
				return
			}
			_, disabled := s.Attr("disabled")
			available := !disabled &&
				!s.HasClass("disabled") &&
				!s.HasClass("out-of-stock")
			sizes = append(sizes, sizeOption{Size: text, Available: available})
		})
		if len(sizes) > 0 {
			return sizes
		}
	}
	return nil
}

var priceDigits = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

func parsePrice(text string) float64 {
	match := priceDigits.FindString(strings.ReplaceAll(text, ",", ""))
	if match == "" {
		return 0
	}
	price, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return price
}

func extractID(pattern *regexp.Regexp, url string) string {
	if m := pattern.FindStringSubmatch(url); len(m) > 1 {
		return m[1]
	}
	return url
}
