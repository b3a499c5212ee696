package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// defaultUserAgent mirrors a real desktop browser; retailer sites serve
// degraded or blocked pages to obvious automation.
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher issues rate-limited HTTP requests with browser-like headers.
// One fetcher is shared per adapter, serializing its requests.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewFetcher creates a fetcher with the given request timeout and a fixed
// delay between requests.
func NewFetcher(timeout, delay time.Duration) *Fetcher {
	if delay <= 0 {
		delay = time.Second
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
		userAgent: defaultUserAgent,
	}
}

func (f *Fetcher) do(ctx context.Context, rawURL string, accept string) (*http.Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed for %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch failed for %s: status %d", rawURL, resp.StatusCode)
	}
	return resp, nil
}

// FetchDocument retrieves and parses an HTML page.
func (f *Fetcher) FetchDocument(ctx context.Context, rawURL string) (*Document, error) {
	resp, err := f.do(ctx, rawURL, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", rawURL, err)
	}
	return &Document{URL: rawURL, doc: doc}, nil
}

// GetJSON retrieves a JSON API response into out.
func (f *Fetcher) GetJSON(ctx context.Context, baseURL string, params url.Values, out interface{}) error {
	rawURL := baseURL
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}

	resp, err := f.do(ctx, rawURL, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", rawURL, err)
	}
	return nil
}

// Document is the content model for a fetched page: a parsed DOM plus any
// embedded structured product metadata. Field extraction runs an ordered
// list of selector strategies against it; the first non-empty value wins.
type Document struct {
	URL string
	doc *goquery.Document
}

// FirstText returns the trimmed text of the first selector that matches a
// non-empty node. Later selectors are not merged in.
func (d *Document) FirstText(selectors []string) string {
	for _, sel := range selectors {
		text := strings.TrimSpace(d.doc.Find(sel).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// CollectAttr gathers attribute values across all given selectors,
// deduplicated in document order.
func (d *Document) CollectAttr(selectors []string, attrs ...string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, sel := range selectors {
		d.doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			for _, attr := range attrs {
				val, ok := s.Attr(attr)
				if !ok || val == "" {
					continue
				}
				if _, dup := seen[val]; dup {
					return
				}
				seen[val] = struct{}{}
				out = append(out, val)
				return
			}
		})
	}
	return out
}

// Each runs fn over every node matching the selector.
func (d *Document) Each(selector string, fn func(s *goquery.Selection)) {
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) { fn(s) })
}

// productMetadata is embedded JSON-LD product data.
type productMetadata struct {
	Type        string      `json:"@type"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       interface{} `json:"image"`
	Offers      struct {
		Price json.Number `json:"price"`
	} `json:"offers"`
}

// Images returns the image list regardless of whether the metadata carried
// one URL or many.
func (m *productMetadata) Images() []string {
	switch img := m.Image.(type) {
	case string:
		return []string{img}
	case []interface{}:
		out := make([]string, 0, len(img))
		for _, v := range img {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Price returns the offer price in decimal units, 0 when absent.
func (m *productMetadata) Price() float64 {
	price, err := m.Offers.Price.Float64()
	if err != nil {
		return 0
	}
	return price
}

// ProductMetadata extracts embedded JSON-LD product data, preferred over
// selector strategies when present. Handles both bare Product objects and
// @graph containers.
func (d *Document) ProductMetadata() *productMetadata {
	var found *productMetadata
	d.doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := s.Text()

		var meta productMetadata
		if err := json.Unmarshal([]byte(raw), &meta); err == nil && meta.Type == "Product" {
			found = &meta
			return false
		}

		var graph struct {
			Graph []json.RawMessage `json:"@graph"`
		}
		if err := json.Unmarshal([]byte(raw), &graph); err == nil {
			for _, node := range graph.Graph {
				var meta productMetadata
				if err := json.Unmarshal(node, &meta); err == nil && meta.Type == "Product" {
					found = &meta
					return false
				}
			}
		}
		return true
	})
	return found
}
