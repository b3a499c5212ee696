package scraper

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/RooJenkins/UPLO5/internal/models"
)

// ErrIncompleteRecord marks a detail extraction that failed the validation
// gate. Incomplete records are discarded, never retried.
var ErrIncompleteRecord = errors.New("extraction incomplete")

// Scraper extracts listing and detail data for one retailer. Listing URLs
// are retailer-specific: category page URLs for page scrapers, search terms
// for API scrapers.
type Scraper interface {
	Source() string
	ListingURLs() []string
	ScrapeListing(ctx context.Context, url string) ([]string, error)
	ScrapeDetail(ctx context.Context, url string) (*models.ScrapedProduct, error)
}

// Config holds per-retailer scrape settings.
type Config struct {
	Brand string
	Store string
	URLs  []string
}

// Registry maps source names to scrapers.
type Registry struct {
	scrapers map[string]Scraper
}

func NewRegistry() *Registry {
	return &Registry{scrapers: map[string]Scraper{}}
}

func (r *Registry) Register(s Scraper) {
	r.scrapers[s.Source()] = s
}

func (r *Registry) Get(name string) (Scraper, error) {
	s, ok := r.scrapers[name]
	if !ok {
		return nil, fmt.Errorf("unknown scraper source: %s", name)
	}
	return s, nil
}

// Sources returns registered source names in stable order.
func (r *Registry) Sources() []string {
	names := make([]string, 0, len(r.scrapers))
	for name := range r.scrapers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateRecord applies the acceptance gate: a record needs a name, a
// non-zero price and at least two images before it may reach persistence.
func ValidateRecord(p *models.ScrapedProduct) error {
	if p.Name == "" {
		return fmt.Errorf("%w: missing name", ErrIncompleteRecord)
	}
	priced := false
	for _, v := range p.Variants {
		if v.PriceCents > 0 {
			priced = true
			break
		}
	}
	if !priced {
		return fmt.Errorf("%w: zero price", ErrIncompleteRecord)
	}
	if len(p.Images) < 2 {
		return fmt.Errorf("%w: only %d images", ErrIncompleteRecord, len(p.Images))
	}
	return nil
}
