package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RooJenkins/UPLO5/internal/models"
)

// fakeScraper yields scripted listing/detail results.
type fakeScraper struct {
	urls        []string
	listings    map[string][]string
	failDetails map[string]error
	detailCalls int
}

func (f *fakeScraper) Source() string { return "fake" }

func (f *fakeScraper) ListingURLs() []string { return f.urls }

func (f *fakeScraper) ScrapeListing(_ context.Context, url string) ([]string, error) {
	details, ok := f.listings[url]
	if !ok {
		return nil, errors.New("listing blocked")
	}
	return details, nil
}

func (f *fakeScraper) ScrapeDetail(_ context.Context, url string) (*models.ScrapedProduct, error) {
	f.detailCalls++
	if err, ok := f.failDetails[url]; ok {
		return nil, err
	}
	return &models.ScrapedProduct{
		ExternalID: url,
		Name:       "Product " + url,
		Category:   "other",
		Brand:      "Fake",
		Store:      "Fake",
		ProductURL: url,
		BuyURL:     url,
		Images:     []string{url + "/1.jpg", url + "/2.jpg"},
		Variants:   []models.ScrapedVariant{{PriceCents: 1000, InStock: true}},
	}, nil
}

func TestScrapeAllRespectsLimit(t *testing.T) {
	fake := &fakeScraper{
		urls: []string{"listing-0"},
		listings: map[string][]string{
			"listing-0": {"a", "b", "c", "d", "e"},
		},
	}

	products := NewOrchestrator().ScrapeAll(context.Background(), fake, 3)

	require.Len(t, products, 3)
	assert.Equal(t, "a", products[0].ExternalID)
	assert.Equal(t, "c", products[2].ExternalID)
}

func TestScrapeAllSkipsFailedItems(t *testing.T) {
	fake := &fakeScraper{
		urls: []string{"listing-0"},
		listings: map[string][]string{
			"listing-0": {"a", "bad", "c"},
		},
		failDetails: map[string]error{
			"bad": errors.New("timeout"),
		},
	}

	products := NewOrchestrator().ScrapeAll(context.Background(), fake, 10)

	require.Len(t, products, 2)
	assert.Equal(t, "a", products[0].ExternalID)
	assert.Equal(t, "c", products[1].ExternalID)
}

func TestScrapeAllSurvivesBlockedListing(t *testing.T) {
	fake := &fakeScraper{
		urls: []string{"listing-0", "listing-1"},
		listings: map[string][]string{
			"listing-1": {"x", "y"},
		},
	}
	// listing-0 is not scripted and errors out; the run continues

	products := NewOrchestrator().ScrapeAll(context.Background(), fake, 10)
	assert.Len(t, products, 2)
}

func TestScrapeAllDedupesDetailURLs(t *testing.T) {
	fake := &fakeScraper{
		urls: []string{"listing-0", "listing-1"},
		listings: map[string][]string{
			"listing-0": {"a", "b"},
			"listing-1": {"b", "c"},
		},
	}

	products := NewOrchestrator().ScrapeAll(context.Background(), fake, 10)

	assert.Len(t, products, 3)
	assert.Equal(t, 3, fake.detailCalls)
}

func TestRetryDetailDoesNotRetryIncompleteRecords(t *testing.T) {
	calls := 0
	_, err := retryDetail(context.Background(), 3, func() (*models.ScrapedProduct, error) {
		calls++
		return nil, fmt.Errorf("bad page: %w", ErrIncompleteRecord)
	})

	assert.ErrorIs(t, err, ErrIncompleteRecord)
	assert.Equal(t, 1, calls, "validation failures must not be retried")
}

func TestRetryDetailReturnsFirstSuccess(t *testing.T) {
	calls := 0
	product, err := retryDetail(context.Background(), 3, func() (*models.ScrapedProduct, error) {
		calls++
		return &models.ScrapedProduct{Name: "ok"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", product.Name)
	assert.Equal(t, 1, calls)
}

func TestValidateRecord(t *testing.T) {
	valid := &models.ScrapedProduct{
		Name:     "Shirt",
		Images:   []string{"1.jpg", "2.jpg"},
		Variants: []models.ScrapedVariant{{PriceCents: 1999}},
	}
	assert.NoError(t, ValidateRecord(valid))

	noName := *valid
	noName.Name = ""
	assert.ErrorIs(t, ValidateRecord(&noName), ErrIncompleteRecord)

	zeroPrice := *valid
	zeroPrice.Variants = []models.ScrapedVariant{{PriceCents: 0}}
	assert.ErrorIs(t, ValidateRecord(&zeroPrice), ErrIncompleteRecord)

	oneImage := *valid
	oneImage.Images = []string{"1.jpg"}
	assert.ErrorIs(t, ValidateRecord(&oneImage), ErrIncompleteRecord)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&fakeScraper{})

	s, err := registry.Get("fake")
	require.NoError(t, err)
	assert.Equal(t, "fake", s.Source())

	_, err = registry.Get("zara")
	assert.Error(t, err)

	assert.Equal(t, []string{"fake"}, registry.Sources())
}
