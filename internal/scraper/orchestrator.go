package scraper

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/RooJenkins/UPLO5/internal/models"
	"github.com/RooJenkins/UPLO5/internal/util"
)

// Orchestrator drives a scraper over its configured listing URLs. Per-item
// failures are logged and skipped; one failing item never aborts a run.
type Orchestrator struct {
	logger *zap.Logger
}

func NewOrchestrator() *Orchestrator {
	return &Orchestrator{logger: util.GetLogger()}
}

// ScrapeAll collects up to limit products from one source, walking listing
// URLs until the limit is reached or URLs are exhausted. Detail URLs seen on
// multiple listing pages are fetched once.
func (o *Orchestrator) ScrapeAll(ctx context.Context, s Scraper, limit int) []models.ScrapedProduct {
	source := s.Source()
	o.logger.Info("Starting scrape",
		zap.String("source", source),
		zap.Int("limit", limit))

	start := time.Now()
	defer func() {
		util.ScrapeRunDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	}()

	var products []models.ScrapedProduct
	seen := map[string]struct{}{}

	for _, listingURL := range s.ListingURLs() {
		if len(products) >= limit {
			break
		}

		detailURLs, err := s.ScrapeListing(ctx, listingURL)
		if err != nil {
			util.ScrapeFailuresTotal.WithLabelValues(source, "listing").Inc()
			o.logger.Error("Listing scrape failed",
				zap.String("source", source),
				zap.String("url", listingURL),
				zap.Error(err))
			continue
		}
		o.logger.Info("Listing scraped",
			zap.String("source", source),
			zap.String("url", listingURL),
			zap.Int("detail_urls", len(detailURLs)))

		for _, detailURL := range detailURLs {
			if len(products) >= limit {
				break
			}
			if _, dup := seen[detailURL]; dup {
				continue
			}
			seen[detailURL] = struct{}{}

			product, err := s.ScrapeDetail(ctx, detailURL)
			if err != nil {
				reason := "network"
				if errors.Is(err, ErrIncompleteRecord) {
					reason = "incomplete"
				}
				util.ScrapeFailuresTotal.WithLabelValues(source, reason).Inc()
				o.logger.Warn("Detail scrape failed",
					zap.String("source", source),
					zap.String("url", detailURL),
					zap.Error(err))
				continue
			}

			products = append(products, *product)
			util.ProductsScrapedTotal.WithLabelValues(source).Inc()
		}
	}

	o.logger.Info("Scrape completed",
		zap.String("source", source),
		zap.Int("products", len(products)))
	return products
}

// retryDetail runs one detail extraction up to attempts times, waiting
// 2^attempt seconds before each attempt after the first. Validation-gate
// failures are terminal; only transient errors are retried.
func retryDetail(ctx context.Context, attempts int, fn func() (*models.ScrapedProduct, error)) (*models.ScrapedProduct, error) {
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		product, err := fn()
		if err == nil {
			return product, nil
		}
		if errors.Is(err, ErrIncompleteRecord) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
