package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RooJenkins/UPLO5/internal/broker"
	"github.com/RooJenkins/UPLO5/internal/redisclient"
	"github.com/RooJenkins/UPLO5/internal/scraper"
	"github.com/RooJenkins/UPLO5/internal/store"
	"github.com/RooJenkins/UPLO5/internal/util"
)

// IngestService runs retailer scrapers and persists their output. Each
// source's batch is saved in its own transaction; a failing source never
// affects the others.
type IngestService struct {
	store        *store.Store
	cache        *redisclient.Client
	registry     *scraper.Registry
	orchestrator *scraper.Orchestrator
	publisher    *broker.EventPublisher
	logger       *zap.Logger
	defaultLimit int
}

// NewIngestService creates a new ingest service. cache and publisher may be
// nil.
func NewIngestService(
	st *store.Store,
	cache *redisclient.Client,
	registry *scraper.Registry,
	publisher *broker.EventPublisher,
	defaultLimit int,
) *IngestService {
	return &IngestService{
		store:        st,
		cache:        cache,
		registry:     registry,
		orchestrator: scraper.NewOrchestrator(),
		publisher:    publisher,
		logger:       util.GetLogger(),
		defaultLimit: defaultLimit,
	}
}

// SourceResult reports one source's run.
type SourceResult struct {
	Source  string
	Scraped int
	Saved   int
	Err     error
}

// Sources lists the registered scraper sources.
func (s *IngestService) Sources() []string {
	return s.registry.Sources()
}

// RunSource scrapes one source and persists the batch. The returned error
// covers setup and persistence failures; individual item failures were
// already absorbed by the orchestrator.
func (s *IngestService) RunSource(ctx context.Context, source string, limit int) (*SourceResult, error) {
	ctx, span := util.StartSpan(ctx, "IngestService.RunSource")
	defer span.End()

	sc, err := s.registry.Get(source)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}

	products := s.orchestrator.ScrapeAll(ctx, sc, limit)
	result := &SourceResult{Source: source, Scraped: len(products)}
	if len(products) == 0 {
		return result, nil
	}

	runID := uuid.New().String()
	ids, err := s.store.SaveProducts(ctx, products)
	if err != nil {
		util.BatchSaveFailuresTotal.Inc()
		return result, fmt.Errorf("failed to save %s batch: %w", source, err)
	}
	result.Saved = len(ids)
	util.ProductsUpsertedTotal.Add(float64(len(ids)))

	version := s.bumpCatalogVersion(ctx)

	if s.publisher != nil {
		for i, id := range ids {
			p := products[i]
			if err := s.publisher.PublishProductUpserted(ctx, runID, id, p.Store, p.ExternalID); err != nil {
				s.logger.Warn("Failed to publish product event", zap.Error(err))
				break
			}
		}
		if err := s.publisher.PublishScrapeRunCompleted(ctx, runID, source, len(ids), version); err != nil {
			s.logger.Warn("Failed to publish run event", zap.Error(err))
		}
	}

	s.logger.Info("Ingest run committed",
		zap.String("source", source),
		zap.String("run_id", runID),
		zap.Int("products", len(ids)))
	return result, nil
}

// RunAll runs every registered source to completion independently. A fully
// blocked source degrades total yield, never the run.
func (s *IngestService) RunAll(ctx context.Context, limit int) []SourceResult {
	var results []SourceResult
	for _, source := range s.registry.Sources() {
		result, err := s.RunSource(ctx, source, limit)
		if err != nil {
			if result == nil {
				result = &SourceResult{Source: source}
			}
			result.Err = err
			s.logger.Error("Source ingest failed",
				zap.String("source", source),
				zap.Error(err))
		}
		results = append(results, *result)
	}
	return results
}

// CatalogSize returns the total number of persisted products.
func (s *IngestService) CatalogSize(ctx context.Context) (int64, error) {
	return s.store.CountProducts(ctx)
}

func (s *IngestService) bumpCatalogVersion(ctx context.Context) string {
	if s.cache == nil {
		return ""
	}
	version, err := s.cache.BumpCatalogVersion(ctx)
	if err != nil {
		s.logger.Warn("Failed to bump catalog version", zap.Error(err))
		return ""
	}
	return version
}
