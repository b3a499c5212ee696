package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RooJenkins/UPLO5/internal/models"
	"github.com/RooJenkins/UPLO5/internal/redisclient"
	"github.com/RooJenkins/UPLO5/internal/store"
	"github.com/RooJenkins/UPLO5/internal/util"
)

// ErrInvalidRequest marks request validation failures, mapped to a 400 at
// the API boundary.
var ErrInvalidRequest = errors.New("invalid request")

const (
	maxFeedLimit     = 100
	defaultFeedLimit = 100
	feedCacheTTL     = 60 * time.Second
)

// FeedService serves the read path: the paginated feed and single-product
// detail lookups.
type FeedService struct {
	store  *store.Store
	cache  *redisclient.Client
	logger *zap.Logger
}

// NewFeedService creates a new feed service. cache may be nil, in which case
// every read goes to the database.
func NewFeedService(st *store.Store, cache *redisclient.Client) *FeedService {
	return &FeedService{
		store:  st,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// FeedRequest carries the raw feed query parameters before validation.
type FeedRequest struct {
	Cursor   string
	Limit    *int
	Brand    string
	Category string
	InStock  bool
	PriceMin *int64
	PriceMax *int64
}

// validate turns a request into a store filter. Out-of-range limits are
// rejected, not clamped.
func (r *FeedRequest) validate() (store.FeedFilter, error) {
	f := store.FeedFilter{
		Brand:    r.Brand,
		Category: r.Category,
		InStock:  r.InStock,
		PriceMin: r.PriceMin,
		PriceMax: r.PriceMax,
		Limit:    defaultFeedLimit,
	}

	if r.Limit != nil {
		if *r.Limit < 1 || *r.Limit > maxFeedLimit {
			return f, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidRequest, maxFeedLimit)
		}
		f.Limit = *r.Limit
	}

	if r.Cursor != "" {
		afterID, err := strconv.ParseInt(r.Cursor, 10, 64)
		if err != nil || afterID < 0 {
			return f, fmt.Errorf("%w: malformed cursor", ErrInvalidRequest)
		}
		f.AfterID = afterID
	}

	if r.PriceMin != nil && *r.PriceMin < 0 {
		return f, fmt.Errorf("%w: price_min must be non-negative", ErrInvalidRequest)
	}
	if r.PriceMax != nil && *r.PriceMax < 0 {
		return f, fmt.Errorf("%w: price_max must be non-negative", ErrInvalidRequest)
	}

	return f, nil
}

// cacheKey identifies one feed page for a given catalog version and filter.
func (r *FeedRequest) cacheKey(version string, f store.FeedFilter) string {
	var sb strings.Builder
	sb.WriteString(version)
	fmt.Fprintf(&sb, "|c=%d|l=%d|b=%s|cat=%s|s=%t", f.AfterID, f.Limit, f.Brand, f.Category, f.InStock)
	if f.PriceMin != nil {
		fmt.Fprintf(&sb, "|pmin=%d", *f.PriceMin)
	}
	if f.PriceMax != nil {
		fmt.Fprintf(&sb, "|pmax=%d", *f.PriceMax)
	}
	return sb.String()
}

// GetFeed returns one page of the product feed.
func (s *FeedService) GetFeed(ctx context.Context, req *FeedRequest) (*models.FeedPage, error) {
	ctx, span := util.StartSpan(ctx, "FeedService.GetFeed")
	defer span.End()

	filter, err := req.validate()
	if err != nil {
		return nil, err
	}

	version := s.catalogVersion(ctx)

	var key string
	if s.cache != nil {
		key = req.cacheKey(version, filter)
		if payload, ok, err := s.cache.GetFeedPage(ctx, key); err == nil && ok {
			var page models.FeedPage
			if err := json.Unmarshal(payload, &page); err == nil {
				util.FeedCacheHitsTotal.WithLabelValues("hit").Inc()
				return &page, nil
			}
		}
		util.FeedCacheHitsTotal.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	items, nextCursor, err := s.store.GetFeedPage(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountFeed(ctx, filter)
	if err != nil {
		return nil, err
	}
	util.FeedQueryDuration.Observe(time.Since(start).Seconds())

	page := &models.FeedPage{
		Items:          items,
		NextCursor:     nextCursor,
		CatalogVersion: version,
		TotalCount:     total,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(page); err == nil {
			if err := s.cache.SetFeedPage(ctx, key, payload, feedCacheTTL); err != nil {
				s.logger.Warn("Failed to cache feed page", zap.Error(err))
			}
		}
	}

	return page, nil
}

// GetProduct returns the full aggregate for one product id.
func (s *FeedService) GetProduct(ctx context.Context, id int64) (*models.ProductDetail, error) {
	ctx, span := util.StartSpan(ctx, "FeedService.GetProduct")
	defer span.End()

	detail, err := s.store.GetProductDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	detail.Brand.LogoURL = brandLogoURL(detail.Brand.Name)
	detail.Store.Domain = extractDomain(detail.ProductURL)
	return detail, nil
}

// GetStats returns catalog-wide counts.
func (s *FeedService) GetStats(ctx context.Context) (*models.CatalogStats, error) {
	return s.store.GetStats(ctx)
}

// CatalogSize returns the total product count, used by the health endpoint.
func (s *FeedService) CatalogSize(ctx context.Context) (int64, error) {
	return s.store.CountProducts(ctx)
}

func (s *FeedService) catalogVersion(ctx context.Context) string {
	if s.cache == nil {
		return time.Now().UTC().Format(time.RFC3339)
	}
	version, err := s.cache.CatalogVersion(ctx)
	if err != nil {
		s.logger.Warn("Failed to read catalog version", zap.Error(err))
		return time.Now().UTC().Format(time.RFC3339)
	}
	return version
}

func brandLogoURL(name string) string {
	if name == "" {
		return ""
	}
	host := strings.ReplaceAll(strings.ToLower(name), " ", "")
	host = strings.ReplaceAll(host, "&", "")
	return "https://logo.clearbit.com/" + host + ".com"
}

func extractDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if idx := strings.Index(rawURL, "://"); idx >= 0 {
		rawURL = rawURL[idx+3:]
	}
	if idx := strings.Index(rawURL, "/"); idx >= 0 {
		rawURL = rawURL[:idx]
	}
	return rawURL
}
