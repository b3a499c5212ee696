package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestFeedRequestValidateDefaults(t *testing.T) {
	req := &FeedRequest{InStock: true}

	f, err := req.validate()
	require.NoError(t, err)
	assert.Equal(t, 100, f.Limit)
	assert.Equal(t, int64(0), f.AfterID)
	assert.True(t, f.InStock)
}

func TestFeedRequestValidateRejectsLimit(t *testing.T) {
	for _, limit := range []int{0, -1, 101, 5000} {
		req := &FeedRequest{Limit: intPtr(limit)}
		_, err := req.validate()
		assert.ErrorIs(t, err, ErrInvalidRequest, "limit %d must be rejected, not clamped", limit)
	}

	for _, limit := range []int{1, 50, 100} {
		req := &FeedRequest{Limit: intPtr(limit)}
		f, err := req.validate()
		require.NoError(t, err)
		assert.Equal(t, limit, f.Limit)
	}
}

func TestFeedRequestValidateCursor(t *testing.T) {
	req := &FeedRequest{Cursor: "1234"}
	f, err := req.validate()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), f.AfterID)

	for _, cursor := range []string{"abc", "-5", "12.5", "12 "} {
		req := &FeedRequest{Cursor: cursor}
		_, err := req.validate()
		assert.ErrorIs(t, err, ErrInvalidRequest, "cursor %q", cursor)
	}
}

func TestFeedRequestValidateRejectsNegativePrices(t *testing.T) {
	req := &FeedRequest{PriceMin: int64Ptr(-1)}
	_, err := req.validate()
	assert.ErrorIs(t, err, ErrInvalidRequest)

	req = &FeedRequest{PriceMax: int64Ptr(-100)}
	_, err = req.validate()
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCacheKeyDistinguishesFilters(t *testing.T) {
	base := &FeedRequest{InStock: true}
	f, err := base.validate()
	require.NoError(t, err)

	key1 := base.cacheKey("v1", f)
	key2 := base.cacheKey("v2", f)
	assert.NotEqual(t, key1, key2, "a version bump must invalidate cached pages")

	withBrand := f
	withBrand.Brand = "ASOS"
	assert.NotEqual(t, key1, base.cacheKey("v1", withBrand))

	withCursor := f
	withCursor.AfterID = 50
	assert.NotEqual(t, key1, base.cacheKey("v1", withCursor))

	// identical inputs must produce identical keys
	assert.Equal(t, key1, base.cacheKey("v1", f))
}

func TestBrandLogoURL(t *testing.T) {
	assert.Equal(t, "https://logo.clearbit.com/asos.com", brandLogoURL("ASOS"))
	assert.Equal(t, "https://logo.clearbit.com/hm.com", brandLogoURL("H&M"))
	assert.Equal(t, "https://logo.clearbit.com/calvinklein.com", brandLogoURL("Calvin Klein"))
	assert.Empty(t, brandLogoURL(""))
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "www.asos.com", extractDomain("https://www.asos.com/us/prd/123"))
	assert.Equal(t, "www2.hm.com", extractDomain("https://www2.hm.com/en_us/product.123.html"))
	assert.Equal(t, "example.com", extractDomain("example.com/path"))
	assert.Empty(t, extractDomain(""))
}
