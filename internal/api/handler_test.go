package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/feed?"+rawQuery, nil)
	return c
}

func TestParseFeedRequestDefaults(t *testing.T) {
	req, err := parseFeedRequest(feedContext(t, ""))
	require.NoError(t, err)

	assert.Empty(t, req.Cursor)
	assert.Nil(t, req.Limit)
	assert.True(t, req.InStock, "in_stock defaults to true")
	assert.Nil(t, req.PriceMin)
	assert.Nil(t, req.PriceMax)
}

func TestParseFeedRequestAllParams(t *testing.T) {
	req, err := parseFeedRequest(feedContext(t,
		"cursor=42&limit=20&brand=ASOS&category=dresses&in_stock=false&price_min=1000&price_max=5000"))
	require.NoError(t, err)

	assert.Equal(t, "42", req.Cursor)
	require.NotNil(t, req.Limit)
	assert.Equal(t, 20, *req.Limit)
	assert.Equal(t, "ASOS", req.Brand)
	assert.Equal(t, "dresses", req.Category)
	assert.False(t, req.InStock)
	require.NotNil(t, req.PriceMin)
	assert.Equal(t, int64(1000), *req.PriceMin)
	require.NotNil(t, req.PriceMax)
	assert.Equal(t, int64(5000), *req.PriceMax)
}

func TestParseFeedRequestRejectsUnparseableValues(t *testing.T) {
	cases := []string{
		"limit=abc",
		"in_stock=maybe",
		"price_min=cheap",
		"price_max=12.50",
	}
	for _, q := range cases {
		_, err := parseFeedRequest(feedContext(t, q))
		assert.Error(t, err, "query: %s", q)
	}
}

func TestParseFeedRequestPassesRangeChecksThrough(t *testing.T) {
	// out-of-range but parseable values are the service's call to reject
	req, err := parseFeedRequest(feedContext(t, "limit=500&price_min=-1"))
	require.NoError(t, err)
	require.NotNil(t, req.Limit)
	assert.Equal(t, 500, *req.Limit)
	require.NotNil(t, req.PriceMin)
	assert.Equal(t, int64(-1), *req.PriceMin)
}

func TestCorsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(corsMiddleware())
	router.GET("/feed", func(c *gin.Context) { c.Status(200) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/feed", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/feed", nil))
	assert.Equal(t, 204, rec.Code)
}
