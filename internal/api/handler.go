package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/RooJenkins/UPLO5/internal/service"
	"github.com/RooJenkins/UPLO5/internal/store"
	"github.com/RooJenkins/UPLO5/internal/util"
)

// Handler contains HTTP handlers
type Handler struct {
	feedService *service.FeedService
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(feedService *service.FeedService) *Handler {
	return &Handler{
		feedService: feedService,
		logger:      util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(corsMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/feed", h.getFeed)
		v1.GET("/product/:id", h.getProduct)
		v1.GET("/stats", h.getStats)
	}

	// Bare aliases for the mobile client.
	router.GET("/feed", h.getFeed)
	router.GET("/product/:id", h.getProduct)
}

// healthCheck reports liveness plus the current catalog size
func (h *Handler) healthCheck(c *gin.Context) {
	size, err := h.feedService.CatalogSize(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"time":   time.Now().Unix(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"catalog_size": size,
		"time":         time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// getFeed handles the paginated product feed
func (h *Handler) getFeed(c *gin.Context) {
	req, err := parseFeedRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid feed parameters",
			"details": err.Error(),
		})
		return
	}

	page, err := h.feedService.GetFeed(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid feed parameters",
				"details": err.Error(),
			})
			return
		}
		h.logger.Error("Feed query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Feed query failed",
		})
		return
	}

	c.Header("X-Catalog-Version", page.CatalogVersion)
	c.JSON(http.StatusOK, page)
}

// getProduct handles single-product detail lookups
func (h *Handler) getProduct(c *gin.Context) {
	idStr := c.Param("id")
	productID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || productID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	detail, err := h.feedService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		h.logger.Error("Product query failed",
			zap.Int64("product_id", productID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Product query failed",
		})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// getStats reports catalog-wide counts
func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.feedService.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Stats query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Stats query failed",
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// parseFeedRequest reads feed query parameters. Range checks live in the
// service; this only rejects values that fail to parse at all.
func parseFeedRequest(c *gin.Context) (*service.FeedRequest, error) {
	req := &service.FeedRequest{
		Cursor:   c.Query("cursor"),
		Brand:    c.Query("brand"),
		Category: c.Query("category"),
		InStock:  true,
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("limit must be an integer")
		}
		req.Limit = &limit
	}

	if raw := c.Query("in_stock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("in_stock must be a boolean")
		}
		req.InStock = inStock
	}

	if raw := c.Query("price_min"); raw != "" {
		priceMin, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("price_min must be an integer")
		}
		req.PriceMin = &priceMin
	}

	if raw := c.Query("price_max"); raw != "" {
		priceMax, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("price_max must be an integer")
		}
		req.PriceMax = &priceMax
	}

	return req, nil
}

// corsMiddleware allows the mobile client to call from any origin
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
