package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dailymillions/internal/cache"
	"dailymillions/internal/clock"
	"dailymillions/internal/models"
	"dailymillions/internal/repository"
	"dailymillions/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
)

// RawResults is the cached record source behind /api/results.
type RawResults interface {
	AllResults(ctx context.Context) []models.DrawRecord
	ResultsByDate(ctx context.Context, date string) []models.DrawRecord
}

// CacheAdmin is the administrative view of the results cache.
type CacheAdmin interface {
	Stats() cache.Stats
	Keys() []string
	Delete(key string) int
	Clear()
}

// HTTPHandler holds the dependencies for the HTTP handlers.
type HTTPHandler struct {
	service *services.ResultsService
	results RawResults
	cache   CacheAdmin
	apiKey  string
}

// NewHTTPHandler creates a new HTTPHandler. An empty apiKey locks the
// admin routes for everyone.
func NewHTTPHandler(service *services.ResultsService, results RawResults, c CacheAdmin, apiKey string) *HTTPHandler {
	return &HTTPHandler{
		service: service,
		results: results,
		cache:   c,
		apiKey:  apiKey,
	}
}

// RegisterPublicRoutes registers the read-only results API.
func (h *HTTPHandler) RegisterPublicRoutes(router gin.IRouter) {
	router.GET("/api/health", h.Health)
	router.GET("/api/results", h.GetResults)
	router.GET("/api/results/slot/:slot", h.GetSlot)
	router.GET("/api/latest", h.GetLatest)
	router.GET("/api/history", h.GetHistory)
	router.GET("/api/slots", h.GetSlots)
}

// RegisterAdminRoutes registers the cache administration routes. The group
// is expected to carry AdminMiddleware.
func (h *HTTPHandler) RegisterAdminRoutes(router gin.IRouter) {
	router.GET("/api/cache", h.CacheStats)
	router.DELETE("/api/cache", h.DeleteCache)
	router.GET("/api/cache/remove", h.RemoveCache)
	router.GET("/api/clear-cache", h.ClearCache)
}

// AdminMiddleware rejects requests without the configured bearer key.
func (h *HTTPHandler) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		provided, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || h.apiKey == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(h.apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// Health reports liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

// GetResults returns raw records, for one date when ?date= is given.
func (h *HTTPHandler) GetResults(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusOK, h.results.AllResults(c.Request.Context()))
		return
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	c.JSON(http.StatusOK, h.results.ResultsByDate(c.Request.Context(), date))
}

// GetSlot returns the draw page model for a slot identifier such as 2025-04-11-9pm.
func (h *HTTPHandler) GetSlot(c *gin.Context) {
	page, err := h.service.SlotPage(c.Request.Context(), c.Param("slot"))
	if err != nil {
		if errors.Is(err, clock.ErrMalformedSlot) || errors.Is(err, services.ErrNoRecordsForDate) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		logger.Errorf("Error resolving slot %s: %v", c.Param("slot"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve draw"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetLatest returns the home page model.
func (h *HTTPHandler) GetLatest(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.LatestDay(c.Request.Context()))
}

// GetHistory returns one page of the archive; ?page= defaults to 1.
func (h *HTTPHandler) GetHistory(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	c.JSON(http.StatusOK, h.service.History(c.Request.Context(), page))
}

// GetSlots lists every known slot identifier.
func (h *HTTPHandler) GetSlots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"slots": h.service.SlotIndex(c.Request.Context())})
}

// CacheStats reports hit, miss and key counts.
func (h *HTTPHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": h.cache.Stats(), "keys": h.cache.Keys()})
}

// DeleteCache deletes ?key= when given, otherwise clears the whole cache.
func (h *HTTPHandler) DeleteCache(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		h.ClearCache(c)
		return
	}

	if date, ok := strings.CutPrefix(key, repository.DateKeyPrefix); ok {
		key = repository.ResultsByDateKey(strings.TrimSpace(date))
	}
	deleted := h.cache.Delete(key) > 0
	logger.Infof("Cache key deleted: %s (existed=%v)", key, deleted)
	c.JSON(http.StatusOK, gin.H{"message": "Cache key deleted: " + key, "deleted": deleted})
}

// RemoveCache deletes a named cache (?specific=latest|all_results), or
// everything when none is named.
func (h *HTTPHandler) RemoveCache(c *gin.Context) {
	switch c.Query("specific") {
	case "latest":
		h.cache.Delete(repository.KeyLatest)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Latest results cache cleared"})
	case "all_results":
		h.cache.Delete(repository.KeyAll)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "All results cache cleared"})
	default:
		h.ClearCache(c)
	}
}

// ClearCache removes every cache entry.
func (h *HTTPHandler) ClearCache(c *gin.Context) {
	h.cache.Clear()
	logger.Infof("All cache cleared")
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "All cache cleared successfully",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
