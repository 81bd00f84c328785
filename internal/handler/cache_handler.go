package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyabroad-search-api/internal/dto"
	appErrors "github.com/noah-isme/studyabroad-search-api/pkg/errors"
	"github.com/noah-isme/studyabroad-search-api/pkg/response"
)

type cacheInvalidator interface {
	Invalidate(ctx context.Context, prefix string) (int, error)
	InvalidateKey(ctx context.Context, key string) (int, error)
}

type cacheWarmer interface {
	Schedule(prefix string) int
}

type purgeCacheQuery struct {
	Prefix string `form:"prefix" binding:"required_without=Key"`
	Key    string `form:"key" binding:"required_without=Prefix"`
	Warm   bool   `form:"warm"`
}

// CacheHandler exposes administrative cache invalidation.
type CacheHandler struct {
	cache  cacheInvalidator
	warmer cacheWarmer
}

// NewCacheHandler constructs the handler. warmer may be nil.
func NewCacheHandler(cache cacheInvalidator, warmer cacheWarmer) *CacheHandler {
	return &CacheHandler{cache: cache, warmer: warmer}
}

// Purge godoc
// @Summary Invalidate cached search results
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param prefix query string false "Key prefix, e.g. search or universities-by-country"
// @Param key query string false "Exact cache key"
// @Param warm query bool false "Re-prime the unfiltered first pages after purging"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/cache [delete]
func (h *CacheHandler) Purge(c *gin.Context) {
	if h.cache == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query purgeCacheQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "prefix or key is required"))
		return
	}

	result := dto.CachePurgeResult{}
	if key := strings.TrimSpace(query.Key); key != "" {
		removed, err := h.cache.InvalidateKey(c.Request.Context(), key)
		if err != nil {
			response.Error(c, err)
			return
		}
		result.Key = key
		result.Removed = removed
	} else {
		removed, err := h.cache.Invalidate(c.Request.Context(), strings.TrimSpace(query.Prefix))
		if err != nil {
			response.Error(c, err)
			return
		}
		result.Prefix = query.Prefix
		result.Removed = removed
	}
	if query.Warm && h.warmer != nil {
		target := result.Prefix
		if result.Key != "" {
			target = result.Key
		}
		result.Warming = h.warmer.Schedule(target)
	}
	response.JSON(c, http.StatusOK, result, nil)
}
