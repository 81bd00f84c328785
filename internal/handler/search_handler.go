package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyabroad-search-api/internal/dto"
	"github.com/noah-isme/studyabroad-search-api/internal/middleware"
	"github.com/noah-isme/studyabroad-search-api/internal/models"
	"github.com/noah-isme/studyabroad-search-api/internal/service"
	appErrors "github.com/noah-isme/studyabroad-search-api/pkg/errors"
	"github.com/noah-isme/studyabroad-search-api/pkg/response"
)

type searchService interface {
	Countries(ctx context.Context, req service.SearchRequest) (dto.ListResult[models.Country], bool, error)
	UniversitiesByCountry(ctx context.Context, req service.SearchRequest) (dto.ListResult[models.University], bool, error)
	MajorsByUniversity(ctx context.Context, req service.SearchRequest) (dto.ListResult[models.Major], bool, error)
	BlogsByCountry(ctx context.Context, req service.SearchRequest) (dto.ListResult[models.Blog], bool, error)
	Overview(ctx context.Context, req service.SearchRequest) (dto.TreeResult[dto.CountryOverview], bool, error)
	Search(ctx context.Context, req service.SearchRequest) (dto.TreeResult[dto.CountryTree], bool, error)
}

// SearchHandler exposes the faceted search endpoints.
type SearchHandler struct {
	service searchService
	parser  queryParser
}

// NewSearchHandler constructs the handler.
func NewSearchHandler(svc searchService, normalizer *service.FilterNormalizer, paging PagingConfig) *SearchHandler {
	if normalizer == nil {
		normalizer = service.NewFilterNormalizer(nil)
	}
	return &SearchHandler{service: svc, parser: queryParser{normalizer: normalizer, paging: paging}}
}

// Countries godoc
// @Summary List countries
// @Tags Search
// @Produce json
// @Param filterProp query string false "FilterSpec as JSON (optionally URL-encoded) or bracketed keys"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /countries [get]
func (h *SearchHandler) Countries(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	result, hit, err := h.service.Countries(c.Request.Context(), h.parser.parse(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, result.Data, result.Pagination, middleware.ResponseMeta(c))
}

// UniversitiesByCountry godoc
// @Summary List universities of countries
// @Tags Search
// @Produce json
// @Param countryIds query string true "Comma-separated country ids"
// @Param filterProp query string false "FilterSpec"
// @Param UniType query string false "Institution type"
// @Param EntranceExam query string false "Entrance exam required (yes/no)"
// @Param minBudget query number false "Minimum budget"
// @Param maxBudget query number false "Maximum budget"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /universities/by-country [get]
func (h *SearchHandler) UniversitiesByCountry(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	result, hit, err := h.service.UniversitiesByCountry(c.Request.Context(), h.parser.parse(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, result.Data, result.Pagination, middleware.ResponseMeta(c))
}

// MajorsByUniversity godoc
// @Summary List majors of universities
// @Tags Search
// @Produce json
// @Param universityIds query string true "Comma-separated university ids"
// @Param filterProp query string false "FilterSpec"
// @Param StudyLevel query string false "Study level"
// @Param MajorDuration query string false "Duration range in months, e.g. 24-36 or 36+"
// @Param ModeOfStudy query string false "Mode of study"
// @Param searchQuery query string false "Free text matched against tags"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /majors/by-university [get]
func (h *SearchHandler) MajorsByUniversity(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	result, hit, err := h.service.MajorsByUniversity(c.Request.Context(), h.parser.parse(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, result.Data, result.Pagination, middleware.ResponseMeta(c))
}

// BlogsByCountry godoc
// @Summary List blogs of countries
// @Tags Search
// @Produce json
// @Param countryIds query string true "Comma-separated country ids"
// @Param searchQuery query string false "Free text matched against tags"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /blogs/by-country [get]
func (h *SearchHandler) BlogsByCountry(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	result, hit, err := h.service.BlogsByCountry(c.Request.Context(), h.parser.parse(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, result.Data, result.Pagination, middleware.ResponseMeta(c))
}

// Overview godoc
// @Summary Countries with universities and blogs
// @Tags Search
// @Produce json
// @Param filterProp query string false "FilterSpec"
// @Param page query int false "Country page"
// @Param limit query int false "Country page size"
// @Param universityPage query int false "University page"
// @Param universityLimit query int false "University page size"
// @Param blogPage query int false "Blog page"
// @Param blogLimit query int false "Blog page size"
// @Success 200 {object} response.Envelope
// @Router /countries/overview [get]
func (h *SearchHandler) Overview(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	result, hit, err := h.service.Overview(c.Request.Context(), h.parser.parse(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.Tree(c, http.StatusOK, result.Data, result.Pagination, result.Children, middleware.ResponseMeta(c))
}

// Search godoc
// @Summary Full-depth directory search
// @Description Countries with universities, their majors, and blogs. The body is brotli or gzip encoded when the client accepts it.
// @Tags Search
// @Produce json
// @Param filterProp query string false "FilterSpec"
// @Param page query int false "Country page"
// @Param limit query int false "Country page size"
// @Param universityPage query int false "University page"
// @Param universityLimit query int false "University page size"
// @Param majorPage query int false "Major page"
// @Param majorLimit query int false "Major page size"
// @Param blogPage query int false "Blog page"
// @Param blogLimit query int false "Blog page size"
// @Success 200 {object} response.Envelope
// @Router /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	result, hit, err := h.service.Search(c.Request.Context(), h.parser.parse(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.Compressed(c, http.StatusOK, result.Data, result.Pagination, result.Children, middleware.ResponseMeta(c))
}
