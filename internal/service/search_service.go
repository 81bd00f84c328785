package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/studyabroad-search-api/internal/dto"
	"github.com/noah-isme/studyabroad-search-api/internal/models"
	appErrors "github.com/noah-isme/studyabroad-search-api/pkg/errors"
)

// Pagination entity labels.
const (
	entityCountries    = "Countries"
	entityUniversities = "Universities"
	entityMajors       = "Majors"
	entityBlogs        = "Blogs"
)

// SearchRequest is a normalized search query.
type SearchRequest struct {
	Filter         models.FilterSpec
	Page           models.PageRequest
	UniversityPage models.PageRequest
	MajorPage      models.PageRequest
	BlogPage       models.PageRequest
	CountryIDs     []string
	UniversityIDs  []string
}

// SearchServiceConfig tunes caching and paging.
type SearchServiceConfig struct {
	LookupTTL    time.Duration
	FacetTTL     time.Duration
	DefaultLimit int
	ChildLimit   int
}

// SearchService answers faceted directory queries behind the result cache.
type SearchService struct {
	stores  Stores
	builder *PredicateBuilder
	keys    *KeyDeriver
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     SearchServiceConfig
}

// SearchServiceParams groups constructor dependencies.
type SearchServiceParams struct {
	Stores     Stores
	Normalizer *FilterNormalizer
	Cache      *CacheService
	Metrics    *MetricsService
	Logger     *zap.Logger
	Config     SearchServiceConfig
}

// NewSearchService constructs a SearchService with sane defaults.
func NewSearchService(params SearchServiceParams) *SearchService {
	cfg := params.Config
	if cfg.LookupTTL <= 0 {
		cfg.LookupTTL = 10 * time.Minute
	}
	if cfg.FacetTTL <= 0 {
		cfg.FacetTTL = 5 * time.Minute
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = models.DefaultLimit
	}
	if cfg.ChildLimit <= 0 {
		cfg.ChildLimit = models.DefaultLimit
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	normalizer := params.Normalizer
	if normalizer == nil {
		normalizer = NewFilterNormalizer(logger)
	}
	return &SearchService{
		stores:  params.Stores,
		builder: NewPredicateBuilder(),
		keys:    NewKeyDeriver(normalizer),
		cache:   params.Cache,
		metrics: params.Metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Countries lists countries matching the destination facet.
func (s *SearchService) Countries(ctx context.Context, req SearchRequest) (dto.ListResult[models.Country], bool, error) {
	req = s.withDefaults(req)
	params := map[string]interface{}{
		FilterParam: req.Filter,
		"page":      req.Page,
	}
	return withCache(ctx, s, OpCountries, params, s.cfg.LookupTTL, func(ctx context.Context) (dto.ListResult[models.Country], error) {
		page, err := FetchPage(ctx, s.metrics, collectionCountries, s.stores.Countries, s.builder.Country(req.Filter), req.Page, nil)
		if err != nil {
			return dto.ListResult[models.Country]{}, appErrors.Storage(err, collectionCountries)
		}
		return dto.ListResult[models.Country]{Data: page.Items, Pagination: page.Pagination(entityCountries)}, nil
	})
}

// UniversitiesByCountry lists universities of the given countries. Major-level
// facets keep only universities offering at least one matching major.
func (s *SearchService) UniversitiesByCountry(ctx context.Context, req SearchRequest) (dto.ListResult[models.University], bool, error) {
	if len(req.CountryIDs) == 0 {
		return dto.ListResult[models.University]{}, false, appErrors.Clone(appErrors.ErrValidation, "countryIds is required")
	}
	req = s.withDefaults(req)
	params := map[string]interface{}{
		FilterParam:  req.Filter,
		"page":       req.Page,
		"countryIds": req.CountryIDs,
	}
	return withCache(ctx, s, OpUniversitiesByCountry, params, s.cfg.FacetTTL, func(ctx context.Context) (dto.ListResult[models.University], error) {
		owners, err := s.majorOwners(ctx, req.Filter)
		if err != nil {
			return dto.ListResult[models.University]{}, err
		}
		p := s.builder.University(req.Filter, req.CountryIDs, owners)
		page, err := FetchPage(ctx, s.metrics, collectionUniversities, s.stores.Universities, p, req.Page, nil)
		if err != nil {
			return dto.ListResult[models.University]{}, appErrors.Storage(err, collectionUniversities)
		}
		return dto.ListResult[models.University]{Data: page.Items, Pagination: page.Pagination(entityUniversities)}, nil
	})
}

// MajorsByUniversity lists majors of the given universities.
func (s *SearchService) MajorsByUniversity(ctx context.Context, req SearchRequest) (dto.ListResult[models.Major], bool, error) {
	if len(req.UniversityIDs) == 0 {
		return dto.ListResult[models.Major]{}, false, appErrors.Clone(appErrors.ErrValidation, "universityIds is required")
	}
	req = s.withDefaults(req)
	params := map[string]interface{}{
		FilterParam:     req.Filter,
		"page":          req.Page,
		"universityIds": req.UniversityIDs,
	}
	return withCache(ctx, s, OpMajorsByUniversity, params, s.cfg.FacetTTL, func(ctx context.Context) (dto.ListResult[models.Major], error) {
		p := s.builder.Major(req.Filter, req.UniversityIDs)
		page, err := FetchPage(ctx, s.metrics, collectionMajors, s.stores.Majors, p, req.Page, nil)
		if err != nil {
			return dto.ListResult[models.Major]{}, appErrors.Storage(err, collectionMajors)
		}
		return dto.ListResult[models.Major]{Data: page.Items, Pagination: page.Pagination(entityMajors)}, nil
	})
}

// BlogsByCountry lists blogs about the given countries.
func (s *SearchService) BlogsByCountry(ctx context.Context, req SearchRequest) (dto.ListResult[models.Blog], bool, error) {
	if len(req.CountryIDs) == 0 {
		return dto.ListResult[models.Blog]{}, false, appErrors.Clone(appErrors.ErrValidation, "countryIds is required")
	}
	req = s.withDefaults(req)
	params := map[string]interface{}{
		FilterParam:  req.Filter,
		"page":       req.Page,
		"countryIds": req.CountryIDs,
	}
	return withCache(ctx, s, OpBlogsByCountry, params, s.cfg.FacetTTL, func(ctx context.Context) (dto.ListResult[models.Blog], error) {
		p := s.builder.Blog(req.Filter, req.CountryIDs)
		page, err := FetchPage(ctx, s.metrics, collectionBlogs, s.stores.Blogs, p, req.Page, nil)
		if err != nil {
			return dto.ListResult[models.Blog]{}, appErrors.Storage(err, collectionBlogs)
		}
		return dto.ListResult[models.Blog]{Data: page.Items, Pagination: page.Pagination(entityBlogs)}, nil
	})
}

// Overview returns a page of countries, each with its universities and blogs.
func (s *SearchService) Overview(ctx context.Context, req SearchRequest) (dto.TreeResult[dto.CountryOverview], bool, error) {
	req = s.withDefaults(req)
	return withCache(ctx, s, OpCountriesOverview, treeParams(req, false), s.cfg.LookupTTL, func(ctx context.Context) (dto.TreeResult[dto.CountryOverview], error) {
		stages, err := s.loadCountryStages(ctx, req)
		if err != nil {
			return dto.TreeResult[dto.CountryOverview]{}, err
		}
		return dto.TreeResult[dto.CountryOverview]{
			Data:       StitchOverview(stages.countries.Items, stages.universities.Items, stages.blogs.Items),
			Pagination: stages.countries.Pagination(entityCountries),
			Children: dto.ChildPagination{
				Universities: stages.universities.Pagination(entityUniversities),
				Blogs:        stages.blogs.Pagination(entityBlogs),
			},
		}, nil
	})
}

// Search returns the full country → university → major tree with blogs.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (dto.TreeResult[dto.CountryTree], bool, error) {
	req = s.withDefaults(req)
	return withCache(ctx, s, OpSearch, treeParams(req, true), s.cfg.LookupTTL, func(ctx context.Context) (dto.TreeResult[dto.CountryTree], error) {
		stages, err := s.loadCountryStages(ctx, req)
		if err != nil {
			return dto.TreeResult[dto.CountryTree]{}, err
		}

		majors := models.EmptyPage[models.Major](req.MajorPage)
		if ids := universityIDs(stages.universities.Items); len(ids) > 0 {
			majors, err = FetchPage(ctx, s.metrics, collectionMajors, s.stores.Majors, s.builder.Major(req.Filter, ids), req.MajorPage, nil)
			if err != nil {
				return dto.TreeResult[dto.CountryTree]{}, appErrors.Storage(err, collectionMajors)
			}
		}

		return dto.TreeResult[dto.CountryTree]{
			Data:       StitchTree(stages.countries.Items, stages.universities.Items, majors.Items, stages.blogs.Items),
			Pagination: stages.countries.Pagination(entityCountries),
			Children: dto.ChildPagination{
				Universities: stages.universities.Pagination(entityUniversities),
				Majors:       majors.Pagination(entityMajors),
				Blogs:        stages.blogs.Pagination(entityBlogs),
			},
		}, nil
	})
}

// Invalidate purges cached results whose key starts with prefix.
func (s *SearchService) Invalidate(ctx context.Context, prefix string) (int, error) {
	return s.cache.DeleteByPrefix(ctx, prefix)
}

// InvalidateKey purges a single cached result.
func (s *SearchService) InvalidateKey(ctx context.Context, key string) (int, error) {
	return s.cache.Delete(ctx, key)
}

type countryStages struct {
	countries    models.PageResult[models.Country]
	universities models.PageResult[models.University]
	blogs        models.PageResult[models.Blog]
}

// loadCountryStages resolves the parent page and the major-owner id set
// concurrently, then loads universities and blogs for that page concurrently.
func (s *SearchService) loadCountryStages(ctx context.Context, req SearchRequest) (countryStages, error) {
	stages := countryStages{
		universities: models.EmptyPage[models.University](req.UniversityPage),
		blogs:        models.EmptyPage[models.Blog](req.BlogPage),
	}

	var owners []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := FetchPage(gctx, s.metrics, collectionCountries, s.stores.Countries, s.builder.Country(req.Filter), req.Page, nil)
		if err != nil {
			return appErrors.Storage(err, collectionCountries)
		}
		stages.countries = page
		return nil
	})
	g.Go(func() error {
		ids, err := s.majorOwners(gctx, req.Filter)
		if err != nil {
			return err
		}
		owners = ids
		return nil
	})
	if err := g.Wait(); err != nil {
		return countryStages{}, err
	}

	parents := countryIDs(stages.countries.Items)
	if len(parents) == 0 {
		return stages, nil
	}

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		p := s.builder.University(req.Filter, parents, owners)
		page, err := FetchPage(gctx, s.metrics, collectionUniversities, s.stores.Universities, p, req.UniversityPage, nil)
		if err != nil {
			return appErrors.Storage(err, collectionUniversities)
		}
		stages.universities = page
		return nil
	})
	g.Go(func() error {
		page, err := FetchPage(gctx, s.metrics, collectionBlogs, s.stores.Blogs, s.builder.Blog(req.Filter, parents), req.BlogPage, nil)
		if err != nil {
			return appErrors.Storage(err, collectionBlogs)
		}
		stages.blogs = page
		return nil
	})
	if err := g.Wait(); err != nil {
		return countryStages{}, err
	}
	return stages, nil
}

// majorOwners returns the ids of universities offering a major that satisfies
// the major-level facets, or nil when there are none.
func (s *SearchService) majorOwners(ctx context.Context, spec models.FilterSpec) ([]string, error) {
	p := s.builder.MajorOwnerConstraint(spec)
	if p == nil {
		return nil, nil
	}
	ids, err := distinctValues(ctx, s.metrics, collectionMajors, s.stores.Majors, models.FieldUniversityID, p)
	if err != nil {
		return nil, appErrors.Storage(err, collectionMajors)
	}
	return ids, nil
}

func (s *SearchService) withDefaults(req SearchRequest) SearchRequest {
	req.Page = pageOrDefault(req.Page, s.cfg.DefaultLimit)
	req.UniversityPage = pageOrDefault(req.UniversityPage, s.cfg.ChildLimit)
	req.MajorPage = pageOrDefault(req.MajorPage, s.cfg.ChildLimit)
	req.BlogPage = pageOrDefault(req.BlogPage, s.cfg.ChildLimit)
	return req
}

func pageOrDefault(page models.PageRequest, limit int) models.PageRequest {
	if page.Page < 1 {
		page.Page = models.DefaultPage
	}
	if page.Limit < 1 {
		page.Limit = limit
	}
	return page
}

func treeParams(req SearchRequest, withMajors bool) map[string]interface{} {
	params := map[string]interface{}{
		FilterParam:      req.Filter,
		"page":           req.Page,
		"universityPage": req.UniversityPage,
		"blogPage":       req.BlogPage,
	}
	if withMajors {
		params["majorPage"] = req.MajorPage
	}
	return params
}

// withCache serves op from the result cache, computing and storing it on a
// miss. Results of cancelled requests are never stored.
func withCache[T any](ctx context.Context, s *SearchService, op string, params map[string]interface{}, ttl time.Duration, compute func(context.Context) (T, error)) (T, bool, error) {
	key := s.keys.Derive(op, params)
	var cached T
	hit, err := s.cache.Get(ctx, key, &cached)
	if err == nil && hit {
		return cached, true, nil
	}

	result, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}
	if ctx.Err() != nil {
		return result, false, nil
	}
	if err := s.cache.Set(ctx, key, result, ttl); err != nil {
		s.logger.Debug("search result not cached", zap.String("op", op), zap.Error(err))
	}
	return result, false, nil
}
