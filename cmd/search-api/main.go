package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/studyabroad-search-api/api/swagger"
	"github.com/noah-isme/studyabroad-search-api/internal/handler"
	"github.com/noah-isme/studyabroad-search-api/internal/middleware"
	"github.com/noah-isme/studyabroad-search-api/internal/models"
	"github.com/noah-isme/studyabroad-search-api/internal/repository"
	"github.com/noah-isme/studyabroad-search-api/internal/service"
	"github.com/noah-isme/studyabroad-search-api/pkg/cache"
	"github.com/noah-isme/studyabroad-search-api/pkg/config"
	"github.com/noah-isme/studyabroad-search-api/pkg/database"
	"github.com/noah-isme/studyabroad-search-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/studyabroad-search-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/studyabroad-search-api/pkg/middleware/requestid"
)

// @title Study Abroad Search API
// @version 1.0.0
// @description Faceted search over countries, universities, majors and blogs
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.ReadinessCheck{}

	stores, closeStores, err := openStores(ctx, cfg, logr, checks)
	if err != nil {
		logr.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeStores()

	metricsSvc := service.NewMetricsService()
	cacheRepo, closeCache, err := openCache(ctx, cfg, logr, checks)
	if err != nil {
		logr.Fatal("failed to open cache", zap.String("driver", cfg.Cache.Driver), zap.Error(err))
	}
	defer closeCache()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.DefaultTTL, logr, cfg.Cache.Enabled)

	normalizer := service.NewFilterNormalizer(logr)
	searchSvc := service.NewSearchService(service.SearchServiceParams{
		Stores:     stores,
		Normalizer: normalizer,
		Cache:      cacheSvc,
		Metrics:    metricsSvc,
		Logger:     logr,
		Config: service.SearchServiceConfig{
			LookupTTL:    cfg.Cache.LookupTTL,
			FacetTTL:     cfg.Cache.FacetTTL,
			DefaultLimit: cfg.Search.DefaultLimit,
			ChildLimit:   cfg.Search.ChildLimit,
		},
	})
	authSvc := service.NewAuthService(cfg.JWT.Secret)

	var warmupSvc *service.WarmupService
	if cacheSvc.Enabled() {
		warmupSvc = service.NewWarmupService(searchSvc, service.WarmupConfig{
			Workers:    cfg.Cache.WarmWorkers,
			MaxRetries: 2,
			RetryDelay: 5 * time.Second,
		}, logr)
		warmupSvc.Start(ctx)
		defer warmupSvc.Stop()
		if cfg.Cache.WarmOnStart {
			warmupSvc.Schedule("")
		}
	}

	searchHandler := handler.NewSearchHandler(searchSvc, normalizer, handler.PagingConfig{
		DefaultLimit: cfg.Search.DefaultLimit,
		MaxLimit:     cfg.Search.MaxLimit,
		ChildLimit:   cfg.Search.ChildLimit,
	})
	cacheHandler := handler.NewCacheHandler(searchSvc, warmupSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(corsmiddleware.Options{AllowedOrigins: cfg.CORS.AllowedOrigins, MaxAge: cfg.CORS.MaxAge}))
	r.Use(middleware.Metrics(metricsSvc, "/health", "/ready", "/metrics"))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.GET("/countries", searchHandler.Countries)
	api.GET("/countries/overview", searchHandler.Overview)
	api.GET("/universities/by-country", searchHandler.UniversitiesByCountry)
	api.GET("/majors/by-university", searchHandler.MajorsByUniversity)
	api.GET("/blogs/by-country", searchHandler.BlogsByCountry)
	api.GET("/search", searchHandler.Search)

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	admin.DELETE("/cache", cacheHandler.Purge)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver, "cache", cfg.Cache.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStores(ctx context.Context, cfg *config.Config, logr *zap.Logger, checks map[string]handler.ReadinessCheck) (service.Stores, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		seed, err := repository.LoadSeed(cfg.Storage.SeedFile, validator.New())
		if err != nil {
			return service.Stores{}, nil, err
		}
		mem := repository.NewMemoryStores(seed)
		logr.Info("memory storage seeded",
			zap.String("file", cfg.Storage.SeedFile),
			zap.Int("countries", len(seed.Countries)),
			zap.Int("universities", len(seed.Universities)),
			zap.Int("majors", len(seed.Majors)),
			zap.Int("blogs", len(seed.Blogs)),
		)
		return service.Stores{
			Countries:    mem.Countries,
			Universities: mem.Universities,
			Majors:       mem.Majors,
			Blogs:        mem.Blogs,
		}, func() {}, nil
	case config.StorageDriverPostgres, "":
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return service.Stores{}, nil, err
		}
		checks["postgres"] = func(ctx context.Context) error { return db.PingContext(ctx) }
		return postgresStores(db), func() { _ = db.Close() }, nil
	default:
		return service.Stores{}, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func postgresStores(db *sqlx.DB) service.Stores {
	return service.Stores{
		Countries:    repository.NewCountryStore(db),
		Universities: repository.NewUniversityStore(db),
		Majors:       repository.NewMajorStore(db),
		Blogs:        repository.NewBlogStore(db),
	}
}

func openCache(ctx context.Context, cfg *config.Config, logr *zap.Logger, checks map[string]handler.ReadinessCheck) (service.CacheRepository, func(), error) {
	if !cfg.Cache.Enabled {
		logr.Info("result cache disabled")
		return nil, func() {}, nil
	}
	switch cfg.Cache.Driver {
	case config.CacheDriverRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		checks["redis"] = func(ctx context.Context) error { return cache.Ping(ctx, client) }
		repo := repository.NewCacheRepository(client, cfg.Cache.KeyPrefix, logr)
		return repo, func() { _ = repo.Close() }, nil
	case config.CacheDriverMemory, "":
		repo := repository.NewMemoryCacheRepository(repository.WithCacheLogger(logr))
		repo.StartSweeper(ctx, cfg.Cache.SweepInterval)
		return repo, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}
