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
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/osegonte/daad-study-search-sub000/api/swagger"
	"github.com/osegonte/daad-study-search-sub000/internal/handler"
	"github.com/osegonte/daad-study-search-sub000/internal/middleware"
	"github.com/osegonte/daad-study-search-sub000/internal/payments"
	"github.com/osegonte/daad-study-search-sub000/internal/repository"
	"github.com/osegonte/daad-study-search-sub000/internal/service"
	"github.com/osegonte/daad-study-search-sub000/pkg/cache"
	"github.com/osegonte/daad-study-search-sub000/pkg/config"
	"github.com/osegonte/daad-study-search-sub000/pkg/database"
	"github.com/osegonte/daad-study-search-sub000/pkg/logger"
	corsmiddleware "github.com/osegonte/daad-study-search-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/osegonte/daad-study-search-sub000/pkg/middleware/requestid"
	"github.com/osegonte/daad-study-search-sub000/pkg/storage"
)

// @title Study Programme Directory API
// @version 1.0.0
// @description Faceted search and application services for German study programmes
// @BasePath /api/v1
// @schemes http https

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Search degrades to uncached queries without Redis, so the
		// server still comes up.
		logr.Sugar().Warnw("redis unavailable, running without result cache", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	store, err := storage.NewLocalStorage(cfg.MatchReports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init document storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.MatchReports.SignedURLSecret, cfg.MatchReports.SignedURLTTL)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	programmeRepo := repository.NewProgrammeRepository(db)
	universityRepo := repository.NewUniversityRepository(db)
	subjectAreaRepo := repository.NewSubjectAreaRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	matchReportRepo := repository.NewMatchReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Search.CacheTTL, logr, cfg.Search.CacheEnabled && redisClient != nil)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
	})

	searchSvc := service.NewSearchService(programmeRepo, cacheSvc, metricsSvc, cfg, logr)
	programmeSvc := service.NewProgrammeService(programmeRepo, searchSvc, userRepo, validate, logr)
	universitySvc := service.NewUniversityService(universityRepo, searchSvc, validate, logr)
	subjectAreaSvc := service.NewSubjectAreaService(subjectAreaRepo, searchSvc, validate, logr)
	newsSvc := service.NewNewsService(newsRepo, validate, logr)
	watchlistSvc := service.NewWatchlistService(watchlistRepo, programmeRepo, logr)
	inquirySvc := service.NewInquiryService(inquiryRepo, validate, logr)

	checkout := payments.NewClient(cfg.Payments, logr)
	matchReportSvc := service.NewMatchReportService(matchReportRepo, checkout, store, signer, userRepo, validate, cfg.MatchReports, logr)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	matchReportSvc.StartWorkers(workerCtx)
	defer func() {
		stopWorkers()
		matchReportSvc.StopWorkers()
	}()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Programmes:   handler.NewProgrammeHandler(searchSvc, programmeSvc, cfg.Premium),
		Watchlist:    handler.NewWatchlistHandler(watchlistSvc),
		Universities: handler.NewUniversityHandler(universitySvc),
		SubjectAreas: handler.NewSubjectAreaHandler(subjectAreaSvc),
		News:         handler.NewNewsHandler(newsSvc),
		Inquiries:    handler.NewInquiryHandler(inquirySvc),
		MatchReports: handler.NewMatchReportHandler(matchReportSvc),
		Metrics:      handler.NewMetricsHandler(metricsSvc, readinessChecks(db, redisClient)),
	}
	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc, userRepo)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

func readinessChecks(db *sqlx.DB, redisClient *redis.Client) map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"postgres": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}
