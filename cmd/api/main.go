package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	_ "github.com/playshelf/playshelf-api/api/swagger"
	"github.com/playshelf/playshelf-api/internal/handler"
	"github.com/playshelf/playshelf-api/internal/repository"
	"github.com/playshelf/playshelf-api/internal/router"
	"github.com/playshelf/playshelf-api/internal/service"
	"github.com/playshelf/playshelf-api/pkg/cache"
	"github.com/playshelf/playshelf-api/pkg/config"
	"github.com/playshelf/playshelf-api/pkg/database"
	"github.com/playshelf/playshelf-api/pkg/jobs"
	"github.com/playshelf/playshelf-api/pkg/logger"
	"github.com/playshelf/playshelf-api/pkg/storage"
)

// @title PlayShelf API
// @version 1.0.0
// @description Catalog of browser-playable learning games with bulk archive imports
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	fileStore, err := storage.NewFileStore(cfg.Imports)
	if err != nil {
		logr.Sugar().Fatalw("failed to init file storage", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	gameRepo := repository.NewGameRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Games.CacheTTL, logr, cfg.Games.CacheEnabled)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "playshelf-api",
	})
	importSvc := service.NewImportService(gameRepo, fileStore, cacheSvc, userRepo, logr, cfg.Imports.PreviewSize)
	gameSvc := service.NewGameService(gameRepo, importSvc, fileStore, cacheSvc, userRepo, validate, logr, cfg.Games.CacheTTL)
	ratingSvc := service.NewRatingService(ratingRepo, gameRepo, validate, logr)
	commentSvc := service.NewCommentService(commentRepo, gameRepo, userRepo, validate, logr)
	scoreSvc := service.NewScoreService(scoreRepo, gameRepo, validate, logr, cfg.Games.LeaderboardCap)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, gameRepo, logr)
	dashboardSvc := service.NewDashboardService(gameRepo, userRepo, commentRepo, scoreRepo, cacheSvc, logr, time.Minute)
	exportSvc := service.NewExportService(gameRepo, logr)

	janitor := jobs.NewJanitor(fileStore, jobs.JanitorConfig{
		StagingTTL: cfg.Imports.StagingTTL,
		Period:     cfg.Imports.JanitorPeriod,
		Logger:     logr,
	})
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	janitor.Start(ctx)
	defer janitor.Stop()

	staticRoot := ""
	if local, ok := fileStore.(*storage.LocalStore); ok {
		staticRoot = local.Root()
	}

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Game:      handler.NewGameHandler(gameSvc, cfg.Imports.MaxUploadBytes),
		Import:    handler.NewImportHandler(importSvc, metricsSvc, cfg.Imports.MaxUploadBytes),
		Rating:    handler.NewRatingHandler(ratingSvc),
		Comment:   handler.NewCommentHandler(commentSvc),
		Score:     handler.NewScoreHandler(scoreSvc),
		Favorite:  handler.NewFavoriteHandler(favoriteSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		Export:    handler.NewExportHandler(exportSvc),
		Metrics:   handler.NewMetricsHandler(metricsSvc),
	}

	r := router.New(handlers, router.Deps{
		Config:      cfg,
		Logger:      logr,
		AuthService: authSvc,
		Metrics:     metricsSvc,
		StaticRoot:  staticRoot,
		ReadyCheck:  db.Ping,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "storage", cfg.Imports.StorageBackend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
