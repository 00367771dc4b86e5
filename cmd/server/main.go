// Command server runs the wardrobe stylist HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	api "github.com/aimd54/wardrobe-stylist/internal/api/wardrobe"
	"github.com/aimd54/wardrobe-stylist/internal/cache"
	"github.com/aimd54/wardrobe-stylist/internal/config"
	"github.com/aimd54/wardrobe-stylist/internal/imaging"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
	"github.com/aimd54/wardrobe-stylist/internal/service/leaderboard"
	"github.com/aimd54/wardrobe-stylist/internal/service/ledger"
	"github.com/aimd54/wardrobe-stylist/internal/service/outfits"
	"github.com/aimd54/wardrobe-stylist/internal/service/scheduler"
	"github.com/aimd54/wardrobe-stylist/internal/service/social"
	"github.com/aimd54/wardrobe-stylist/internal/service/stylist"
	"github.com/aimd54/wardrobe-stylist/internal/service/wardrobe"
	"github.com/aimd54/wardrobe-stylist/internal/service/wear"
	"github.com/aimd54/wardrobe-stylist/internal/storage"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.Get()

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx := context.Background()

	db, err := repository.NewDB(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	locker, redisClient, err := newLocker(ctx, &cfg.Database.Redis, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	store, err := storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		return err
	}

	loc, err := cfg.Quota.GetLocation()
	if err != nil {
		return fmt.Errorf("invalid quota timezone: %w", err)
	}

	remover := imaging.NewRemoverClient(&cfg.Imaging, log)
	if !remover.Enabled() {
		log.Warn().Msg("Background removal is not configured, photos are stored as taken")
	}
	pipeline := imaging.NewPipeline(remover, &cfg.Imaging, log)

	// Services
	ledgerService := ledger.NewService(db, loc, log)
	wardrobeService := wardrobe.NewService(db, ledgerService, pipeline, store, locker, cfg.Quota, log)
	stylistService := stylist.NewService(
		repository.NewClothingRepository(db),
		ledgerService,
		newSuggester(&cfg.Suggester, log),
		cfg.Quota.FreeAIDailyLimit,
		log,
	)
	wearService := wear.NewService(db, ledgerService, log)
	outfitService := outfits.NewService(db, ledgerService, log)
	socialService := social.NewService(db, ledgerService, log)
	leaderboardService := leaderboard.NewService(
		repository.NewUserRepository(db),
		repository.NewLedgerRepository(db),
		repository.NewFeedRepository(db),
		loc,
		log,
	)

	schedulerService := scheduler.NewService(&cfg.Scheduler, repository.NewLedgerRepository(db), log)
	if err := schedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer schedulerService.Stop()

	handler := api.NewHandler(api.Services{
		Items:       wardrobeService,
		Stylist:     stylistService,
		Wear:        wearService,
		Outfits:     outfitService,
		Social:      socialService,
		Accounts:    ledgerService,
		Leaderboard: leaderboardService,
	}, cfg.Server.MaxUploadMB, log)

	router := newRouter(cfg, db, handler, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Int("port", cfg.Server.Port).
			Str("environment", cfg.Server.Environment).
			Str("suggester", cfg.Suggester.Provider).
			Str("storage", cfg.Storage.Driver).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	}

	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

// newLocker returns a Redis locker when Redis is enabled and an in-process
// one otherwise.
func newLocker(ctx context.Context, cfg *config.RedisConfig, log *logger.Logger) (cache.Locker, *redis.Client, error) {
	if !cfg.Enabled {
		log.Info().Msg("Redis disabled, using in-process locks")
		return cache.NewLocalLocker(), nil, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("Connected to Redis")
	return cache.NewRedisLocker(client, time.Duration(cfg.LockTTL)*time.Second), client, nil
}

func newSuggester(cfg *config.SuggesterConfig, log *logger.Logger) stylist.Suggester {
	if cfg.Provider == "local" {
		return stylist.NewLocalSuggester()
	}
	return stylist.NewHTTPSuggester(cfg, log)
}

func newRouter(cfg *config.Config, db *repository.DB, handler *api.Handler, log *logger.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	if cfg.Storage.Driver == "local" && strings.HasPrefix(cfg.Storage.Local.BaseURL, "/") {
		router.Static(cfg.Storage.Local.BaseURL, cfg.Storage.Local.Dir)
	}

	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

// requestLogger logs each request through zerolog.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Str("user", c.GetHeader(api.UserHeader)).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
