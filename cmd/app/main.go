// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poster-commerce/internal/config"
	"poster-commerce/internal/domain/ports/adapter"
	"poster-commerce/internal/infra/adapters/sms"
	"poster-commerce/internal/infra/api"
	pg "poster-commerce/internal/infra/db/postgres"
	"poster-commerce/internal/infra/i18n"
	"poster-commerce/internal/infra/logging"
	"poster-commerce/internal/infra/metrics"
	red "poster-commerce/internal/infra/redis"
	"poster-commerce/internal/infra/sched"
	"poster-commerce/internal/infra/storage"
	"poster-commerce/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, SMS dry run)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}
	if cfg.Metrics.Enabled {
		metrics.MustRegister()
		metrics.SetBuildInfo(version, commit)
	}
	loc, err := time.LoadLocation(cfg.Scheduler.TimeZone)
	if err != nil {
		logger.Fatal().Err(err).Msg("time zone")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	tm := pg.NewTxManager(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	userRepo := pg.NewPostgresUserRepo(pool)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPlanRepo(pool), redisClient, cfg.Redis.TTL, logger)
	posterRepo := pg.NewPosterRepo(pool)
	bposterRepo := pg.NewBusinessPosterRepo(pool)
	orderRepo := pg.NewOrderRepo(pool)
	storyRepo := pg.NewStoryRepo(pool)
	contentRepo := pg.NewContentRepo(pool)

	// ---- Adapters ----
	files, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("storage")
	}
	uploadsDir, _ := files.Root()

	var sender adapter.SMSSender
	if cfg.SMS.Enabled && !cfg.Runtime.Dev {
		sender, err = sms.NewTwilioSender(cfg.SMS)
		if err != nil {
			logger.Fatal().Err(err).Msg("sms gateway")
		}
	} else {
		logger.Info().Msg("sms disabled; messages are logged only")
		sender = sms.NewNoopSender(logger)
	}
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.SMS.Language)
	if err != nil {
		logger.Fatal().Err(err).Str("language", cfg.SMS.Language).Msg("sms templates")
	}
	for _, key := range []string{usecase.TemplateBirthday, usecase.TemplateAnniversary} {
		if !tr.Has(key) {
			logger.Fatal().Str("language", cfg.SMS.Language).Str("key", key).Msg("sms template missing")
		}
	}

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, files, tm, loc, logger)
	planUC := usecase.NewPlanUseCase(planRepo, userRepo, tm, logger)
	orderUC := usecase.NewOrderUseCase(userRepo, posterRepo, bposterRepo, orderRepo, tm,
		usecase.UPIPayee{ID: cfg.Payment.UPI.PayeeID, Name: cfg.Payment.UPI.PayeeName}, logger)
	catalogUC := usecase.NewCatalogUseCase(usecase.CatalogRepos{
		Posters:            posterRepo,
		BusinessPosters:    bposterRepo,
		Categories:         pg.NewCategoryRepo(pool),
		BusinessCategories: pg.NewBusinessCategoryRepo(pool),
		Logos:              pg.NewLogoRepo(pool),
		BusinessCards:      pg.NewBusinessCardRepo(pool),
	}, files, logger)
	storyUC := usecase.NewStoryUseCase(storyRepo, userRepo, files, logger)
	notifUC := usecase.NewNotificationUseCase(userRepo, sender, tr, loc, logger)
	contentUC := usecase.NewContentUseCase(contentRepo)
	statsUC := red.NewCachedStats(
		usecase.NewStatsUseCase(userRepo, orderRepo, posterRepo, bposterRepo, storyRepo, logger),
		redisClient, time.Minute, logger)

	// ---- Scheduled jobs ----
	sweeper := sched.NewStorySweeper(cfg.Scheduler.StorySweepInterval, cfg.Scheduler.LockTTL, storyUC, locker, logger)
	go func() { _ = sweeper.Run(ctx) }()
	occasions := sched.NewOccasionWorker(*cfg.Scheduler.OccasionHour, loc, cfg.Scheduler.LockTTL, notifUC, locker, logger)
	go func() { _ = occasions.Run(ctx) }()
	if cfg.Metrics.Enabled {
		go sched.ReportPoolStats(ctx, pool, 15*time.Second)
	}

	// ---- HTTP API ----
	srv := api.NewServer(api.Deps{
		Users:          userUC,
		Orders:         orderUC,
		Plans:          planUC,
		Catalog:        catalogUC,
		Stories:        storyUC,
		Content:        contentUC,
		Stats:          statsUC,
		Notify:         notifUC,
		Limiter:        rateLimiter,
		LoginLimit:     cfg.Auth.LoginLimit,
		LoginWindow:    cfg.Auth.LoginWindow,
		Auth:           api.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		AdminKey:       cfg.Auth.AdminAPIKey,
		RequestTimeout: cfg.Server.RequestTimeout,
		UploadsDir:     uploadsDir,
		ServeMetrics:   cfg.Metrics.Enabled,
		Checks: map[string]func(context.Context) error{
			"postgres": pool.Ping,
			"redis":    redisClient.Ping,
		},
		Logger: logger,
	})
	if cfg.Auth.JWTSecret == "" {
		logger.Warn().Msg("auth.jwt_secret not set; user routes accept any caller")
	}
	if cfg.Auth.AdminAPIKey == "" {
		logger.Warn().Msg("auth.admin_api_key not set; admin routes are open")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("version", version).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
