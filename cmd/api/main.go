package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-participation/internal/api"
	"github.com/sanosuguru/go-event-participation/internal/api/handler"
	"github.com/sanosuguru/go-event-participation/internal/api/middleware"
	"github.com/sanosuguru/go-event-participation/internal/application"
	"github.com/sanosuguru/go-event-participation/internal/config"
	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
	"github.com/sanosuguru/go-event-participation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-event-participation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-participation/internal/infrastructure/stats"
	"github.com/sanosuguru/go-event-participation/internal/pkg/logger"
	"github.com/sanosuguru/go-event-participation/internal/pkg/metrics"
	"github.com/sanosuguru/go-event-participation/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("設定の読み込みに失敗しました", zap.Error(err))
	}
	logger.Init(cfg.Env)
	defer logger.Sync()
	m := metrics.Init()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("DB接続エラー", zap.Error(err))
	}
	defer db.Close()
	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("マイグレーションに失敗しました", zap.Error(err))
	}

	// Redis は任意。接続できない場合はDBの行ロックのみで動作する
	var (
		locker      transaction.Locker
		viewCache   application.ViewCountCache
		redisClient *goredis.Client
	)
	redisClient, err = redisinfra.NewClient(&redisinfra.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Warn("Redisに接続できません。分散ロックと閲覧数キャッシュを無効にします", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		locker = redisinfra.NewEventLocker(redisinfra.NewLockManager(redisClient, m), redisinfra.EventLockOptions{
			TTL:        cfg.Admission.LockTTL,
			Retries:    cfg.Admission.LockRetries,
			RetryDelay: cfg.Admission.LockRetryDelay,
		})
		viewCache = redisinfra.NewViewCache(redisClient, cfg.Stats.CacheTTL)
	}

	statsClient := stats.NewClient(cfg.Stats.URL, &http.Client{Timeout: cfg.Stats.Timeout})
	views := application.NewViewCounter(statsClient, viewCache)

	txManager := postgres.NewTxManager(db)
	eventRepo := postgres.NewEventRepository(db)
	requestRepo := postgres.NewParticipationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)

	eventService := application.NewEventService(txManager, eventRepo, requestRepo, userRepo, categoryRepo, views, m, cfg.Admission.MaxTxAttempts)
	participationService := application.NewParticipationService(txManager, requestRepo, eventRepo, userRepo, locker, m, cfg.Admission.MaxTxAttempts)
	directoryService := application.NewDirectoryService(userRepo, categoryRepo)

	checks := map[string]handler.CheckFunc{
		"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisinfra.Ping(ctx, redisClient) }
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	middleware.SetupMiddleware(e)
	e.Use(middleware.PrometheusMiddleware(m))

	adminCreds := middleware.Credentials{User: cfg.Auth.AdminUser, Password: cfg.Auth.AdminPassword}
	if !adminCreds.IsEnabled() {
		logger.Warn("ADMIN_USER / ADMIN_PASSWORD が未設定のため管理者APIは認証なしで公開されます")
	}
	handler.RegisterRoutes(e, handler.Handlers{
		Event:         handler.NewEventHandler(eventService),
		Participation: handler.NewParticipationHandler(participationService),
		Admin:         handler.NewAdminHandler(directoryService),
		Health:        handler.NewHealthHandler(checks),
	}, middleware.BasicAuth(adminCreds))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.BasicAuth(middleware.Credentials{
		User:     cfg.Auth.MetricsUser,
		Password: cfg.Auth.MetricsPassword,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refresher := worker.NewRequestStatsRefresher(requestRepo, m, cfg.Worker.StatsRefreshInterval)
	go refresher.Start(ctx)

	go func() {
		logger.Info("サーバーを起動します", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("サーバー起動エラー", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("サーバーをシャットダウンしています...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
	}
	refresher.Stop()

	logger.Info("サーバーが正常にシャットダウンしました")
}
