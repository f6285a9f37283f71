package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"local_portal/internal/cache"
	"local_portal/internal/config"
	"local_portal/internal/domain"
	"local_portal/internal/fallback"
	"local_portal/internal/frontpage"
	"local_portal/internal/httpapi"
	"local_portal/internal/metrics"
	"local_portal/internal/publisher"
	"local_portal/internal/scheduler"
	"local_portal/internal/service"
	"local_portal/internal/storage/memory"
	"local_portal/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	st, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.close()

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	var hot service.Cache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.URL, "portal:", logger)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		hot = redisCache
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	store := st.store
	articles := service.NewArticleService(store, pub, logger, cfg.Portal)
	classifieds := service.NewClassifiedService(store, pub, logger, cfg.Portal)
	ads := service.NewAdvertisementService(store, hot, cfg.Redis.TTL, pub, logger)
	categories := service.NewCategoryService(store, hot, cfg.Redis.TTL, logger)

	var analytics *service.AnalyticsService
	if cfg.Portal.AnalyticsEnabled {
		analytics = service.NewAnalyticsService(store, logger)
	}

	home := frontpage.NewService(articles, classifieds, ads, fallback.NewProvider(), frontpage.Config{
		Articles:    cfg.Portal.HomeArticles,
		Classifieds: cfg.Portal.HomeClassifieds,
	}, logger)

	limiter := httpapi.NewRateLimiter(cfg.HTTP.RateLimit, logger)
	defer limiter.Stop()

	router := httpapi.NewRouter(&httpapi.RouterDeps{
		Articles:       articles,
		Classifieds:    classifieds,
		Ads:            ads,
		Newsletter:     service.NewNewsletterService(store, logger),
		Search:         service.NewSearchService(store, analytics, logger, cfg.Portal),
		Categories:     categories,
		Realtime:       service.NewRealtimeService(store, logger, cfg.Portal),
		Home:           home,
		RateLimiter:    limiter,
		MaxPageSize:    cfg.Portal.MaxPageSize,
		Metrics:        collector,
		MetricsHandler: metrics.Handler(registry),
		Ready:          st.ready,
		Logger:         logger,
	})

	if cfg.Sweep.Enabled {
		sweeper := service.NewSweeper(store, st.tx, pub, logger, cfg.Sweep)
		sched := scheduler.NewScheduler(observedSweeper{sweeper, collector}, cfg.Sweep.Interval, logger)
		go func() {
			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("scheduler error", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("starting portal",
		"addr", cfg.HTTP.Addr,
		"store", cfg.Store.Driver,
		"rabbitmq", cfg.RabbitMQ.Enabled,
		"redis", cfg.Redis.Enabled,
		"sweep", cfg.Sweep.Enabled,
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server error", "error", err)
		os.Exit(1)
	}
	logger.Info("portal stopped")
}

// backend bundles the configured document store with its transaction
// manager and readiness probe.
type backend struct {
	store service.DocumentStore
	tx    service.TransactionManager
	ready func(ctx context.Context) error
	close func()
}

func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, data is lost on exit")
		store := memory.NewStore(service.Schema())
		return &backend{
			store: store,
			tx:    store,
			ready: func(context.Context) error { return nil },
			close: func() {},
		}, nil
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(cfg.Database.URL()); err != nil {
			return nil, err
		}
		logger.Info("database migrated")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database")

	feed := postgres.NewChangeFeed(cfg.Database.DSN(), logger)
	go func() {
		if err := feed.Run(ctx); err != nil {
			logger.Error("change feed stopped", "error", err)
		}
	}()

	return &backend{
		store: postgres.NewDocumentStore(db, service.Schema(), logger, postgres.WithChangeFeed(feed)),
		tx:    postgres.NewTransactionManager(db),
		ready: db.PingContext,
		close: func() { db.Close() },
	}, nil
}

type observedSweeper struct {
	*service.Sweeper
	metrics *metrics.Collector
}

func (s observedSweeper) Sweep(ctx context.Context) (*domain.SweepStats, error) {
	stats, err := s.Sweeper.Sweep(ctx)
	if err == nil {
		s.metrics.RecordSweep(stats)
	}
	return stats, err
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
