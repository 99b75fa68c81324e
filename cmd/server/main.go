package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	appexchange "github.com/erpsuite/finance/internal/application/exchange"
	appinvoicing "github.com/erpsuite/finance/internal/application/invoicing"
	appreport "github.com/erpsuite/finance/internal/application/report"
	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/erpsuite/finance/internal/infrastructure/auth"
	"github.com/erpsuite/finance/internal/infrastructure/cache"
	"github.com/erpsuite/finance/internal/infrastructure/config"
	"github.com/erpsuite/finance/internal/infrastructure/event"
	"github.com/erpsuite/finance/internal/infrastructure/gateway"
	"github.com/erpsuite/finance/internal/infrastructure/logger"
	"github.com/erpsuite/finance/internal/infrastructure/persistence"
	"github.com/erpsuite/finance/internal/infrastructure/ratefeed"
	"github.com/erpsuite/finance/internal/infrastructure/telemetry"
	"github.com/erpsuite/finance/internal/interfaces/http/handler"
	"github.com/erpsuite/finance/internal/interfaces/http/router"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const outboxGaugeInterval = 30 * time.Second

func main() {
	// A missing .env file is fine, environment variables win anyway
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting finance service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	rateRepo := persistence.NewGormRateRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	sequenceRepo := persistence.NewGormSequenceRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Domain events persist to the outbox in the same transaction as
	// the aggregate they belong to
	serializer := event.NewFinanceEventSerializer()
	outboxPublisher := event.NewOutboxPublisher(serializer)
	invoiceRepo.SetOutboxEventSaver(outboxPublisher)
	quoteRepo.SetOutboxEventSaver(outboxPublisher)

	metrics := telemetry.NewMetrics("finance")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Outbox processor drains pending entries to RabbitMQ
	var processor *event.OutboxProcessor
	if cfg.Event.ProcessorEnabled {
		publisher, err := event.NewRabbitMQPublisher(cfg.Broker.URL, cfg.Broker.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error("Error closing broker connection", zap.Error(err))
			}
		}()

		processorCfg := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			processorCfg.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			processorCfg.PollInterval = cfg.Event.PollInterval
		}
		processorCfg.CleanupEnabled = cfg.Event.CleanupEnabled
		if cfg.Event.CleanupRetention > 0 {
			processorCfg.CleanupRetention = cfg.Event.CleanupRetention
		}

		processor = event.NewOutboxProcessor(outboxRepo, publisher, processorCfg, log)
		if err := processor.Start(rootCtx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorCfg.BatchSize),
			zap.Duration("poll_interval", processorCfg.PollInterval),
		)
	} else {
		log.Warn("Outbox processor disabled, domain events will accumulate")
	}

	go observeOutboxDepth(rootCtx, outboxRepo, metrics, log)

	// Rate cache is best effort, the service runs without Redis
	var rateCache appexchange.RateCache
	redisCache, err := cache.NewRedisRateCache(cfg.Redis, cache.WithCacheLogger(log))
	if err != nil {
		log.Warn("Redis unavailable, exchange rates served from database only", zap.Error(err))
	} else {
		rateCache = redisCache
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		log.Info("Rate cache connected")
	}

	rateService := appexchange.NewRateService(rateRepo, rateCache, log)

	var feed *ratefeed.Feed
	if cfg.RateFeed.Enabled {
		feed = ratefeed.NewFeed(cfg.RateFeed, rateService, log)
		feed.SetFailureCounter(metrics.RateFeedFailuresTotal)
		feed.Start(rootCtx)
	} else {
		log.Info("Rate feed disabled, rates must be recorded externally")
	}

	// Upstream tenant, customer and product services
	companyGateway := gateway.NewCompanyHTTPGateway(cfg.Gateway, log)
	customerGateway := gateway.NewCustomerHTTPGateway(cfg.Gateway, log)
	productGateway := gateway.NewProductHTTPGateway(cfg.Gateway, log)

	// Application services
	invoiceService := appinvoicing.NewInvoiceService(
		invoiceRepo,
		sequenceRepo,
		settingsRepo,
		companyGateway,
		customerGateway,
		productGateway,
		rateService,
	)
	quoteService := appinvoicing.NewQuoteService(
		quoteRepo,
		invoiceRepo,
		sequenceRepo,
		settingsRepo,
		customerGateway,
		productGateway,
		rateService,
		invoiceService,
	)
	settingsService := appinvoicing.NewSettingsService(settingsRepo)
	reportService := appreport.NewReportService(reportRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP wiring
	r := router.New(cfg.HTTP, jwtService, metrics, log)
	handler.NewHealthHandler(db, version).RegisterRoutes(r.Engine())
	r.Register(handler.NewInvoiceHandler(invoiceService, metrics))
	r.Register(handler.NewQuoteHandler(quoteService, metrics))
	r.Register(handler.NewSettingsHandler(settingsService))
	r.Register(handler.NewReportHandler(reportService))
	r.Register(handler.NewExchangeRateHandler(rateService, cfg.RateFeed.BaseCurrency, cfg.RateFeed.SecondaryCurrency))
	engine := r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if feed != nil {
		feed.Stop()
	}
	if processor != nil {
		if err := processor.Stop(shutdownCtx); err != nil {
			log.Error("Outbox processor did not stop cleanly", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// observeOutboxDepth periodically exports per-status outbox counts
func observeOutboxDepth(ctx context.Context, repo shared.OutboxRepository, metrics *telemetry.Metrics, log *zap.Logger) {
	ticker := time.NewTicker(outboxGaugeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			counts, err := repo.CountByStatus(ctx)
			if err != nil {
				log.Warn("Failed to count outbox entries", zap.Error(err))
				continue
			}
			for _, status := range []shared.OutboxStatus{
				shared.OutboxStatusPending,
				shared.OutboxStatusProcessing,
				shared.OutboxStatusSent,
				shared.OutboxStatusFailed,
				shared.OutboxStatusDead,
			} {
				metrics.OutboxEntriesByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
			}
		}
	}
}
