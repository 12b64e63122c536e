package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/easyml-code/ocr-data-insertion/docs"
	invoiceapp "github.com/easyml-code/ocr-data-insertion/internal/application/invoice"
	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/auth"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/cache"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/config"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/logger"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/persistence"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/storage"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/telemetry"
	"github.com/easyml-code/ocr-data-insertion/internal/interfaces/http/handler"
	"github.com/easyml-code/ocr-data-insertion/internal/interfaces/http/middleware"
	"github.com/easyml-code/ocr-data-insertion/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//go:generate swag init --dir ../.. --exclude ../../_examples --generalInfo cmd/server/main.go --output ../../docs --parseInternal

//	@title			OCR Invoice Ingestion API
//	@version		1.0
//	@description	Turns OCR-extracted supplier invoices into purchase order and goods receipt records.

//	@contact.name	API Support
//	@contact.url	https://github.com/easyml-code/ocr-data-insertion

//	@host		localhost:8080
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
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
		_ = log.Sync()
	}()

	log.Info("Starting OCR invoice ingestion",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("reference_mode", cfg.Processing.ReferenceMode),
	)

	ctx := context.Background()
	telCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}

	tp, err := telemetry.NewTracerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	lp, err := telemetry.NewLoggerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer shutdownTelemetry(log, tp, mp, lp)

	log = lp.Tee(log, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterGormTracing(db.DB, cfg.Database.DBName); err != nil {
			log.Warn("Database tracing unavailable", zap.Error(err))
		}
	}

	stores, err := cache.NewFactory(cfg.Redis, cfg.Processing,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStores()
	if err != nil {
		log.Fatal("Failed to create cache stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cache stores", zap.Error(err))
		}
	}()

	processor, err := buildProcessor(ctx, cfg, log, db, stores, mp)
	if err != nil {
		log.Fatal("Failed to build invoice processor", zap.Error(err))
	}

	routerCfg := router.Config{
		Logger:      log,
		MaxBodySize: cfg.HTTP.MaxBodySize,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Swagger: middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		},
	}
	if cfg.Auth.Enabled() {
		routerCfg.JWTService = auth.NewJWTService(cfg.Auth)
		log.Info("Bearer authentication enabled", zap.String("issuer", cfg.Auth.Issuer))
	} else {
		log.Warn("Bearer authentication disabled, the invoice API is open")
	}

	engine := router.NewRouter(routerCfg).
		Health(handler.NewHealthHandler(db)).
		Register(handler.NewInvoiceHandler(processor, cfg.Processing.MaxBatchSize)).
		Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// buildProcessor assembles the pipeline: resolver per reference mode, mapper,
// transactional writer, and the optional guard, archive and metrics.
func buildProcessor(
	ctx context.Context,
	cfg *config.Config,
	log *zap.Logger,
	db *persistence.Database,
	stores *cache.Stores,
	mp *telemetry.MeterProvider,
) (*invoiceapp.Processor, error) {
	keys := procurement.NewKeyGenerator()

	var resolver procurement.ReferenceResolver
	if cfg.Processing.ReferenceMode == config.ReferenceModeLookup {
		resolver = invoiceapp.NewLookupResolver(persistence.NewGormReferenceRepository(db.DB), stores.References)
	} else {
		resolver = invoiceapp.NewPlaceholderResolver(keys)
	}

	mapper := invoiceapp.NewMapper(keys, resolver, invoiceapp.WithDefaultCurrency(cfg.Processing.DefaultCurrency))
	writer := persistence.NewGormInvoiceWriter(db.DB)

	metrics, err := telemetry.NewPipelineMetrics(mp.Meter(telemetry.TracerName))
	if err != nil {
		return nil, err
	}

	opts := []invoiceapp.ProcessorOption{
		invoiceapp.WithLogger(log),
		invoiceapp.WithWriteRetries(cfg.Processing.WriteRetries, cfg.Processing.WriteRetryDelay),
		invoiceapp.WithBatchConcurrency(cfg.Processing.BatchConcurrency),
		invoiceapp.WithMetrics(metrics),
	}
	if stores.Guard != nil {
		opts = append(opts, invoiceapp.WithDuplicateGuard(stores.Guard))
	}

	if cfg.Storage.Enabled {
		archive, err := storage.NewS3RawArchive(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return nil, err
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		log.Info("Raw payload archive enabled", zap.String("bucket", archive.Bucket()))
		opts = append(opts, invoiceapp.WithRawArchive(archive))
	}

	return invoiceapp.NewProcessor(invoiceapp.NewValidator(), mapper, writer, opts...), nil
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func shutdownTelemetry(log *zap.Logger, providers ...shutdowner) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for _, p := range providers {
		if err := p.Shutdown(ctx); err != nil {
			log.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}
}
