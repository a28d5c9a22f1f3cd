// Command corpmatchd serves corpmatch's HTTP API: corporate-name matching,
// legal-form cleaning/retrieval, city-name matching, and batch duplicate
// finding, with an optional Postgres audit trail and an optional Kafka
// consumer that incrementally checks an incoming stream of company names
// for duplicates against everything seen so far.
package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Ramsey-B/corpmatch/config"
	"github.com/Ramsey-B/corpmatch/internal/logging"
	"github.com/Ramsey-B/corpmatch/internal/store"
	"github.com/Ramsey-B/corpmatch/pkg/citymatch"
	"github.com/Ramsey-B/corpmatch/pkg/dedup"
	"github.com/Ramsey-B/corpmatch/pkg/kafka"
	"github.com/Ramsey-B/corpmatch/pkg/legalform"
	"github.com/Ramsey-B/corpmatch/pkg/matching"
	"github.com/Ramsey-B/corpmatch/pkg/middleware"
	citymatchroute "github.com/Ramsey-B/corpmatch/pkg/routes/citymatch"
	"github.com/Ramsey-B/corpmatch/pkg/routes/duplicates"
	"github.com/Ramsey-B/corpmatch/pkg/routes/health"
	legalformroute "github.com/Ramsey-B/corpmatch/pkg/routes/legalform"
	"github.com/Ramsey-B/corpmatch/pkg/routes/match"
	"github.com/Ramsey-B/corpmatch/pkg/startup"
	"github.com/Ramsey-B/corpmatch/pkg/textutil"
	"github.com/Ramsey-B/corpmatch/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load config: " + err.Error())
	}

	logger, err := logging.New(cfg)
	if err != nil {
		panic("build logger: " + err.Error())
	}

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	otel.SetTracerProvider(tp)
	tracing.SetTracer(tp.Tracer(cfg.AppName))

	catalog := legalform.LoadCatalog(logger, cfg.LegalFormsPath, cfg.AdditionLegalFormsPath)
	replacements := legalform.LoadReplacements(logger, cfg.LegalFormReplacementsPath)
	retriever := legalform.NewRetriever(catalog, replacements)
	matcher := matching.NewMatcher(catalog, retriever)

	particles := textutil.LoadNobilityParticles(logger, cfg.NobilityTitlesPath, cfg.TitlesPath)
	cityMapper := citymatch.LoadCityMapper(logger, cfg.CityMappingsPath)
	cityMatcher := citymatch.NewCityMatcher(cityMapper, particles)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := &wiredDependencies{cfg: cfg, logger: logger, matcher: matcher}
	sequencer := startup.New(logger, cfg.StartupMaxAttempts)
	if cfg.AuditStoreEnabled {
		sequencer.Add(&auditStoreDependency{deps: deps})
	}
	if cfg.KafkaConsumerEnabled {
		sequencer.Add(&kafkaDependency{deps: deps})
	}
	if err := sequencer.Start(ctx); err != nil {
		logger.WithError(err).Fatal("startup failed")
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Logger(logger))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	checker := health.NewChecker(deps.db, cfg.AppName)
	checker.RegisterRoutes(e)

	match.NewHandler(matcher, cfg.DefaultCountryCode).Register(e.Group("/v1/match"))
	legalformroute.NewHandler(catalog, retriever, cfg.DefaultCountryCode).Register(e.Group("/v1/legal-form"))
	citymatchroute.NewHandler(cityMatcher).Register(e.Group("/v1/city-match"))
	duplicates.NewHandler(matcher, cfg.DefaultCountryCode, dedup.Options{
		Concurrency: cfg.DedupWorkerCount,
		CountryCode: cfg.DefaultCountryCode,
	}, deps.repo).Register(e.Group("/v1/duplicates"))

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes
	e.Server.TLSConfig = &tls.Config{
		MinVersion: parseTLSVersion(cfg.TLSMinVersion),
		MaxVersion: parseTLSVersion(cfg.TLSMaxVersion),
	}

	if deps.consumer != nil {
		go func() {
			if err := deps.consumer.Start(ctx); err != nil {
				logger.WithError(err).Error("kafka consumer stopped")
			}
		}()
	}

	checker.SetReady(true)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Infof("corpmatchd listening on %s", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server stopped unexpectedly")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down corpmatchd")
	checker.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("error during http server shutdown")
	}

	if err := sequencer.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("error stopping startup dependencies")
	}
}

// wiredDependencies holds the optional, startup.Dependency-managed
// singletons that route handlers and the health checker need once they're
// up: the audit-store connection/repository and the Kafka consumer/producer
// pair.
type wiredDependencies struct {
	cfg     *config.Config
	logger  ectologger.Logger
	matcher *matching.Matcher

	db       *sqlx.DB
	repo     *store.Repository
	consumer *kafka.Consumer
	producer *kafka.Producer
}

// auditStoreDependency connects to Postgres and runs pending migrations.
type auditStoreDependency struct {
	deps *wiredDependencies
}

func (d *auditStoreDependency) Name() string        { return "audit-store" }
func (d *auditStoreDependency) DependsOn() []string { return nil }

func (d *auditStoreDependency) Start(ctx context.Context) error {
	conn, err := store.Connect(*d.deps.cfg)
	if err != nil {
		return err
	}

	driver, err := postgres.WithInstance(conn.DB, &postgres.Config{})
	if err != nil {
		conn.Close()
		return err
	}

	ms := store.NewMigrationService(d.deps.logger, &store.MigrationConfig{
		MigrationFolderPath: d.deps.cfg.DatabaseMigrationFolderPath,
		Version:             uint(d.deps.cfg.DatabaseMigrationVersion),
		Force:               d.deps.cfg.DatabaseMigrationForce,
		AutoRollback:        d.deps.cfg.DatabaseMigrationAutoRollback,
	})
	if err := ms.Migrate(d.deps.cfg.DatabaseName, driver); err != nil {
		d.deps.logger.WithError(err).Warn("audit store migrations did not complete cleanly")
	}

	d.deps.db = conn
	d.deps.repo = store.NewRepository(conn, d.deps.logger)
	return nil
}

func (d *auditStoreDependency) Stop(ctx context.Context) error {
	if d.deps.db == nil {
		return nil
	}
	return d.deps.db.Close()
}

// kafkaDependency builds the producer and then the consumer, wiring a
// RunningCatalog as the message handler so every incoming company name is
// checked against everything consumed so far before being added to the
// running set. The consumer's read loop is started by main, not here.
type kafkaDependency struct {
	deps *wiredDependencies
}

func (d *kafkaDependency) Name() string        { return "kafka" }
func (d *kafkaDependency) DependsOn() []string { return nil }

func (d *kafkaDependency) Start(ctx context.Context) error {
	cfg := d.deps.cfg

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaOutputTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: cfg.KafkaRequiredAcks,
		Compression:  cfg.KafkaCompression,
	}, d.deps.logger)
	d.deps.producer = producer

	catalog := kafka.NewRunningCatalog(d.deps.matcher, producer, d.deps.logger, cfg.DefaultCountryCode, cfg.DedupScoreThreshold)

	consumer := kafka.NewConsumerWithConfig(kafka.ConsumerConfig{
		Brokers:       cfg.KafkaBrokers,
		Topic:         cfg.KafkaInputTopic,
		ConsumerGroup: cfg.KafkaConsumerGroup,
	}, d.deps.logger, catalog.Handle)
	d.deps.consumer = consumer

	return nil
}

func (d *kafkaDependency) Stop(ctx context.Context) error {
	if d.deps.consumer != nil {
		_ = d.deps.consumer.Stop()
	}
	if d.deps.producer != nil {
		return d.deps.producer.Close()
	}
	return nil
}

func parseTLSVersion(v string) uint16 {
	switch v {
	case "TLS_1_3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
