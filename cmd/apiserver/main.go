// API server entry point for the HealthAI dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/onconet/healthai/internal/application/dashboard"
	"github.com/onconet/healthai/internal/application/workflow"
	"github.com/onconet/healthai/internal/config"
	"github.com/onconet/healthai/internal/domain/staging"
	"github.com/onconet/healthai/internal/infrastructure/database/postgres"
	"github.com/onconet/healthai/internal/infrastructure/database/postgres/repositories"
	"github.com/onconet/healthai/internal/infrastructure/database/redis"
	"github.com/onconet/healthai/internal/infrastructure/messaging/kafka"
	"github.com/onconet/healthai/internal/infrastructure/monitoring/logging"
	"github.com/onconet/healthai/internal/infrastructure/monitoring/prometheus"
	"github.com/onconet/healthai/internal/infrastructure/vantage"
	httpserver "github.com/onconet/healthai/internal/interfaces/http"
	"github.com/onconet/healthai/internal/interfaces/http/handlers"
	"github.com/onconet/healthai/internal/interfaces/http/middleware"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	logger.Info("starting HealthAI dashboard API server",
		logging.String("version", config.Version),
		logging.Int("port", cfg.Server.Port))

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", logging.Err(err))
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	// Platform gateway.
	gateway, err := vantage.NewClient(
		fmt.Sprintf("%s:%d", cfg.Vantage.URL, cfg.Vantage.Port),
		cfg.Vantage.APIPath,
		cfg.Vantage.Username,
		cfg.Vantage.Password,
		vantage.WithLogger(logger),
		vantage.WithTimeout(cfg.Vantage.Timeout),
		vantage.WithRetryMax(cfg.Vantage.RetryMax),
	)
	if err != nil {
		return fmt.Errorf("platform client: %w", err)
	}

	// Clinical reference data and stage codec.
	cdm, err := staging.LoadCDM(cfg.Staging.CDMPath)
	if err != nil {
		return fmt.Errorf("reference data: %w", err)
	}
	codec, err := staging.NewCodec(cdm, staging.Policy(cfg.Staging.Policy))
	if err != nil {
		return err
	}

	checkers := map[string]handlers.Checker{
		"vantage": gateway.Authenticate,
	}

	// Task history (Postgres), optional.
	var history *repositories.HistoryRepo
	var pgConn *postgres.Connection
	if cfg.Postgres.Host != "" {
		pgConn, err = postgres.NewConnection(cfg.Postgres, logger)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pgConn.Close()
		if cfg.Postgres.MigrationsPath != "" {
			if err := pgConn.RunMigrations(cfg.Postgres.MigrationsPath); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
		}
		history = repositories.NewHistoryRepo(pgConn.DB(), logger)
		checkers["postgres"] = pgConn.HealthCheck
	}

	// Durable result cache (Redis), optional.
	var durable workflow.DurableStore
	if cfg.Redis.Enabled {
		rdb, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rdb.Close()
		durable = redis.NewResultStore(rdb, logger,
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithTTL(cfg.Redis.DefaultTTL))
		checkers["redis"] = rdb.Ping
	}

	// Task lifecycle events (Kafka), optional.
	var events workflow.EventPublisher
	if cfg.Kafka.Enabled {
		publisher, err := kafka.NewPublisher(cfg.Kafka, logger)
		if err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
		defer publisher.Close()
		events = publisher
	}

	var metrics *prometheus.Metrics
	if cfg.Metrics.Enabled {
		metrics = prometheus.NewMetrics(cfg.Metrics.Namespace)
	}

	// Application core.
	cache := workflow.NewCache(durable, logger)
	var historyStore workflow.HistoryStore
	var historyLister dashboard.HistoryLister
	if history != nil {
		historyStore = history
		historyLister = history
	}
	orch := workflow.NewOrchestrator(gateway, cache, historyStore, events, logger)
	svc := dashboard.NewService(cfg, orch, workflow.NewSpecBuilder(cfg), cdm, codec,
		historyLister, metrics, logger)

	// HTTP surface.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = []string{"*"}
	router := httpserver.NewRouter(httpserver.RouterConfig{
		WorkflowHandler:  handlers.NewWorkflowHandler(svc),
		AnalyticsHandler: handlers.NewAnalyticsHandler(svc),
		HealthHandler:    handlers.NewHealthHandler(checkers),
		CORS:             &corsCfg,
		Logger:           logger,
		Metrics:          metrics,
		Mode:             cfg.Server.Mode,
	})
	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("received signal, shutting down", logging.String("signal", sig.String()))
	}

	return srv.Stop(context.Background())
}

// loadConfig prefers the config file; a missing file falls back to pure
// environment configuration.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

//Personal.AI order the ending
