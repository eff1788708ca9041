package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "invoice-dashboard/docs"
	"invoice-dashboard/internal/api"
	"invoice-dashboard/internal/batch"
	"invoice-dashboard/internal/config"
	"invoice-dashboard/internal/domain/customer"
	"invoice-dashboard/internal/domain/invoice"
	"invoice-dashboard/internal/domain/mutation"
	"invoice-dashboard/internal/domain/report"
	"invoice-dashboard/internal/event"
	"invoice-dashboard/internal/infrastructure/cache"
	"invoice-dashboard/internal/infrastructure/database/postgres"
	"invoice-dashboard/internal/infrastructure/logging"
	"invoice-dashboard/internal/infrastructure/storage"
	"invoice-dashboard/internal/pkg/validation"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// @title Invoice Dashboard API
// @version 1.0
// @description Customer and invoice mutations with canned reports.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool := initializeDatabase(ctx, cfg, logger)
	defer closeDatabase(dbPool, logger)

	redisClient := initializeRedisClient(cfg, logger)
	viewCache := cache.NewGuardedViewCache(initializeViewCache(cfg, redisClient, logger), logger)

	rabbitMQConn := initializeRabbitMQ(cfg, logger)
	publisher := initializePublisher(cfg, rabbitMQConn, logger)
	consumer := startConsumer(ctx, cfg, rabbitMQConn, viewCache, logger)

	assets, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("Failed to initialize asset storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}

	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	services, err := initializeServices(cfg, dbPool, customerRepo, assets, viewCache, publisher, logger)
	if err != nil {
		logger.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	sweepJob := batch.NewAssetSweepJob(assets, customerRepo, cfg.Batch.AssetSweepGrace, logger)
	cronScheduler, err := startBatchJobs(cfg, logger, sweepJob)
	if err != nil {
		logger.Error("Failed to schedule batch jobs", "error", err)
		os.Exit(1)
	}

	router := api.SetupRouter(ctx, services, cfg, logger)
	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, consumer, rabbitMQConn, redisClient, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "storage_driver", cfg.Storage.Driver, "redis", cfg.Redis.Enabled, "rabbitmq", cfg.RabbitMQ.Enabled)
	return cfg, logger
}

func initializeDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

func initializeServices(
	cfg *config.Config,
	dbPool postgres.DBPool,
	customerRepo *postgres.CustomerRepository,
	assets storage.Store,
	viewCache cache.ViewCache,
	publisher mutation.Publisher,
	logger *slog.Logger,
) (api.Services, error) {
	logger.Info("Initializing application components...")

	defaultAmount, ok := validation.ToCents(cfg.Reports.InvoiceAmount)
	if !ok {
		return api.Services{}, fmt.Errorf("invalid reports.invoiceAmount %q", cfg.Reports.InvoiceAmount)
	}

	invoiceRepo := postgres.NewInvoiceRepository(dbPool, logger)
	reportRepo := postgres.NewReportRepository(dbPool, logger)

	return api.Services{
		Customers: customer.NewCustomerService(customerRepo, assets, viewCache, publisher, logger),
		Invoices:  invoice.NewInvoiceService(invoiceRepo, viewCache, publisher, logger),
		Reports:   report.NewReportService(reportRepo, viewCache, defaultAmount, logger),
	}, nil
}

// initializeViewCache returns the redis backed cache when a client is
// available and the in-memory cache otherwise.
func initializeViewCache(cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) cache.ViewCache {
	if redisClient != nil {
		logger.Info("Using redis view cache", "prefix", cfg.Redis.KeyPrefix, "ttl", cfg.Redis.TTL)
		return cache.NewRedisViewCache(redisClient, cfg.Redis.KeyPrefix, cfg.Redis.TTL, logger)
	}
	logger.Info("Using in-memory view cache", "ttl", cfg.Redis.TTL)
	return cache.NewInMemoryViewCache(cfg.Redis.TTL)
}

func initializePublisher(cfg *config.Config, rabbitConn *amqp.Connection, logger *slog.Logger) mutation.Publisher {
	if rabbitConn == nil {
		logger.Info("RabbitMQ not connected, mutation events are not published.")
		return event.NopPublisher{}
	}
	pub, err := event.NewRabbitMQEventPublisher(rabbitConn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to initialize event publisher, continuing without events", "error", err)
		return event.NopPublisher{}
	}
	return pub
}

// startConsumer subscribes to peer mutation events. It only runs with the
// in-memory cache since a shared redis cache is invalidated by the writer.
func startConsumer(ctx context.Context, cfg *config.Config, rabbitConn *amqp.Connection, viewCache cache.ViewCache, logger *slog.Logger) *event.Consumer {
	if rabbitConn == nil || cfg.Redis.Enabled {
		return nil
	}

	handler := event.NewInvalidationHandler(viewCache, logger)
	consumer, err := event.NewConsumer(rabbitConn, cfg.RabbitMQ.ExchangeName, cfg.RabbitMQ.QueueName, cfg.RabbitMQ.ConsumerTag, handler.HandleDelivery, logger)
	if err != nil {
		logger.Error("Failed to create event consumer", "error", err)
		return nil
	}
	if err := consumer.Start(ctx); err != nil {
		logger.Error("Failed to start event consumer", "error", err)
		return nil
	}
	return consumer
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, consumer *event.Consumer, rabbitConn *amqp.Connection,
	redisClient *redis.Client, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	triggerReason := waitForShutdownTrigger(shutdownChan, serverErrors, logger)

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	stopCronScheduler(cronScheduler, logger)
	if consumer != nil {
		consumer.Stop()
	}
	closeRabbitMQConnection(rabbitConn, logger)
	closeRedisClient(redisClient, logger)
	shutdownHTTPServer(srv, serverErrors, logger)

	logger.Info("Application shutdown process complete.")
}

func waitForShutdownTrigger(shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) string {
	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received.", "signal", sig.String())
		return "signal: " + sig.String()
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		logger.Info("Server goroutine finished before signal.", "error", err)
		return "server exited"
	}
}

func stopCronScheduler(cronScheduler *cron.Cron, logger *slog.Logger) {
	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	switch {
	case rabbitConn == nil:
		logger.Info("RabbitMQ connection was not established, skipping close.")
	case rabbitConn.IsClosed():
		logger.Info("RabbitMQ connection already closed, skipping close.")
	default:
		logger.Info("Closing RabbitMQ connection...")
		if err := rabbitConn.Close(); err != nil {
			logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
		}
	}
}

func shutdownHTTPServer(srv *http.Server, serverErrors <-chan error, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}
}

// initializeRedisClient connects to redis when enabled. A failed connection
// falls back to the in-memory cache rather than stopping the service.
func initializeRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	logger.Info("Initializing Redis client...", "addr", cfg.Redis.Addr)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis, falling back to in-memory cache", "error", err, "addr", cfg.Redis.Addr)
		_ = rdb.Close()
		return nil
	}

	logger.Info("Redis client connected successfully.", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return rdb
}

func closeRedisClient(redisClient *redis.Client, logger *slog.Logger) {
	if redisClient == nil {
		logger.Info("Redis client was not initialized, skipping close.")
		return
	}
	logger.Info("Closing Redis client connection...")
	if err := redisClient.Close(); err != nil {
		logger.Error("Failed to close Redis client connection gracefully", "error", err)
	}
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, sweepJob *batch.AssetSweepJob) (*cron.Cron, error) {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Batch.AssetSweepSchedule
	if scheduleSpec == "" {
		scheduleSpec = "0 3 * * *"
		logger.Warn("Asset sweep schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.AssetSweepTimeout
	if jobTimeout <= 0 {
		jobTimeout = 10 * time.Minute
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "AssetSweep")
		jobLogger.Info("Cron triggered: Running asset sweep job.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := sweepJob.Run(ctx); runErr != nil {
			jobLogger.Error("Asset sweep job finished with error", slog.Any("error", runErr))
		}
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to schedule asset sweep job %q: %w", scheduleSpec, err)
	}
	logger.Info("Scheduled asset sweep job", "schedule", scheduleSpec, "job_id", jobID)

	c.Start()
	logger.Info("Cron scheduler started.")
	return c, nil
}

func rabbitMQURI(cfg config.RabbitMQConfig) (string, error) {
	if cfg.Host == "" {
		return "", errors.New("RabbitMQ host is not configured")
	}
	if (cfg.Username == "") != (cfg.Password == "") {
		return "", errors.New("RabbitMQ username and password must be provided together")
	}

	uri := amqp.URI{
		Scheme:   "amqp",
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		Vhost:    "/",
	}
	if uri.Port == 0 {
		uri.Port = 5672
	}
	return uri.String(), nil
}

func connectRabbitMQ(uri string, retryCount int, backoff time.Duration, logger *slog.Logger) (*amqp.Connection, error) {
	var err error
	for i := 1; i <= retryCount; i++ {
		var conn *amqp.Connection
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
				closeChan := conn.NotifyClose(make(chan *amqp.Error, 1))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					if e != nil {
						logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
					}
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", retryCount),
			slog.Any("error", err),
		)
		time.Sleep(time.Duration(i) * backoff)
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", retryCount, err)
}

// initializeRabbitMQ returns nil when RabbitMQ is disabled or unreachable;
// events are best effort.
func initializeRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	if !cfg.RabbitMQ.Enabled {
		return nil
	}
	uri, err := rabbitMQURI(cfg.RabbitMQ)
	if err != nil {
		logger.Error("Invalid RabbitMQ configuration", "error", err)
		return nil
	}
	conn, err := connectRabbitMQ(uri, 5, 2*time.Second, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		return nil
	}
	return conn
}
