package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	financialsrepo "studyhall/internal/financials/repository"
	financialsservice "studyhall/internal/financials/service"
	financialsvalidator "studyhall/internal/financials/validator"
	"studyhall/internal/health"
	"studyhall/internal/ledgerworker"
	operationsrepo "studyhall/internal/operations/repository"
	operationsservice "studyhall/internal/operations/service"
	operationsvalidator "studyhall/internal/operations/validator"
	"studyhall/pkg/config"
	"studyhall/pkg/kafka"
	kafka_config "studyhall/pkg/kafka/config"
	kafka_middleware "studyhall/pkg/kafka/middleware"
	"studyhall/pkg/metrics"
)

const (
	ServiceName      = "studyhall-ledger-worker"
	MetricsNamespace = "studyhall_ledger"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	m := metrics.New(MetricsNamespace)
	handler := ledgerworker.NewHandler(
		financialsservice.NewFinancialService(
			financialsrepo.NewMongoFinancialRepository(cfg),
			financialsvalidator.NewFinancialValidator(cfg.Log),
			cfg,
		),
		operationsservice.NewOperationService(
			operationsrepo.NewMongoOperationRepository(cfg),
			operationsvalidator.NewOperationValidator(cfg.Log),
			cfg,
		),
		cfg.Log,
	)

	consumer, err := kafka.NewConsumer(kafkaCfg, kafkaCfg.BookingTopic, kafkaCfg.LedgerGroup, kafkaCfg.BookingDLQTopic, handler.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(kafka_middleware.MetricsConsumerMiddleware(m))
	}

	server := statusServer(cfg, m)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cfg.Log.Error("Status server failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Ledger worker consuming",
		"topic", kafkaCfg.BookingTopic,
		"group", kafkaCfg.LedgerGroup,
		"dlq", kafkaCfg.BookingDLQTopic,
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped", "error", err)
	}

	cfg.Log.Info("Shutting down ledger worker")
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		cfg.Log.Error("Status server shutdown failed", "error", err)
	}
}

// statusServer exposes health, readiness and metrics for the worker.
func statusServer(cfg *config.Config, m *metrics.Metrics) *http.Server {
	router := httprouter.New()
	health.NewHandler(cfg.Log, health.Check{
		Name: "mongo",
		Ping: func(ctx context.Context) error { return cfg.Mongo.Ping(ctx, readpref.Primary()) },
	}).RegisterRoutes(router)
	router.Handler(http.MethodGet, "/metrics", m.Handler())

	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
