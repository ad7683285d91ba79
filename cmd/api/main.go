package main

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	bookingshandler "studyhall/internal/bookings/handler"
	bookingsrepo "studyhall/internal/bookings/repository"
	bookingsservice "studyhall/internal/bookings/service"
	bookingsvalidator "studyhall/internal/bookings/validator"
	financialshandler "studyhall/internal/financials/handler"
	financialsrepo "studyhall/internal/financials/repository"
	financialsservice "studyhall/internal/financials/service"
	financialsvalidator "studyhall/internal/financials/validator"
	"studyhall/internal/health"
	operationshandler "studyhall/internal/operations/handler"
	operationsrepo "studyhall/internal/operations/repository"
	operationsservice "studyhall/internal/operations/service"
	operationsvalidator "studyhall/internal/operations/validator"
	seatshandler "studyhall/internal/seats/handler"
	seatsrepo "studyhall/internal/seats/repository"
	seatsservice "studyhall/internal/seats/service"
	seatsvalidator "studyhall/internal/seats/validator"
	sessionshandler "studyhall/internal/sessions/handler"
	sessionsrepo "studyhall/internal/sessions/repository"
	sessionsservice "studyhall/internal/sessions/service"
	"studyhall/internal/sessions/sweeper"
	sessionsvalidator "studyhall/internal/sessions/validator"
	"studyhall/pkg/app"
	"studyhall/pkg/config"
	"studyhall/pkg/contracts"
	mongotx "studyhall/pkg/db/mongo"
	"studyhall/pkg/events"
	"studyhall/pkg/kafka"
	kafka_config "studyhall/pkg/kafka/config"
	kafka_middleware "studyhall/pkg/kafka/middleware"
	"studyhall/pkg/metrics"
	"studyhall/pkg/sealer"
	"studyhall/pkg/tracing"
)

const (
	ServiceName      = "studyhall-api"
	MetricsNamespace = "studyhall"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	shutdownTracing, err := tracing.Setup(context.Background(), ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		cfg.Log.Fatal("Failed to set up tracing", "error", err)
	}

	m := metrics.New(MetricsNamespace)
	serverApp := app.NewApplication(cfg, m)

	publisher := initPublisher(cfg, m, serverApp)
	handlers, tokenRepo := initHandlers(cfg, m, publisher)

	tokenSweeper := sweeper.New(
		tokenRepo,
		mongotx.NewLeaseManager(cfg.Database()),
		cfg.TokenSweepInterval,
		cfg.WriteTimeout,
		m,
		cfg.Log,
	)
	tokenSweeper.Start()
	serverApp.AddWorker(tokenSweeper)
	serverApp.OnShutdown(app.ShutdownHook(shutdownTracing))

	serverApp.SetApp(health.NewHandler(cfg.Log, readinessChecks(cfg)...), handlers...)
	cfg.Log.Info("Starting studyhall API", "database", cfg.MongoDatabaseName)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, m *metrics.Metrics, publisher events.Publisher) ([]contracts.Handler, sessionsrepo.TokenRepository) {
	seatRepo := seatsrepo.NewMongoSeatRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)

	seatService := seatsservice.NewSeatService(
		seatRepo,
		bookingRepo,
		seatsvalidator.NewSeatValidator(cfg.Log),
		cfg,
	)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		seatRepo,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		publisher,
		m,
		cfg,
	)
	financialService := financialsservice.NewFinancialService(
		financialsrepo.NewMongoFinancialRepository(cfg),
		financialsvalidator.NewFinancialValidator(cfg.Log),
		cfg,
	)
	operationService := operationsservice.NewOperationService(
		operationsrepo.NewMongoOperationRepository(cfg),
		operationsvalidator.NewOperationValidator(cfg.Log),
		cfg,
	)

	tokenSealer, err := sealer.New(cfg.TokenSealingKey)
	if err != nil {
		cfg.Log.Fatal("Invalid TOKEN_SEALING_KEY", "error", err)
	}
	tokenRepo := sessionsrepo.NewMongoTokenRepository(cfg)
	sessionService := sessionsservice.NewSessionService(
		tokenRepo,
		tokenSealer,
		sessionsvalidator.NewSessionValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return []contracts.Handler{
		seatshandler.NewSeatHandler(seatService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		financialshandler.NewFinancialHandler(financialService, cfg.Log),
		operationshandler.NewOperationHandler(operationService, cfg.Log),
		sessionshandler.NewSessionHandler(sessionService, cfg.Log),
	}, tokenRepo
}

// initPublisher returns a Kafka publisher for booking events, or a no-op
// one when Kafka is disabled.
func initPublisher(cfg *config.Config, m *metrics.Metrics, serverApp *app.Application) events.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events are not published")
		return events.NopPublisher{}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.BookingTopic, kafkaCfg.BookingDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware(m))
	}
	serverApp.OnShutdown(func(context.Context) error { return producer.Close() })

	cfg.Log.Info("Publishing booking events", "topic", kafkaCfg.BookingTopic, "brokers", kafkaCfg.Brokers)
	return events.NewKafkaPublisher(producer, ServiceName)
}

func readinessChecks(cfg *config.Config) []health.Check {
	checks := []health.Check{{
		Name: "mongo",
		Ping: func(ctx context.Context) error { return cfg.Mongo.Ping(ctx, readpref.Primary()) },
	}}
	if cfg.Redis != nil {
		checks = append(checks, health.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return cfg.Redis.Ping(ctx).Err() },
		})
	}
	return checks
}
