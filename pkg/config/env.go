package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRedisURL = "REDIS_URL"

	EnvRefreshTokenTTL    = "REFRESH_TOKEN_TTL"
	EnvAccessTokenTTL     = "ACCESS_TOKEN_TTL"
	EnvJWTSecret          = "JWT_SECRET"
	EnvTokenSealingKey    = "TOKEN_SEALING_KEY"
	EnvTokenSweepInterval = "TOKEN_SWEEP_INTERVAL"

	EnvOTLPEndpoint = "OTLP_ENDPOINT"

	EnvKafkaEnabled = "KAFKA_ENABLED"
)
