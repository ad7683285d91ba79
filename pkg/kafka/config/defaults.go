package kafka_config

import "time"

const (
	OffsetNewest int64 = -1
	OffsetOldest int64 = -2
)

const (
	DefaultKafkaBrokers = "localhost:9092"

	DefaultBookingTopic    = "studyhall.bookings"
	DefaultBookingDLQTopic = "studyhall.bookings.dlq"
	DefaultLedgerGroup     = "studyhall-ledger"

	// Booking events carry money, so the producer waits for every replica
	// and the ledger reads a new group from the start of the topic.
	DefaultProducerMaxAttempts  = 5
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false

	DefaultConsumerStartOffset       = OffsetOldest
	DefaultConsumerMinBytes          = 1
	DefaultConsumerMaxBytes          = 1 << 20
	DefaultConsumerMaxWait           = 500 * time.Millisecond
	DefaultConsumerCommitInterval    = time.Second
	DefaultConsumerHeartbeatInterval = 3 * time.Second
	DefaultConsumerSessionTimeout    = 10 * time.Second
	DefaultConsumerRebalanceTimeout  = 30 * time.Second
	DefaultConsumerMaxRetries        = 3

	DefaultEnableMiddleware = true
)
