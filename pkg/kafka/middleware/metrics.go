package kafka_middleware

import (
	"context"
	"time"

	"studyhall/pkg/kafka"
	"studyhall/pkg/metrics"
)

// MetricsProducerMiddleware tracks producer metrics
func MetricsProducerMiddleware(m *metrics.Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		m.ObserveKafka(metrics.DirectionPublished, msg.Topic, err, time.Since(start))
		return err
	}
}

// MetricsConsumerMiddleware tracks consumer metrics
func MetricsConsumerMiddleware(m *metrics.Metrics) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		m.ObserveKafka(metrics.DirectionConsumed, msg.Topic, err, time.Since(start))
		return err
	}
}
