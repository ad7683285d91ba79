package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"studyhall/pkg/logger"
)

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func newTestConsumer(reader messageReader, dlq messageWriter, handler MessageHandler, maxRetries int) *Consumer {
	c := newConsumer(reader, dlq, "bookings", "ledger", handler, logger.Discard())
	c.maxRetries = maxRetries
	c.backoff = time.Millisecond
	return c
}

func TestConsumer_ProcessesAndCommits(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Offset: 1, Key: []byte("a"), Value: []byte(`{}`), Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte("booking.created")}}},
		{Offset: 2, Key: []byte("b"), Value: []byte(`{}`)},
	}}

	var mu sync.Mutex
	var seen []string
	c := newTestConsumer(reader, nil, func(ctx context.Context, msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, msg.Key+":"+msg.GetEventType())
		return nil
	}, 3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for len(reader.commits()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("timed out, commits = %v", reader.commits())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Start() = %v, want context.Canceled", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != "a:booking.created" || seen[1] != "b:" {
		t.Errorf("handled = %v", seen)
	}
}

func TestConsumer_RetriesTransientErrors(t *testing.T) {
	attempts := 0
	c := newTestConsumer(&fakeReader{}, nil, func(ctx context.Context, msg Message) error {
		attempts++
		if attempts < 3 {
			return NewTransientError("ledger write", errors.New("server selection timeout"))
		}
		return nil
	}, 3)

	if err := c.processMessage(context.Background(), Message{Key: "k", Headers: map[string]string{}}); err != nil {
		t.Fatalf("processMessage() = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestConsumer_PermanentErrorGoesToDLQ(t *testing.T) {
	dlq := &fakeWriter{}
	attempts := 0
	c := newTestConsumer(&fakeReader{}, dlq, func(ctx context.Context, msg Message) error {
		attempts++
		return NewPermanentError("decode event", errors.New("bad json"))
	}, 3)

	err := c.processMessage(context.Background(), Message{Key: "k", Value: []byte("{"), Headers: map[string]string{}})
	if err == nil {
		t.Fatal("expected the handler error")
	}
	if attempts != 1 {
		t.Errorf("permanent errors should not be retried, attempts = %d", attempts)
	}
	if len(dlq.messages) != 1 {
		t.Fatalf("DLQ got %d messages, want 1", len(dlq.messages))
	}
	if got := header(dlq.messages[0], HeaderDLQGroup); got != "ledger" {
		t.Errorf("dlq group header = %q", got)
	}
}

func TestConsumer_ExhaustedRetriesGoToDLQ(t *testing.T) {
	dlq := &fakeWriter{}
	attempts := 0
	c := newTestConsumer(&fakeReader{}, dlq, func(ctx context.Context, msg Message) error {
		attempts++
		return NewTransientError("ledger write", errors.New("timeout"))
	}, 2)

	_ = c.processMessage(context.Background(), Message{Key: "k", Headers: map[string]string{}})
	if attempts != 3 {
		t.Errorf("attempts = %d, want 1 + 2 retries", attempts)
	}
	if len(dlq.messages) != 1 {
		t.Fatalf("DLQ got %d messages, want 1", len(dlq.messages))
	}
	if got := header(dlq.messages[0], HeaderRetryCount); got != "2" {
		t.Errorf("retry count header = %q, want 2", got)
	}
}
