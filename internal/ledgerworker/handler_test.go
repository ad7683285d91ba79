package ledgerworker

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "studyhall/pkg/errors"
	"studyhall/pkg/events"
	"studyhall/pkg/kafka"
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
)

type recorder[T any] struct {
	records []*T
	err     error
}

func (r *recorder[T]) Create(ctx context.Context, record *T) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, record)
	return nil
}

func message(t *testing.T, e events.BookingEvent) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().WithKey(e.SeatID).WithValue(e).WithEventType(e.Type).Build()
	if err != nil {
		t.Fatal(err)
	}
	return msg
}

func event(eventType string, amount float64) events.BookingEvent {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return events.BookingEvent{
		Type:       eventType,
		BookingID:  "65f0000000000000000000b1",
		SeatID:     "65f0000000000000000000a1",
		SeatNumber: "A1",
		StudentID:  "student-1",
		Status:     model.BookingActive,
		Amount:     amount,
		StartTime:  start,
		EndTime:    start.Add(8 * time.Hour),
		OccurredAt: start.Add(-time.Hour),
	}
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name          string
		event         events.BookingEvent
		wantOperation string
		wantFinancial string
	}{
		{"created books income", event(events.BookingCreated, 25), model.OperationBookingCreated, model.FinancialIncome},
		{"cancelled books refund", event(events.BookingCancelled, 25), model.OperationBookingCancelled, model.FinancialRefund},
		{"reactivated books income", event(events.BookingReactivated, 25), model.OperationBookingUpdated, model.FinancialIncome},
		{"updated moves no money", event(events.BookingUpdated, 25), model.OperationBookingUpdated, ""},
		{"deleted is an other operation", event(events.BookingDeleted, 25), model.OperationOther, ""},
		{"free booking has no financial", event(events.BookingCreated, 0), model.OperationBookingCreated, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fin := &recorder[model.FinancialRecord]{}
			ops := &recorder[model.OperationRecord]{}
			h := NewHandler(fin, ops, logger.Discard())

			if err := h.Handle(context.Background(), message(t, tt.event)); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if len(ops.records) != 1 || ops.records[0].Type != tt.wantOperation {
				t.Fatalf("operations = %+v, want one %s", ops.records, tt.wantOperation)
			}
			op := ops.records[0]
			if op.BookingID != tt.event.BookingID || op.SeatID != tt.event.SeatID || op.PerformedBy != performedBy {
				t.Errorf("operation = %+v", op)
			}
			if !op.OccurredAt.Equal(tt.event.OccurredAt) {
				t.Errorf("OccurredAt = %v, want %v", op.OccurredAt, tt.event.OccurredAt)
			}

			if tt.wantFinancial == "" {
				if len(fin.records) != 0 {
					t.Errorf("financials = %+v, want none", fin.records)
				}
				return
			}
			if len(fin.records) != 1 {
				t.Fatalf("financials = %d, want 1", len(fin.records))
			}
			if fin.records[0].Type != tt.wantFinancial || fin.records[0].Amount != tt.event.Amount {
				t.Errorf("financial = %+v", fin.records[0])
			}
		})
	}
}

func netAmount(records []*model.FinancialRecord) float64 {
	var total float64
	for _, r := range records {
		switch r.Type {
		case model.FinancialIncome:
			total += r.Amount
		case model.FinancialRefund:
			total -= r.Amount
		}
	}
	return total
}

func TestHandle_NetFollowsBookingStatus(t *testing.T) {
	tests := []struct {
		name    string
		cycle   []string
		wantNet float64
	}{
		{"created", []string{events.BookingCreated}, 15},
		{"cancelled", []string{events.BookingCreated, events.BookingCancelled}, 0},
		{"reactivated", []string{events.BookingCreated, events.BookingCancelled, events.BookingReactivated}, 15},
		{
			name:    "cancelled twice",
			cycle:   []string{events.BookingCreated, events.BookingCancelled, events.BookingReactivated, events.BookingCancelled},
			wantNet: 0,
		},
		{"updates do not count", []string{events.BookingCreated, events.BookingUpdated, events.BookingUpdated}, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fin := &recorder[model.FinancialRecord]{}
			h := NewHandler(fin, &recorder[model.OperationRecord]{}, logger.Discard())

			for _, eventType := range tt.cycle {
				if err := h.Handle(context.Background(), message(t, event(eventType, 15))); err != nil {
					t.Fatalf("Handle(%s) error = %v", eventType, err)
				}
			}
			if got := netAmount(fin.records); got != tt.wantNet {
				t.Errorf("net = %v, want %v", got, tt.wantNet)
			}
		})
	}
}

func TestHandle_Failures(t *testing.T) {
	tests := []struct {
		name          string
		msg           kafka.Message
		opErr         error
		wantTransient bool
	}{
		{
			name:          "malformed payload",
			msg:           kafka.Message{Value: []byte("{not json")},
			wantTransient: false,
		},
		{
			name:          "storage timeout",
			opErr:         apperrors.Timeout("Failed to create operation record"),
			wantTransient: true,
		},
		{
			name:          "validation rejection",
			opErr:         apperrors.Validation("Operation record validation failed", nil),
			wantTransient: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.msg
			if msg.Value == nil {
				msg = message(t, event(events.BookingCreated, 10))
			}
			h := NewHandler(&recorder[model.FinancialRecord]{}, &recorder[model.OperationRecord]{err: tt.opErr}, logger.Discard())

			err := h.Handle(context.Background(), msg)
			if err == nil {
				t.Fatal("Handle() error = nil")
			}
			var kerr *kafka.KafkaError
			if !errors.As(err, &kerr) {
				t.Fatalf("error %T is not a KafkaError", err)
			}
			if kerr.IsTransient() != tt.wantTransient {
				t.Errorf("transient = %v, want %v", kerr.IsTransient(), tt.wantTransient)
			}
		})
	}
}

func TestHandle_UnknownEventIgnored(t *testing.T) {
	ops := &recorder[model.OperationRecord]{}
	h := NewHandler(&recorder[model.FinancialRecord]{}, ops, logger.Discard())
	if err := h.Handle(context.Background(), message(t, event("seat.painted", 1))); err != nil {
		t.Fatal(err)
	}
	if len(ops.records) != 0 {
		t.Errorf("operations = %d, want 0", len(ops.records))
	}
}
