package model

import "time"

const (
	FinancialIncome  = "income"
	FinancialExpense = "expense"
	FinancialRefund  = "refund"
	FinancialDeposit = "deposit"

	OperationBookingCreated   = "booking_created"
	OperationBookingUpdated   = "booking_updated"
	OperationBookingCancelled = "booking_cancelled"
	OperationSeatStatus       = "seat_status_changed"
	OperationMaintenance      = "maintenance"
	OperationCleaning         = "cleaning"
	OperationOther            = "other"

	BucketDay   = "day"
	BucketWeek  = "week"
	BucketMonth = "month"
)

type FinancialRecord struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Type        string    `json:"type" bson:"type" validate:"required,oneof=income expense refund deposit"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty" validate:"omitempty,max=50"`
	Amount      float64   `json:"amount" bson:"amount" validate:"required,gt=0"`
	BookingID   string    `json:"booking_id,omitempty" bson:"booking_id,omitempty" validate:"omitempty,mongodb"`
	SeatID      string    `json:"seat_id,omitempty" bson:"seat_id,omitempty" validate:"omitempty,mongodb"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	OccurredAt  time.Time `json:"occurred_at" bson:"occurred_at"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type FinancialRecordUpdate struct {
	Type        string     `json:"type,omitempty" validate:"omitempty,oneof=income expense refund deposit"`
	Category    *string    `json:"category,omitempty" validate:"omitempty,max=50"`
	Amount      *float64   `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

type OperationRecord struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Type        string    `json:"type" bson:"type" validate:"required,oneof=booking_created booking_updated booking_cancelled seat_status_changed maintenance cleaning other"`
	Description string    `json:"description" bson:"description" validate:"required,min=1,max=500"`
	SeatID      string    `json:"seat_id,omitempty" bson:"seat_id,omitempty" validate:"omitempty,mongodb"`
	BookingID   string    `json:"booking_id,omitempty" bson:"booking_id,omitempty" validate:"omitempty,mongodb"`
	PerformedBy string    `json:"performed_by,omitempty" bson:"performed_by,omitempty" validate:"omitempty,max=64"`
	OccurredAt  time.Time `json:"occurred_at" bson:"occurred_at"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type OperationRecordUpdate struct {
	Type        string     `json:"type,omitempty" validate:"omitempty,oneof=booking_created booking_updated booking_cancelled seat_status_changed maintenance cleaning other"`
	Description *string    `json:"description,omitempty" validate:"omitempty,min=1,max=500"`
	PerformedBy *string    `json:"performed_by,omitempty" validate:"omitempty,max=64"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

type LedgerFilter struct {
	Type string
	From *time.Time
	To   *time.Time
}

// LedgerSummaryRow is one (period, type) group of a ledger summary.
type LedgerSummaryRow struct {
	Period string  `json:"period" bson:"period"`
	Type   string  `json:"type" bson:"type"`
	Count  int64   `json:"count" bson:"count"`
	Amount float64 `json:"amount,omitempty" bson:"amount"`
}

type LedgerTypeTotal struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount,omitempty"`
}

type FinancialSummary struct {
	Bucket      string                     `json:"bucket"`
	From        *time.Time                 `json:"from,omitempty"`
	To          *time.Time                 `json:"to,omitempty"`
	Rows        []LedgerSummaryRow         `json:"rows"`
	ByType      map[string]LedgerTypeTotal `json:"by_type"`
	TotalCount  int64                      `json:"total_count"`
	TotalAmount float64                    `json:"total_amount"`
	Net         float64                    `json:"net"`
}

type OperationSummary struct {
	Bucket     string             `json:"bucket"`
	From       *time.Time         `json:"from,omitempty"`
	To         *time.Time         `json:"to,omitempty"`
	Rows       []LedgerSummaryRow `json:"rows"`
	ByType     map[string]int64   `json:"by_type"`
	TotalCount int64              `json:"total_count"`
}
