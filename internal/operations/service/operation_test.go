package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhall/internal/operations/validator"
	"studyhall/pkg/config"
	apperrors "studyhall/pkg/errors"
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
)

type mockOperationRepository struct {
	created       []*model.OperationRecord
	countFunc     func(ctx context.Context, filter model.LedgerFilter) (int64, error)
	summarizeRows []model.LedgerSummaryRow
}

func (m *mockOperationRepository) Create(ctx context.Context, record *model.OperationRecord) error {
	record.ID = "65f000000000000000000004"
	m.created = append(m.created, record)
	return nil
}

func (m *mockOperationRepository) FindByID(ctx context.Context, id string) (*model.OperationRecord, error) {
	return &model.OperationRecord{ID: id, Type: model.OperationCleaning, Description: "Daily clean"}, nil
}

func (m *mockOperationRepository) FindAll(ctx context.Context, filter model.LedgerFilter, limit int, offset int64) ([]*model.OperationRecord, error) {
	return []*model.OperationRecord{}, nil
}

func (m *mockOperationRepository) Count(ctx context.Context, filter model.LedgerFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockOperationRepository) Update(ctx context.Context, id string, record *model.OperationRecord) error {
	return nil
}

func (m *mockOperationRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockOperationRepository) Summarize(ctx context.Context, filter model.LedgerFilter, bucket string) ([]model.LedgerSummaryRow, error) {
	return m.summarizeRows, nil
}

func newService(repo *mockOperationRepository) OperationService {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	cfg := &config.Config{Log: log, ReadTimeout: 5 * time.Second}
	return NewOperationService(repo, validator.NewOperationValidator(log), cfg)
}

func TestCreate(t *testing.T) {
	repo := &mockOperationRepository{}
	svc := newService(repo)

	record := &model.OperationRecord{Type: model.OperationMaintenance, Description: "  Replaced   lamp  ", PerformedBy: " Dana "}
	require.NoError(t, svc.Create(context.Background(), record))
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Replaced lamp", repo.created[0].Description)
	assert.Equal(t, "Dana", repo.created[0].PerformedBy)
	assert.False(t, repo.created[0].OccurredAt.IsZero())

	err := svc.Create(context.Background(), &model.OperationRecord{Type: model.OperationOther})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "missing description: %v", err)

	err = svc.Create(context.Background(), &model.OperationRecord{Type: "party", Description: "x"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "unknown type: %v", err)
}

func TestUpdate_KeepsUnchangedFields(t *testing.T) {
	svc := newService(&mockOperationRepository{})
	by := "Noa"
	updated, err := svc.Update(context.Background(), "65f000000000000000000004", &model.OperationRecordUpdate{PerformedBy: &by})
	require.NoError(t, err)
	assert.Equal(t, "Noa", updated.PerformedBy)
	assert.Equal(t, model.OperationCleaning, updated.Type)
	assert.Equal(t, "Daily clean", updated.Description)
}

func TestGetAll_Errors(t *testing.T) {
	svc := newService(&mockOperationRepository{
		countFunc: func(ctx context.Context, filter model.LedgerFilter) (int64, error) {
			return 0, errors.New("down")
		},
	})

	_, _, err := svc.GetAll(context.Background(), model.LedgerFilter{}, 10, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))

	_, _, err = svc.GetAll(context.Background(), model.LedgerFilter{Type: "income"}, 10, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestSummary(t *testing.T) {
	svc := newService(&mockOperationRepository{
		summarizeRows: []model.LedgerSummaryRow{
			{Period: "2026-W10", Type: model.OperationBookingCreated, Count: 4},
			{Period: "2026-W10", Type: model.OperationCleaning, Count: 2},
			{Period: "2026-W11", Type: model.OperationBookingCreated, Count: 1},
		},
	})

	summary, err := svc.Summary(context.Background(), model.LedgerFilter{}, model.BucketWeek)
	require.NoError(t, err)
	assert.Equal(t, model.BucketWeek, summary.Bucket)
	assert.Equal(t, int64(7), summary.TotalCount)
	assert.Equal(t, int64(5), summary.ByType[model.OperationBookingCreated])
	assert.Equal(t, int64(0), summary.ByType[model.OperationMaintenance])
}
