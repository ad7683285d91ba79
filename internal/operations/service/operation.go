package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"studyhall/internal/ledger"
	operationserrors "studyhall/internal/operations/errors"
	"studyhall/internal/operations/repository"
	"studyhall/internal/operations/validator"
	"studyhall/pkg/config"
	apperrors "studyhall/pkg/errors"
	"studyhall/pkg/model"
	"studyhall/pkg/sanitizer"
	"studyhall/pkg/validation"
)

type OperationService interface {
	Create(ctx context.Context, record *model.OperationRecord) error
	GetByID(ctx context.Context, id string) (*model.OperationRecord, error)
	GetAll(ctx context.Context, filter model.LedgerFilter, limit int, offset int64) ([]*model.OperationRecord, int64, error)
	Update(ctx context.Context, id string, updates *model.OperationRecordUpdate) (*model.OperationRecord, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, filter model.LedgerFilter, bucket string) (*model.OperationSummary, error)
}

type operationService struct {
	repo      repository.OperationRepository
	validator *validator.OperationValidator
	cfg       *config.Config
}

func NewOperationService(
	repo repository.OperationRepository,
	validator *validator.OperationValidator,
	cfg *config.Config,
) OperationService {
	return &operationService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

var recordTypes = []string{
	model.OperationBookingCreated,
	model.OperationBookingUpdated,
	model.OperationBookingCancelled,
	model.OperationSeatStatus,
	model.OperationMaintenance,
	model.OperationCleaning,
	model.OperationOther,
}

func (s *operationService) Create(ctx context.Context, record *model.OperationRecord) error {
	record.ID = ""
	s.sanitize(record)
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	if err := s.validator.Validate(record); err != nil {
		s.cfg.Log.Warn("Operation record validation failed", "type", record.Type, "error", err)
		return validation.ToAppError("Operation record validation failed", err)
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return s.translate(err, "", "Failed to create operation record")
	}

	s.cfg.Log.Info("Operation record created",
		"id", record.ID,
		"type", record.Type,
		"seat_id", record.SeatID,
	)
	return nil
}

func (s *operationService) GetByID(ctx context.Context, id string) (*model.OperationRecord, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Operation record ID cannot be empty")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to retrieve operation record")
	}
	return record, nil
}

func (s *operationService) GetAll(ctx context.Context, filter model.LedgerFilter, limit int, offset int64) ([]*model.OperationRecord, int64, error) {
	if err := ledger.ValidateType(filter.Type, recordTypes...); err != nil {
		return nil, 0, err
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		count   int64
		records []*model.OperationRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ctx, cancel := context.WithTimeout(gctx, s.cfg.ReadTimeout)
		defer cancel()
		var err error
		count, err = s.repo.Count(ctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count operation records", "error", err)
			return apperrors.Internal("Failed to count operation records", err)
		}
		return nil
	})
	g.Go(func() error {
		ctx, cancel := context.WithTimeout(gctx, s.cfg.ReadTimeout)
		defer cancel()
		var err error
		records, err = s.repo.FindAll(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list operation records", "error", err)
			return apperrors.Internal("Failed to retrieve operation records", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return records, count, nil
}

func (s *operationService) Update(ctx context.Context, id string, updates *model.OperationRecordUpdate) (*model.OperationRecord, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Operation record ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, validation.ToAppError("Invalid update input", err)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to check operation record existence")
	}

	merged := *existing
	if updates.Type != "" {
		merged.Type = updates.Type
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.PerformedBy != nil {
		merged.PerformedBy = *updates.PerformedBy
	}
	if updates.OccurredAt != nil {
		merged.OccurredAt = *updates.OccurredAt
	}
	s.sanitize(&merged)

	if err := s.validator.Validate(&merged); err != nil {
		return nil, validation.ToAppError("Operation record validation failed", err)
	}
	if err := s.repo.Update(ctx, id, &merged); err != nil {
		return nil, s.translate(err, id, "Failed to update operation record")
	}

	s.cfg.Log.Info("Operation record updated", "id", id)
	return &merged, nil
}

func (s *operationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Operation record ID cannot be empty")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, id, "Failed to delete operation record")
	}
	s.cfg.Log.Info("Operation record deleted", "id", id)
	return nil
}

func (s *operationService) Summary(ctx context.Context, filter model.LedgerFilter, bucket string) (*model.OperationSummary, error) {
	if err := ledger.ValidateType(filter.Type, recordTypes...); err != nil {
		return nil, err
	}
	bucket, err := ledger.NormalizeBucket(bucket)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Summarize(ctx, filter, bucket)
	if err != nil {
		return nil, s.translate(err, "", "Failed to summarize operation records")
	}
	return summarize(rows, filter, bucket), nil
}

func summarize(rows []model.LedgerSummaryRow, filter model.LedgerFilter, bucket string) *model.OperationSummary {
	summary := &model.OperationSummary{
		Bucket: bucket,
		From:   filter.From,
		To:     filter.To,
		Rows:   rows,
		ByType: make(map[string]int64, len(recordTypes)),
	}
	for _, t := range recordTypes {
		summary.ByType[t] = 0
	}
	for i := range rows {
		rows[i].Amount = 0
		summary.ByType[rows[i].Type] += rows[i].Count
		summary.TotalCount += rows[i].Count
	}
	return summary
}

func (s *operationService) sanitize(record *model.OperationRecord) {
	record.Description = sanitizer.SanitizeText(record.Description)
	record.PerformedBy = sanitizer.SanitizeName(record.PerformedBy)
	if !record.OccurredAt.IsZero() {
		record.OccurredAt = record.OccurredAt.UTC()
	}
}

func (s *operationService) translate(err error, id, message string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, operationserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Operation record", id)
	case errors.Is(err, operationserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid operation record ID format")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout(message)
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}
