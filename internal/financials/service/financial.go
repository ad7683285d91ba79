package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	financialserrors "studyhall/internal/financials/errors"
	"studyhall/internal/financials/repository"
	"studyhall/internal/financials/validator"
	"studyhall/internal/ledger"
	"studyhall/pkg/config"
	apperrors "studyhall/pkg/errors"
	"studyhall/pkg/model"
	"studyhall/pkg/sanitizer"
	"studyhall/pkg/validation"
)

type FinancialService interface {
	Create(ctx context.Context, record *model.FinancialRecord) error
	GetByID(ctx context.Context, id string) (*model.FinancialRecord, error)
	GetAll(ctx context.Context, filter model.LedgerFilter, limit int, offset int64) ([]*model.FinancialRecord, int64, error)
	Update(ctx context.Context, id string, updates *model.FinancialRecordUpdate) (*model.FinancialRecord, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, filter model.LedgerFilter, bucket string) (*model.FinancialSummary, error)
}

type financialService struct {
	repo      repository.FinancialRepository
	validator *validator.FinancialValidator
	cfg       *config.Config
}

func NewFinancialService(
	repo repository.FinancialRepository,
	validator *validator.FinancialValidator,
	cfg *config.Config,
) FinancialService {
	return &financialService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

var recordTypes = []string{
	model.FinancialIncome,
	model.FinancialExpense,
	model.FinancialRefund,
	model.FinancialDeposit,
}

func (s *financialService) Create(ctx context.Context, record *model.FinancialRecord) error {
	record.ID = ""
	s.sanitize(record)
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	if err := s.validator.Validate(record); err != nil {
		s.cfg.Log.Warn("Financial record validation failed", "type", record.Type, "error", err)
		return validation.ToAppError("Financial record validation failed", err)
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return s.translate(err, "", "Failed to create financial record")
	}

	s.cfg.Log.Info("Financial record created",
		"id", record.ID,
		"type", record.Type,
		"amount", record.Amount,
		"booking_id", record.BookingID,
	)
	return nil
}

func (s *financialService) GetByID(ctx context.Context, id string) (*model.FinancialRecord, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Financial record ID cannot be empty")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to retrieve financial record")
	}
	return record, nil
}

func (s *financialService) GetAll(ctx context.Context, filter model.LedgerFilter, limit int, offset int64) ([]*model.FinancialRecord, int64, error) {
	if err := ledger.ValidateType(filter.Type, recordTypes...); err != nil {
		return nil, 0, err
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		count   int64
		records []*model.FinancialRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ctx, cancel := context.WithTimeout(gctx, s.cfg.ReadTimeout)
		defer cancel()
		var err error
		count, err = s.repo.Count(ctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count financial records", "error", err)
			return apperrors.Internal("Failed to count financial records", err)
		}
		return nil
	})
	g.Go(func() error {
		ctx, cancel := context.WithTimeout(gctx, s.cfg.ReadTimeout)
		defer cancel()
		var err error
		records, err = s.repo.FindAll(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list financial records", "error", err)
			return apperrors.Internal("Failed to retrieve financial records", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return records, count, nil
}

func (s *financialService) Update(ctx context.Context, id string, updates *model.FinancialRecordUpdate) (*model.FinancialRecord, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Financial record ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, validation.ToAppError("Invalid update input", err)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to check financial record existence")
	}

	merged := *existing
	if updates.Type != "" {
		merged.Type = updates.Type
	}
	if updates.Category != nil {
		merged.Category = *updates.Category
	}
	if updates.Amount != nil {
		merged.Amount = *updates.Amount
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.OccurredAt != nil {
		merged.OccurredAt = updates.OccurredAt.UTC()
	}
	s.sanitize(&merged)

	if err := s.validator.Validate(&merged); err != nil {
		return nil, validation.ToAppError("Financial record validation failed", err)
	}
	if err := s.repo.Update(ctx, id, &merged); err != nil {
		return nil, s.translate(err, id, "Failed to update financial record")
	}

	s.cfg.Log.Info("Financial record updated", "id", id)
	return &merged, nil
}

func (s *financialService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Financial record ID cannot be empty")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, id, "Failed to delete financial record")
	}
	s.cfg.Log.Info("Financial record deleted", "id", id)
	return nil
}

func (s *financialService) Summary(ctx context.Context, filter model.LedgerFilter, bucket string) (*model.FinancialSummary, error) {
	if err := ledger.ValidateType(filter.Type, recordTypes...); err != nil {
		return nil, err
	}
	bucket, err := ledger.NormalizeBucket(bucket)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Summarize(ctx, filter, bucket)
	if err != nil {
		return nil, s.translate(err, "", "Failed to summarize financial records")
	}
	return summarize(rows, filter, bucket), nil
}

// summarize totals the rows and computes net as money in (income and
// deposits) minus money out (expenses and refunds).
func summarize(rows []model.LedgerSummaryRow, filter model.LedgerFilter, bucket string) *model.FinancialSummary {
	summary := &model.FinancialSummary{
		Bucket: bucket,
		From:   filter.From,
		To:     filter.To,
		Rows:   rows,
		ByType: make(map[string]model.LedgerTypeTotal, len(recordTypes)),
	}
	for _, t := range recordTypes {
		summary.ByType[t] = model.LedgerTypeTotal{}
	}

	for _, row := range rows {
		total := summary.ByType[row.Type]
		total.Count += row.Count
		total.Amount += row.Amount
		summary.ByType[row.Type] = total

		summary.TotalCount += row.Count
		summary.TotalAmount += row.Amount
		switch row.Type {
		case model.FinancialIncome, model.FinancialDeposit:
			summary.Net += row.Amount
		case model.FinancialExpense, model.FinancialRefund:
			summary.Net -= row.Amount
		}
	}
	return summary
}

func (s *financialService) sanitize(record *model.FinancialRecord) {
	record.Category = sanitizer.SanitizeLabel(record.Category)
	record.Description = sanitizer.SanitizeText(record.Description)
	if !record.OccurredAt.IsZero() {
		record.OccurredAt = record.OccurredAt.UTC()
	}
}

func (s *financialService) translate(err error, id, message string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, financialserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Financial record", id)
	case errors.Is(err, financialserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid financial record ID format")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout(message)
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}
