package finance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// Invalidator drops derived query caches after income writes.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service implements income and expense business logic.
type Service struct {
	logger      *slog.Logger
	repo        Repository
	invalidator Invalidator
}

// NewService creates the finance service. invalidator may be nil.
func NewService(logger *slog.Logger, repo Repository, invalidator Invalidator) *Service {
	return &Service{logger: logger, repo: repo, invalidator: invalidator}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("invalidate missing-payment cache", slog.Any("error", err))
	}
}

func validPeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be 1-12: %w", httpx.ErrValidation)
	}
	if year < 2000 || year > 2100 {
		return fmt.Errorf("year must be within 2000-2100: %w", httpx.ErrValidation)
	}
	return nil
}

func validAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive: %w", httpx.ErrValidation)
	}
	return nil
}

// Incomes lists income records of one period.
func (s *Service) Incomes(ctx context.Context, orgID int64, month, year int) ([]Income, error) {
	if err := validPeriod(month, year); err != nil {
		return nil, err
	}
	return s.repo.ListIncomes(ctx, orgID, month, year)
}

// Income returns one income record.
func (s *Service) Income(ctx context.Context, orgID, id int64) (*Income, error) {
	return s.repo.GetIncome(ctx, orgID, id)
}

// RecordIncome validates and stores an income record.
func (s *Service) RecordIncome(ctx context.Context, in Income) (*Income, error) {
	if err := validPeriod(in.Month, in.Year); err != nil {
		return nil, err
	}
	if err := validAmount(in.Amount); err != nil {
		return nil, err
	}
	if in.Category == "" {
		in.Category = CategoryMonthlyFee
	}
	if in.ReceivedAt.IsZero() {
		in.ReceivedAt = time.Now().UTC()
	}
	created, err := s.repo.CreateIncome(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("record income: %w", err)
	}
	s.logger.Info("income recorded",
		slog.Int64("org_id", created.OrgID),
		slog.String("amount", created.Amount.String()),
		slog.Int("month", created.Month),
		slog.Int("year", created.Year))
	s.invalidate(ctx)
	return created, nil
}

// DeleteIncome removes an income record.
func (s *Service) DeleteIncome(ctx context.Context, orgID, id int64) error {
	if err := s.repo.DeleteIncome(ctx, orgID, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Expenses lists expense records of one period.
func (s *Service) Expenses(ctx context.Context, orgID int64, month, year int) ([]Expense, error) {
	if err := validPeriod(month, year); err != nil {
		return nil, err
	}
	return s.repo.ListExpenses(ctx, orgID, month, year)
}

// Expense returns one expense record.
func (s *Service) Expense(ctx context.Context, orgID, id int64) (*Expense, error) {
	return s.repo.GetExpense(ctx, orgID, id)
}

// RecordExpense validates and stores an expense record.
func (s *Service) RecordExpense(ctx context.Context, ex Expense) (*Expense, error) {
	if err := validPeriod(ex.Month, ex.Year); err != nil {
		return nil, err
	}
	if err := validAmount(ex.Amount); err != nil {
		return nil, err
	}
	if ex.Category == "" {
		ex.Category = CategoryOther
	}
	if ex.PaidAt.IsZero() {
		ex.PaidAt = time.Now().UTC()
	}
	created, err := s.repo.CreateExpense(ctx, ex)
	if err != nil {
		return nil, fmt.Errorf("record expense: %w", err)
	}
	s.logger.Info("expense recorded",
		slog.Int64("org_id", created.OrgID),
		slog.String("amount", created.Amount.String()),
		slog.Int("month", created.Month),
		slog.Int("year", created.Year))
	return created, nil
}

// DeleteExpense removes an expense record.
func (s *Service) DeleteExpense(ctx context.Context, orgID, id int64) error {
	return s.repo.DeleteExpense(ctx, orgID, id)
}

// Summary aggregates one billing period.
func (s *Service) Summary(ctx context.Context, orgID int64, month, year int) (*MonthlySummary, error) {
	if err := validPeriod(month, year); err != nil {
		return nil, err
	}
	return s.repo.MonthlySummary(ctx, orgID, month, year)
}
