package units

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// QuotaChecker gates unit creation against the organization's plan.
type QuotaChecker interface {
	CheckUnitQuota(ctx context.Context, orgID int64) error
}

// Invalidator drops derived billing caches after unit writes. Missing
// payment queries read unit fees and occupancy, so every mutation here
// must bump the cache version.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service handles unit business logic.
type Service struct {
	logger      *slog.Logger
	repo        Repository
	quota       QuotaChecker
	invalidator Invalidator
}

// NewService builds a Service instance. invalidator may be nil.
func NewService(logger *slog.Logger, repo Repository, quota QuotaChecker, invalidator Invalidator) *Service {
	return &Service{logger: logger, repo: repo, quota: quota, invalidator: invalidator}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("invalidate missing-payment cache", slog.Any("error", err))
	}
}

func (s *Service) validate(u Unit) error {
	if strings.TrimSpace(u.Number) == "" {
		return fmt.Errorf("unit number is required: %w", httpx.ErrValidation)
	}
	if u.BuildingID <= 0 {
		return fmt.Errorf("building id is required: %w", httpx.ErrValidation)
	}
	if u.MonthlyFee.LessThan(decimal.Zero) {
		return fmt.Errorf("monthly fee must not be negative: %w", httpx.ErrValidation)
	}
	return nil
}

// ListByOrg returns every unit of the organization.
func (s *Service) ListByOrg(ctx context.Context, orgID int64) ([]Unit, error) {
	return s.repo.ListByOrg(ctx, orgID)
}

// ListByBuilding returns units of one building.
func (s *Service) ListByBuilding(ctx context.Context, orgID, buildingID int64) ([]Unit, error) {
	if buildingID <= 0 {
		return nil, fmt.Errorf("invalid building id: %w", httpx.ErrValidation)
	}
	return s.repo.ListByBuilding(ctx, orgID, buildingID)
}

// Get returns one unit.
func (s *Service) Get(ctx context.Context, orgID, id int64) (*Unit, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid unit id: %w", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, orgID, id)
}

// Create validates and inserts a unit, enforcing the plan quota.
func (s *Service) Create(ctx context.Context, orgID int64, u Unit) (*Unit, error) {
	if err := s.validate(u); err != nil {
		return nil, err
	}
	if s.quota != nil {
		if err := s.quota.CheckUnitQuota(ctx, orgID); err != nil {
			return nil, err
		}
	}
	created, err := s.repo.Create(ctx, orgID, u)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return created, nil
}

// Update validates and modifies a unit. The building link is immutable;
// moving a unit between buildings is not supported.
func (s *Service) Update(ctx context.Context, orgID, id int64, u Unit) error {
	if id <= 0 {
		return fmt.Errorf("invalid unit id: %w", httpx.ErrValidation)
	}
	if strings.TrimSpace(u.Number) == "" {
		return fmt.Errorf("unit number is required: %w", httpx.ErrValidation)
	}
	if u.MonthlyFee.LessThan(decimal.Zero) {
		return fmt.Errorf("monthly fee must not be negative: %w", httpx.ErrValidation)
	}
	if err := s.repo.Update(ctx, orgID, id, u); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// SetOccupied flips the occupancy flag.
func (s *Service) SetOccupied(ctx context.Context, orgID, id int64, occupied bool) error {
	if id <= 0 {
		return fmt.Errorf("invalid unit id: %w", httpx.ErrValidation)
	}
	if err := s.repo.SetOccupied(ctx, orgID, id, occupied); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a unit.
func (s *Service) Delete(ctx context.Context, orgID, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid unit id: %w", httpx.ErrValidation)
	}
	if err := s.repo.Delete(ctx, orgID, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
