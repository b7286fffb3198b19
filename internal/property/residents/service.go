package residents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/syndik/syndik/internal/platform/httpx"
)

// Invalidator drops derived billing caches after resident writes.
// Missing payment queries resolve the current occupant per unit, so a
// move-in, move-out or unlink must bump the cache version.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service handles resident business logic.
type Service struct {
	logger      *slog.Logger
	repo        Repository
	invalidator Invalidator
}

// NewService builds a Service instance. invalidator may be nil.
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

func (s *Service) validate(res Resident) error {
	if strings.TrimSpace(res.FirstName) == "" && strings.TrimSpace(res.LastName) == "" {
		return fmt.Errorf("resident name is required: %w", httpx.ErrValidation)
	}
	if res.UnitID != nil && *res.UnitID <= 0 {
		return fmt.Errorf("invalid unit id: %w", httpx.ErrValidation)
	}
	return nil
}

// List returns residents of the organization.
func (s *Service) List(ctx context.Context, orgID int64, activeOnly bool) ([]Resident, error) {
	return s.repo.List(ctx, orgID, activeOnly)
}

// ListByUnit returns residents linked to a unit, most recent move-in first.
func (s *Service) ListByUnit(ctx context.Context, orgID, unitID int64) ([]Resident, error) {
	if unitID <= 0 {
		return nil, fmt.Errorf("invalid unit id: %w", httpx.ErrValidation)
	}
	return s.repo.ListByUnit(ctx, orgID, unitID)
}

// Get returns one resident.
func (s *Service) Get(ctx context.Context, orgID, id int64) (*Resident, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid resident id: %w", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, orgID, id)
}

// Create validates and inserts a resident.
func (s *Service) Create(ctx context.Context, res Resident) (*Resident, error) {
	if err := s.validate(res); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, res)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return created, nil
}

// Update validates and modifies a resident.
func (s *Service) Update(ctx context.Context, orgID, id int64, res Resident) error {
	if id <= 0 {
		return fmt.Errorf("invalid resident id: %w", httpx.ErrValidation)
	}
	if err := s.validate(res); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, orgID, id, res); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a resident.
func (s *Service) Delete(ctx context.Context, orgID, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid resident id: %w", httpx.ErrValidation)
	}
	if err := s.repo.Delete(ctx, orgID, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
