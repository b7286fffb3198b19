package buildings

import (
	"context"
	"errors"
	"strings"
)

// QuotaChecker gates building creation against the organization's plan.
type QuotaChecker interface {
	CheckBuildingQuota(ctx context.Context, orgID int64) error
}

// Service handles building business logic.
type Service struct {
	repo  Repository
	quota QuotaChecker
}

// NewService builds a Service instance.
func NewService(repo Repository, quota QuotaChecker) *Service {
	return &Service{repo: repo, quota: quota}
}

func (s *Service) validate(b Building) error {
	if strings.TrimSpace(b.Name) == "" {
		return errors.New("building name is required")
	}
	if strings.TrimSpace(b.Address) == "" {
		return errors.New("building address is required")
	}
	return nil
}

// List returns all buildings of the organization.
func (s *Service) List(ctx context.Context, orgID int64) ([]Building, error) {
	return s.repo.List(ctx, orgID)
}

// Get returns one building.
func (s *Service) Get(ctx context.Context, orgID, id int64) (*Building, error) {
	if id <= 0 {
		return nil, errors.New("invalid building id")
	}
	return s.repo.Get(ctx, orgID, id)
}

// Create validates and inserts a building, enforcing the plan quota.
func (s *Service) Create(ctx context.Context, b Building) (*Building, error) {
	if err := s.validate(b); err != nil {
		return nil, err
	}
	if s.quota != nil {
		if err := s.quota.CheckBuildingQuota(ctx, b.OrgID); err != nil {
			return nil, err
		}
	}
	return s.repo.Create(ctx, b)
}

// Update validates and modifies a building.
func (s *Service) Update(ctx context.Context, orgID, id int64, b Building) error {
	if id <= 0 {
		return errors.New("invalid building id")
	}
	if err := s.validate(b); err != nil {
		return err
	}
	return s.repo.Update(ctx, orgID, id, b)
}

// Delete removes a building.
func (s *Service) Delete(ctx context.Context, orgID, id int64) error {
	if id <= 0 {
		return errors.New("invalid building id")
	}
	return s.repo.Delete(ctx, orgID, id)
}
