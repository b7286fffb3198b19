package orgs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/syndik/syndik/internal/rbac"
)

// RepositoryPort defines data access methods for organizations.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (*Organization, error)
	Update(ctx context.Context, id int64, name string) error
	ListMembers(ctx context.Context, orgID int64) ([]Member, error)
	AddMember(ctx context.Context, orgID, userID int64, role string) error
	UpdateMemberRole(ctx context.Context, orgID, userID int64, role string) error
	RemoveMember(ctx context.Context, orgID, userID int64) error
	Usage(ctx context.Context, orgID int64) (buildings, units, members int, err error)
}

// ErrQuotaExceeded indicates the organization's plan limit was reached.
var ErrQuotaExceeded = errors.New("orgs: plan quota exceeded")

// Service handles organization business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Get returns the organization.
func (s *Service) Get(ctx context.Context, id int64) (*Organization, error) {
	return s.repo.Get(ctx, id)
}

// Rename updates the organization name.
func (s *Service) Rename(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("organization name is required")
	}
	return s.repo.Update(ctx, id, name)
}

// Members lists all members.
func (s *Service) Members(ctx context.Context, orgID int64) ([]Member, error) {
	return s.repo.ListMembers(ctx, orgID)
}

// AddMember adds a user with the given role, enforcing the member quota.
func (s *Service) AddMember(ctx context.Context, orgID, userID int64, role string) error {
	if !validRole(role) {
		return fmt.Errorf("invalid role %q", role)
	}
	org, err := s.repo.Get(ctx, orgID)
	if err != nil {
		return err
	}
	_, _, members, err := s.repo.Usage(ctx, orgID)
	if err != nil {
		return err
	}
	if members >= LimitsForPlan(org.Plan).MaxMembers {
		return fmt.Errorf("%w: member limit %d reached on plan %s",
			ErrQuotaExceeded, LimitsForPlan(org.Plan).MaxMembers, org.Plan)
	}
	return s.repo.AddMember(ctx, orgID, userID, role)
}

// ChangeRole updates a member's role.
func (s *Service) ChangeRole(ctx context.Context, orgID, userID int64, role string) error {
	if !validRole(role) {
		return fmt.Errorf("invalid role %q", role)
	}
	return s.repo.UpdateMemberRole(ctx, orgID, userID, role)
}

// RemoveMember deletes a membership.
func (s *Service) RemoveMember(ctx context.Context, orgID, userID int64) error {
	return s.repo.RemoveMember(ctx, orgID, userID)
}

// CheckBuildingQuota returns ErrQuotaExceeded when the organization cannot
// add another building under its plan.
func (s *Service) CheckBuildingQuota(ctx context.Context, orgID int64) error {
	org, err := s.repo.Get(ctx, orgID)
	if err != nil {
		return err
	}
	buildings, _, _, err := s.repo.Usage(ctx, orgID)
	if err != nil {
		return err
	}
	limits := LimitsForPlan(org.Plan)
	if buildings >= limits.MaxBuildings {
		return fmt.Errorf("%w: building limit %d reached on plan %s",
			ErrQuotaExceeded, limits.MaxBuildings, org.Plan)
	}
	return nil
}

// CheckUnitQuota returns ErrQuotaExceeded when the organization cannot add
// another unit under its plan.
func (s *Service) CheckUnitQuota(ctx context.Context, orgID int64) error {
	org, err := s.repo.Get(ctx, orgID)
	if err != nil {
		return err
	}
	_, units, _, err := s.repo.Usage(ctx, orgID)
	if err != nil {
		return err
	}
	limits := LimitsForPlan(org.Plan)
	if units >= limits.MaxUnits {
		return fmt.Errorf("%w: unit limit %d reached on plan %s",
			ErrQuotaExceeded, limits.MaxUnits, org.Plan)
	}
	return nil
}

func validRole(role string) bool {
	switch role {
	case rbac.RoleAdmin, rbac.RoleManager, rbac.RoleMember:
		return true
	}
	return false
}
