package rbac

import (
	"context"
	"fmt"
	"strings"
)

// MembershipLookup resolves a user's role within an organization.
type MembershipLookup interface {
	RoleFor(ctx context.Context, orgID, userID int64) (string, error)
}

// Service resolves effective permissions from organization membership.
type Service struct {
	memberships MembershipLookup
}

// NewService constructs a Service.
func NewService(memberships MembershipLookup) *Service {
	return &Service{memberships: memberships}
}

// EffectivePermissions returns the permission set the user holds in the
// organization.
func (s *Service) EffectivePermissions(ctx context.Context, orgID, userID int64) (map[string]struct{}, error) {
	role, err := s.memberships.RoleFor(ctx, orgID, userID)
	if err != nil {
		return nil, fmt.Errorf("rbac: resolve role: %w", err)
	}
	return PermissionsForRole(role), nil
}

func normalizePermissions(perms []string) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func hasAnyPermission(granted map[string]struct{}, required []string) bool {
	for _, p := range required {
		if _, ok := granted[p]; ok {
			return true
		}
	}
	return false
}

func hasAllPermissions(granted map[string]struct{}, required []string) bool {
	for _, p := range required {
		if _, ok := granted[p]; !ok {
			return false
		}
	}
	return true
}
