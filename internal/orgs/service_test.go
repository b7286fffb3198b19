package orgs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syndik/syndik/internal/rbac"
)

type memoryOrgRepo struct {
	org       *Organization
	members   []Member
	buildings int
	units     int
}

func (r *memoryOrgRepo) Get(ctx context.Context, id int64) (*Organization, error) {
	return r.org, nil
}

func (r *memoryOrgRepo) Update(ctx context.Context, id int64, name string) error {
	r.org.Name = name
	return nil
}

func (r *memoryOrgRepo) ListMembers(ctx context.Context, orgID int64) ([]Member, error) {
	return r.members, nil
}

func (r *memoryOrgRepo) AddMember(ctx context.Context, orgID, userID int64, role string) error {
	r.members = append(r.members, Member{UserID: userID, Role: role})
	return nil
}

func (r *memoryOrgRepo) UpdateMemberRole(ctx context.Context, orgID, userID int64, role string) error {
	for i := range r.members {
		if r.members[i].UserID == userID {
			r.members[i].Role = role
		}
	}
	return nil
}

func (r *memoryOrgRepo) RemoveMember(ctx context.Context, orgID, userID int64) error {
	return nil
}

func (r *memoryOrgRepo) Usage(ctx context.Context, orgID int64) (int, int, int, error) {
	return r.buildings, r.units, len(r.members), nil
}

func freeOrgRepo() *memoryOrgRepo {
	return &memoryOrgRepo{org: &Organization{ID: 1, Name: "Residence Atlas", Plan: PlanFree}}
}

func TestAddMemberWithinQuota(t *testing.T) {
	repo := freeOrgRepo()
	svc := NewService(repo)

	err := svc.AddMember(context.Background(), 1, 7, rbac.RoleMember)
	require.NoError(t, err)
	require.Len(t, repo.members, 1)
}

func TestAddMemberQuotaExceeded(t *testing.T) {
	repo := freeOrgRepo()
	limit := LimitsForPlan(PlanFree).MaxMembers
	for i := 0; i < limit; i++ {
		repo.members = append(repo.members, Member{UserID: int64(i + 1), Role: rbac.RoleMember})
	}
	svc := NewService(repo)

	err := svc.AddMember(context.Background(), 1, 99, rbac.RoleMember)
	require.ErrorIs(t, err, ErrQuotaExceeded)
	require.Len(t, repo.members, limit)
}

func TestAddMemberRejectsUnknownRole(t *testing.T) {
	svc := NewService(freeOrgRepo())

	err := svc.AddMember(context.Background(), 1, 7, "owner")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid role")
}

func TestCheckBuildingQuota(t *testing.T) {
	repo := freeOrgRepo()
	svc := NewService(repo)

	require.NoError(t, svc.CheckBuildingQuota(context.Background(), 1))

	repo.buildings = LimitsForPlan(PlanFree).MaxBuildings
	require.ErrorIs(t, svc.CheckBuildingQuota(context.Background(), 1), ErrQuotaExceeded)
}

func TestCheckUnitQuotaPremium(t *testing.T) {
	repo := freeOrgRepo()
	repo.org.Plan = PlanPremium
	repo.units = LimitsForPlan(PlanFree).MaxUnits
	svc := NewService(repo)

	// The free-plan ceiling does not bind a premium org.
	require.NoError(t, svc.CheckUnitQuota(context.Background(), 1))

	repo.units = LimitsForPlan(PlanPremium).MaxUnits
	require.ErrorIs(t, svc.CheckUnitQuota(context.Background(), 1), ErrQuotaExceeded)
}

func TestLimitsForUnknownPlanFallsBackToFree(t *testing.T) {
	require.Equal(t, LimitsForPlan(PlanFree), LimitsForPlan("enterprise"))
}

func TestRenameRequiresName(t *testing.T) {
	svc := NewService(freeOrgRepo())
	require.Error(t, svc.Rename(context.Background(), 1, "   "))
	require.NoError(t, svc.Rename(context.Background(), 1, "Residence Horizon"))
}
