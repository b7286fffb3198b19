package units

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/syndik/syndik/internal/platform/httpx"
)

type memoryUnitRepo struct {
	units  map[int64]Unit
	nextID int64
	fail   error
}

func newMemoryUnitRepo() *memoryUnitRepo {
	return &memoryUnitRepo{units: map[int64]Unit{}, nextID: 1}
}

func (r *memoryUnitRepo) ListByOrg(ctx context.Context, orgID int64) ([]Unit, error) {
	var out []Unit
	for _, u := range r.units {
		out = append(out, u)
	}
	return out, nil
}

func (r *memoryUnitRepo) ListByBuilding(ctx context.Context, orgID, buildingID int64) ([]Unit, error) {
	var out []Unit
	for _, u := range r.units {
		if u.BuildingID == buildingID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memoryUnitRepo) Get(ctx context.Context, orgID, id int64) (*Unit, error) {
	u, ok := r.units[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &u, nil
}

func (r *memoryUnitRepo) Create(ctx context.Context, orgID int64, u Unit) (*Unit, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	u.ID = r.nextID
	r.nextID++
	r.units[u.ID] = u
	return &u, nil
}

func (r *memoryUnitRepo) Update(ctx context.Context, orgID, id int64, u Unit) error {
	if r.fail != nil {
		return r.fail
	}
	stored, ok := r.units[id]
	if !ok {
		return httpx.ErrNotFound
	}
	stored.Number = u.Number
	stored.Floor = u.Floor
	stored.MonthlyFee = u.MonthlyFee
	r.units[id] = stored
	return nil
}

func (r *memoryUnitRepo) SetOccupied(ctx context.Context, orgID, id int64, occupied bool) error {
	stored, ok := r.units[id]
	if !ok {
		return httpx.ErrNotFound
	}
	stored.Occupied = occupied
	r.units[id] = stored
	return nil
}

func (r *memoryUnitRepo) Delete(ctx context.Context, orgID, id int64) error {
	if _, ok := r.units[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.units, id)
	return nil
}

type recordingInvalidator struct {
	bumps int
}

func (i *recordingInvalidator) Invalidate(ctx context.Context) error {
	i.bumps++
	return nil
}

type rejectingQuota struct {
	err error
}

func (q rejectingQuota) CheckUnitQuota(ctx context.Context, orgID int64) error {
	return q.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(repo Repository, inv Invalidator) *Service {
	return NewService(testLogger(), repo, nil, inv)
}

func validUnit() Unit {
	return Unit{BuildingID: 10, Number: "A-1", Floor: 1, MonthlyFee: decimal.RequireFromString("100")}
}

func TestCreateBumpsBillingCache(t *testing.T) {
	inv := &recordingInvalidator{}
	svc := newTestService(newMemoryUnitRepo(), inv)

	created, err := svc.Create(context.Background(), 1, validUnit())
	require.NoError(t, err)
	require.NotNil(t, created)
	require.Equal(t, 1, inv.bumps)
}

func TestFeeChangeBumpsBillingCache(t *testing.T) {
	repo := newMemoryUnitRepo()
	inv := &recordingInvalidator{}
	svc := newTestService(repo, inv)

	created, err := svc.Create(context.Background(), 1, validUnit())
	require.NoError(t, err)

	updated := *created
	updated.MonthlyFee = decimal.RequireFromString("125.50")
	require.NoError(t, svc.Update(context.Background(), 1, created.ID, updated))
	require.Equal(t, 2, inv.bumps)
}

func TestVacancyBumpsBillingCache(t *testing.T) {
	repo := newMemoryUnitRepo()
	inv := &recordingInvalidator{}
	svc := newTestService(repo, inv)

	created, err := svc.Create(context.Background(), 1, validUnit())
	require.NoError(t, err)
	inv.bumps = 0

	require.NoError(t, svc.SetOccupied(context.Background(), 1, created.ID, false))
	require.Equal(t, 1, inv.bumps)

	require.NoError(t, svc.Delete(context.Background(), 1, created.ID))
	require.Equal(t, 2, inv.bumps)
}

func TestRepoFailureDoesNotBump(t *testing.T) {
	repo := newMemoryUnitRepo()
	repo.fail = errors.New("constraint violation")
	inv := &recordingInvalidator{}
	svc := newTestService(repo, inv)

	_, err := svc.Create(context.Background(), 1, validUnit())
	require.Error(t, err)
	require.Zero(t, inv.bumps)
}

func TestQuotaFailureDoesNotBump(t *testing.T) {
	quotaErr := errors.New("unit quota exceeded")
	inv := &recordingInvalidator{}
	svc := NewService(testLogger(), newMemoryUnitRepo(), rejectingQuota{err: quotaErr}, inv)

	_, err := svc.Create(context.Background(), 1, validUnit())
	require.ErrorIs(t, err, quotaErr)
	require.Zero(t, inv.bumps)
}

func TestValidationErrorsMapToBadRequest(t *testing.T) {
	svc := newTestService(newMemoryUnitRepo(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, Unit{BuildingID: 10, MonthlyFee: decimal.RequireFromString("100")})
	require.ErrorIs(t, err, httpx.ErrValidation)

	negative := validUnit()
	negative.MonthlyFee = decimal.RequireFromString("-1")
	_, err = svc.Create(ctx, 1, negative)
	require.ErrorIs(t, err, httpx.ErrValidation)

	require.ErrorIs(t, svc.Update(ctx, 1, 0, validUnit()), httpx.ErrValidation)
	require.ErrorIs(t, svc.Delete(ctx, 1, -5), httpx.ErrValidation)
}

func TestNilInvalidatorIsPassthrough(t *testing.T) {
	svc := newTestService(newMemoryUnitRepo(), nil)

	created, err := svc.Create(context.Background(), 1, validUnit())
	require.NoError(t, err)
	require.NoError(t, svc.SetOccupied(context.Background(), 1, created.ID, false))
}
