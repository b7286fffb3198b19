package residents

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syndik/syndik/internal/platform/httpx"
)

type memoryResidentRepo struct {
	residents map[int64]Resident
	nextID    int64
}

func newMemoryResidentRepo() *memoryResidentRepo {
	return &memoryResidentRepo{residents: map[int64]Resident{}, nextID: 1}
}

func (r *memoryResidentRepo) List(ctx context.Context, orgID int64, activeOnly bool) ([]Resident, error) {
	var out []Resident
	for _, res := range r.residents {
		if activeOnly && !res.IsActive {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *memoryResidentRepo) ListByUnit(ctx context.Context, orgID, unitID int64) ([]Resident, error) {
	var out []Resident
	for _, res := range r.residents {
		if res.UnitID != nil && *res.UnitID == unitID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *memoryResidentRepo) Get(ctx context.Context, orgID, id int64) (*Resident, error) {
	res, ok := r.residents[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &res, nil
}

func (r *memoryResidentRepo) Create(ctx context.Context, res Resident) (*Resident, error) {
	res.ID = r.nextID
	r.nextID++
	r.residents[res.ID] = res
	return &res, nil
}

func (r *memoryResidentRepo) Update(ctx context.Context, orgID, id int64, res Resident) error {
	if _, ok := r.residents[id]; !ok {
		return httpx.ErrNotFound
	}
	res.ID = id
	r.residents[id] = res
	return nil
}

func (r *memoryResidentRepo) Delete(ctx context.Context, orgID, id int64) error {
	if _, ok := r.residents[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.residents, id)
	return nil
}

type recordingInvalidator struct {
	bumps int
}

func (i *recordingInvalidator) Invalidate(ctx context.Context) error {
	i.bumps++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMoveOutBumpsBillingCache(t *testing.T) {
	repo := newMemoryResidentRepo()
	inv := &recordingInvalidator{}
	svc := NewService(testLogger(), repo, inv)
	ctx := context.Background()

	unitID := int64(7)
	created, err := svc.Create(ctx, Resident{OrgID: 1, FirstName: "Nadia", LastName: "Alaoui", UnitID: &unitID, IsActive: true})
	require.NoError(t, err)
	require.Equal(t, 1, inv.bumps)

	movedOut := *created
	movedOut.IsActive = false
	movedOut.UnitID = nil
	require.NoError(t, svc.Update(ctx, 1, created.ID, movedOut))
	require.Equal(t, 2, inv.bumps)

	require.NoError(t, svc.Delete(ctx, 1, created.ID))
	require.Equal(t, 3, inv.bumps)
}

func TestValidationDoesNotBump(t *testing.T) {
	inv := &recordingInvalidator{}
	svc := NewService(testLogger(), newMemoryResidentRepo(), inv)

	_, err := svc.Create(context.Background(), Resident{OrgID: 1})
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Zero(t, inv.bumps)

	badUnit := int64(-1)
	_, err = svc.Create(context.Background(), Resident{OrgID: 1, FirstName: "Nadia", UnitID: &badUnit})
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Zero(t, inv.bumps)
}

func TestNilInvalidatorIsPassthrough(t *testing.T) {
	svc := NewService(testLogger(), newMemoryResidentRepo(), nil)

	created, err := svc.Create(context.Background(), Resident{OrgID: 1, FirstName: "Nadia"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), 1, created.ID))
}
