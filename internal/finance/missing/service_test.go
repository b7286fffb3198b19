package missing

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type memoryMissingRepo struct {
	billed []BilledUnit
	paid   map[int64]struct{}
}

func (r *memoryMissingRepo) BilledUnits(ctx context.Context, orgID int64) ([]BilledUnit, error) {
	return r.billed, nil
}

func (r *memoryMissingRepo) PaidUnitIDs(ctx context.Context, orgID int64, month, year int) (map[int64]struct{}, error) {
	return r.paid, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fee(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func threeUnitRepo() *memoryMissingRepo {
	return &memoryMissingRepo{
		billed: []BilledUnit{
			{UnitID: 1, UnitNumber: "A", BuildingID: 10, BuildingName: "North", MonthlyFee: fee("100"), ResidentID: 101, ResidentName: "Alma Haddad"},
			{UnitID: 2, UnitNumber: "B", BuildingID: 10, BuildingName: "North", MonthlyFee: fee("150"), ResidentID: 102, ResidentName: "Bilal Cherki"},
			{UnitID: 3, UnitNumber: "C", BuildingID: 10, BuildingName: "North", MonthlyFee: fee("200"), ResidentID: 103, ResidentName: "Chaima Rifai"},
		},
		paid: map[int64]struct{}{1: {}},
	}
}

func newTestService(repo Repository) *Service {
	svc := NewService(testLogger(), repo, NewCache(nil, 0))
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestMissingPaymentsSetDifference(t *testing.T) {
	svc := newTestService(threeUnitRepo())

	set, err := svc.MissingPayments(context.Background(), 1, 6, 2025)
	require.NoError(t, err)
	require.Equal(t, 2, set.TotalMissing)
	require.Len(t, set.Units, 2)
	require.Equal(t, "B", set.Units[0].UnitNumber)
	require.Equal(t, "C", set.Units[1].UnitNumber)
	require.True(t, set.TotalExpectedAmount.Equal(fee("350")))
}

func TestMissingPaymentsEmptyWhenNoBilledUnits(t *testing.T) {
	svc := newTestService(&memoryMissingRepo{paid: map[int64]struct{}{}})

	set, err := svc.MissingPayments(context.Background(), 1, 6, 2025)
	require.NoError(t, err)
	require.Equal(t, 0, set.TotalMissing)
	require.Empty(t, set.Units)
	require.True(t, set.TotalExpectedAmount.IsZero())
}

func TestMissingPaymentsAllPaid(t *testing.T) {
	repo := threeUnitRepo()
	repo.paid = map[int64]struct{}{1: {}, 2: {}, 3: {}}
	svc := newTestService(repo)

	set, err := svc.MissingPayments(context.Background(), 1, 6, 2025)
	require.NoError(t, err)
	require.Equal(t, 0, set.TotalMissing)
	require.True(t, set.TotalExpectedAmount.IsZero())
}

func TestMissingPaymentsPartialPaymentCounts(t *testing.T) {
	// The coverage signal is presence, not amount. Unit A paid a
	// fraction of the fee and is still excluded from the missing set.
	svc := newTestService(threeUnitRepo())

	set, err := svc.MissingPayments(context.Background(), 1, 6, 2025)
	require.NoError(t, err)
	for _, mu := range set.Units {
		require.NotEqual(t, int64(1), mu.UnitID)
	}
}

func TestMissingPaymentsDecimalSumExact(t *testing.T) {
	repo := &memoryMissingRepo{paid: map[int64]struct{}{}}
	for i := int64(1); i <= 10; i++ {
		repo.billed = append(repo.billed, BilledUnit{
			UnitID: i, UnitNumber: "U", MonthlyFee: fee("0.10"), ResidentID: i,
		})
	}
	svc := newTestService(repo)

	set, err := svc.MissingPayments(context.Background(), 1, 6, 2025)
	require.NoError(t, err)
	require.True(t, set.TotalExpectedAmount.Equal(fee("1.00")),
		"expected 1.00, got %s", set.TotalExpectedAmount)
}

func TestMissingPaymentsIdempotent(t *testing.T) {
	svc := newTestService(threeUnitRepo())

	first, err := svc.MissingPayments(context.Background(), 1, 6, 2025)
	require.NoError(t, err)
	second, err := svc.MissingPayments(context.Background(), 1, 6, 2025)
	require.NoError(t, err)

	require.Equal(t, first.TotalMissing, second.TotalMissing)
	require.True(t, first.TotalExpectedAmount.Equal(second.TotalExpectedAmount))
	require.Equal(t, len(first.Units), len(second.Units))
	for i := range first.Units {
		require.Equal(t, first.Units[i].UnitID, second.Units[i].UnitID)
	}
}

func TestMissingPaymentsDaysOverdue(t *testing.T) {
	svc := newTestService(threeUnitRepo())

	set, err := svc.MissingPayments(context.Background(), 1, 6, 2025)
	require.NoError(t, err)
	for _, mu := range set.Units {
		require.Equal(t, 14, mu.DaysOverdue)
	}
}

func TestMissingPaymentsFutureDueDateClamped(t *testing.T) {
	svc := newTestService(threeUnitRepo())

	set, err := svc.MissingPayments(context.Background(), 1, 12, 2025)
	require.NoError(t, err)
	for _, mu := range set.Units {
		require.Equal(t, 0, mu.DaysOverdue)
	}
}

func TestMissingPaymentsInvalidPeriod(t *testing.T) {
	svc := newTestService(threeUnitRepo())

	_, err := svc.MissingPayments(context.Background(), 1, 13, 2025)
	require.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestFindMissingUnit(t *testing.T) {
	svc := newTestService(threeUnitRepo())

	unit, err := svc.FindMissingUnit(context.Background(), 1, 6, 2025, 2)
	require.NoError(t, err)
	require.NotNil(t, unit)
	require.Equal(t, "B", unit.UnitNumber)

	paid, err := svc.FindMissingUnit(context.Background(), 1, 6, 2025, 1)
	require.NoError(t, err)
	require.Nil(t, paid)
}

func TestInvalidateRefreshesAfterUnitChange(t *testing.T) {
	repo := threeUnitRepo()
	cache, _ := newTestCache(t)
	svc := NewService(testLogger(), repo, cache)
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
	ctx := context.Background()

	set, err := svc.MissingPayments(ctx, 1, 6, 2025)
	require.NoError(t, err)
	require.Equal(t, 2, set.TotalMissing)

	// Unit B is vacated. The cached set keeps serving it until the
	// version is bumped.
	repo.billed = append(repo.billed[:1], repo.billed[2:]...)

	stale, err := svc.MissingPayments(ctx, 1, 6, 2025)
	require.NoError(t, err)
	require.Equal(t, 2, stale.TotalMissing)

	require.NoError(t, svc.Invalidate(ctx))

	fresh, err := svc.MissingPayments(ctx, 1, 6, 2025)
	require.NoError(t, err)
	require.Equal(t, 1, fresh.TotalMissing)
	require.Equal(t, "C", fresh.Units[0].UnitNumber)
	require.True(t, fresh.TotalExpectedAmount.Equal(fee("200")))
}
