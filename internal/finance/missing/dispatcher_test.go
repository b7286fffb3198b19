package missing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryNotifier struct {
	created []PaymentReminder
	failFor map[int64]error
	calls   int
}

func (n *memoryNotifier) CreatePaymentReminder(ctx context.Context, reminder PaymentReminder) error {
	n.calls++
	if err, ok := n.failFor[reminder.UnitID]; ok {
		return err
	}
	n.created = append(n.created, reminder)
	return nil
}

func missingUnits(t *testing.T) (Period, []MissingUnit) {
	t.Helper()
	period, err := ResolvePeriod(6, 2025)
	require.NoError(t, err)
	return period, []MissingUnit{
		{BilledUnit: BilledUnit{UnitID: 2, UnitNumber: "B", BuildingName: "North", MonthlyFee: fee("150"), ResidentID: 102}},
		{BilledUnit: BilledUnit{UnitID: 3, UnitNumber: "C", BuildingName: "North", MonthlyFee: fee("200"), ResidentID: 103}},
	}
}

func TestSendOne(t *testing.T) {
	notifier := &memoryNotifier{}
	d := NewDispatcher(testLogger(), notifier, nil)
	period, units := missingUnits(t)

	err := d.SendOne(context.Background(), 1, period, units[0].BilledUnit)
	require.NoError(t, err)
	require.Len(t, notifier.created, 1)

	created := notifier.created[0]
	require.Equal(t, int64(102), created.ResidentID)
	require.Equal(t, "B", created.UnitNumber)
	require.Equal(t, "North", created.BuildingName)
	require.True(t, created.Amount.Equal(fee("150")))
	require.Equal(t, period.DueDate, created.DueDate)
}

func TestSendOneNoDedup(t *testing.T) {
	// Dispatching twice for the same unit creates two records.
	notifier := &memoryNotifier{}
	d := NewDispatcher(testLogger(), notifier, nil)
	period, units := missingUnits(t)

	require.NoError(t, d.SendOne(context.Background(), 1, period, units[0].BilledUnit))
	require.NoError(t, d.SendOne(context.Background(), 1, period, units[0].BilledUnit))
	require.Len(t, notifier.created, 2)
}

func TestSendAllSuccess(t *testing.T) {
	notifier := &memoryNotifier{}
	d := NewDispatcher(testLogger(), notifier, nil)
	period, units := missingUnits(t)

	report := d.SendAll(context.Background(), 1, period, units)
	require.Equal(t, OutcomeAllSent, report.Outcome)
	require.Equal(t, 2, report.SuccessCount())
	require.Equal(t, 0, report.FailureCount())
	require.Equal(t, []int64{2, 3}, report.Sent)
	require.Equal(t, len(units), notifier.calls)
}

func TestSendAllPartialFailure(t *testing.T) {
	notifier := &memoryNotifier{
		failFor: map[int64]error{2: errors.New("channel rejected")},
	}
	d := NewDispatcher(testLogger(), notifier, nil)
	period, units := missingUnits(t)

	report := d.SendAll(context.Background(), 1, period, units)
	require.Equal(t, OutcomePartial, report.Outcome)
	require.Equal(t, 1, report.SuccessCount())
	require.Equal(t, 1, report.FailureCount())
	require.Equal(t, []int64{3}, report.Sent)
	require.Equal(t, int64(2), report.Failed[0].UnitID)
	require.Equal(t, "B", report.Failed[0].UnitNumber)

	// C's reminder committed even though B failed first.
	require.Len(t, notifier.created, 1)
	require.Equal(t, "C", notifier.created[0].UnitNumber)
}

func TestSendAllTotalFailure(t *testing.T) {
	notifier := &memoryNotifier{
		failFor: map[int64]error{
			2: errors.New("down"),
			3: errors.New("down"),
		},
	}
	d := NewDispatcher(testLogger(), notifier, nil)
	period, units := missingUnits(t)

	report := d.SendAll(context.Background(), 1, period, units)
	require.Equal(t, OutcomeAllFailed, report.Outcome)
	require.Equal(t, 0, report.SuccessCount())
	require.Equal(t, 2, report.FailureCount())
	require.Empty(t, notifier.created)
}

func TestSendAllCountInvariant(t *testing.T) {
	notifier := &memoryNotifier{
		failFor: map[int64]error{3: errors.New("down")},
	}
	d := NewDispatcher(testLogger(), notifier, nil)
	period, units := missingUnits(t)

	report := d.SendAll(context.Background(), 1, period, units)
	require.Equal(t, len(units), notifier.calls)
	require.Equal(t, len(units), report.SuccessCount()+report.FailureCount())
}
