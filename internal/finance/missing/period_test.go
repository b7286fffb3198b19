package missing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolvePeriod(t *testing.T) {
	p, err := ResolvePeriod(6, 2025)
	require.NoError(t, err)
	require.Equal(t, 6, p.Month)
	require.Equal(t, 2025, p.Year)
	require.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), p.DueDate)
}

func TestResolvePeriodRejectsBadMonth(t *testing.T) {
	for _, month := range []int{0, 13, -1} {
		_, err := ResolvePeriod(month, 2025)
		require.ErrorIs(t, err, ErrInvalidPeriod)
	}
}

func TestResolvePeriodRejectsBadYear(t *testing.T) {
	for _, year := range []int{1999, 2101, 0} {
		_, err := ResolvePeriod(1, year)
		require.ErrorIs(t, err, ErrInvalidPeriod)
	}
}

func TestDaysOverdue(t *testing.T) {
	p, err := ResolvePeriod(6, 2025)
	require.NoError(t, err)

	now := time.Date(2025, time.June, 11, 15, 0, 0, 0, time.UTC)
	require.Equal(t, 10, p.DaysOverdue(now))
}

func TestDaysOverdueClampedBeforeDueDate(t *testing.T) {
	p, err := ResolvePeriod(6, 2025)
	require.NoError(t, err)

	now := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 0, p.DaysOverdue(now))
}
