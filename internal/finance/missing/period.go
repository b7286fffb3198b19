// Package missing implements missing payment detection and reminder
// dispatch for a billing period.
package missing

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod rejects a month/year pair outside the accepted bounds.
var ErrInvalidPeriod = errors.New("missing: invalid billing period")

const (
	minYear = 2000
	maxYear = 2100
)

// Period is a normalized billing period. DueDate is the first calendar
// day of the month, UTC.
type Period struct {
	Month   int       `json:"month"`
	Year    int       `json:"year"`
	DueDate time.Time `json:"dueDate"`
}

// ResolvePeriod validates a month/year selection and derives its due date.
func ResolvePeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("month %d outside 1-12: %w", month, ErrInvalidPeriod)
	}
	if year < minYear || year > maxYear {
		return Period{}, fmt.Errorf("year %d outside %d-%d: %w", year, minYear, maxYear, ErrInvalidPeriod)
	}
	return Period{
		Month:   month,
		Year:    year,
		DueDate: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

// DaysOverdue counts whole days elapsed since the period's due date,
// clamped to zero for periods not yet due.
func (p Period) DaysOverdue(now time.Time) int {
	days := int(now.UTC().Sub(p.DueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
