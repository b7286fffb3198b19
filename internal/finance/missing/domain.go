package missing

import (
	"github.com/shopspring/decimal"
)

// BilledUnit is one occupied unit with an active resident and a fee
// obligation, as produced by the occupancy/billing join.
type BilledUnit struct {
	UnitID       int64           `json:"unitId"`
	UnitNumber   string          `json:"unitNumber"`
	BuildingID   int64           `json:"buildingId"`
	BuildingName string          `json:"buildingName"`
	MonthlyFee   decimal.Decimal `json:"monthlyFee"`
	ResidentID   int64           `json:"residentId"`
	ResidentName string          `json:"residentName"`
}

// MissingUnit is a billed unit with no income record for the period.
type MissingUnit struct {
	BilledUnit
	DaysOverdue int `json:"daysOverdue"`
}

// MissingSet is the query result for one organization and period.
type MissingSet struct {
	Period              Period          `json:"period"`
	Units               []MissingUnit   `json:"missingPayments"`
	TotalMissing        int             `json:"totalMissing"`
	TotalExpectedAmount decimal.Decimal `json:"totalExpectedAmount"`
}

// Batch dispatch outcomes.
const (
	OutcomeAllSent   = "all_sent"
	OutcomePartial   = "partial"
	OutcomeAllFailed = "all_failed"
)

// DispatchFailure records one reminder that could not be created.
type DispatchFailure struct {
	UnitID     int64  `json:"unitId"`
	UnitNumber string `json:"unitNumber"`
	Reason     string `json:"reason"`
}

// DispatchReport summarizes a sequential reminder batch. Successes that
// committed before a later failure stay committed.
type DispatchReport struct {
	Sent    []int64           `json:"sent"`
	Failed  []DispatchFailure `json:"failed"`
	Outcome string            `json:"outcome"`
}

// SuccessCount returns how many reminders were created.
func (r DispatchReport) SuccessCount() int { return len(r.Sent) }

// FailureCount returns how many reminders failed.
func (r DispatchReport) FailureCount() int { return len(r.Failed) }

func classifyOutcome(sent, failed int) string {
	switch {
	case failed == 0:
		return OutcomeAllSent
	case sent == 0:
		return OutcomeAllFailed
	default:
		return OutcomePartial
	}
}
