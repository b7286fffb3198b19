package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry categories. Incomes and expenses share one record shape.
const (
	CategoryMonthlyFee  = "monthly_fee"
	CategoryAssessment  = "assessment"
	CategoryOther       = "other"
	CategoryMaintenance = "maintenance"
	CategoryUtilities   = "utilities"
	CategoryInsurance   = "insurance"
	CategoryCleaning    = "cleaning"
)

// Income is a payment received for a billing period. UnitID is optional
// so unattributed income (bank interest, refunds) can be recorded too.
type Income struct {
	ID         int64           `json:"id"`
	OrgID      int64           `json:"orgId"`
	UnitID     *int64          `json:"unitId,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Category   string          `json:"category"`
	Note       string          `json:"note,omitempty"`
	ReceivedAt time.Time       `json:"receivedAt"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Expense is a cost borne by the organization in a billing period.
type Expense struct {
	ID        int64           `json:"id"`
	OrgID     int64           `json:"orgId"`
	UnitID    *int64          `json:"unitId,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	Category  string          `json:"category"`
	Note      string          `json:"note,omitempty"`
	PaidAt    time.Time       `json:"paidAt"`
	CreatedAt time.Time       `json:"createdAt"`
}

// MonthlySummary aggregates a single billing period.
type MonthlySummary struct {
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
	IncomeCount  int             `json:"incomeCount"`
	ExpenseCount int             `json:"expenseCount"`
}
