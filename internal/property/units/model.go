package units

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unit is a billable residential unit within a building. MonthlyFee is a
// decimal to keep currency sums exact; it serializes as a string.
type Unit struct {
	ID           int64           `json:"id"`
	BuildingID   int64           `json:"buildingId"`
	BuildingName string          `json:"buildingName,omitempty"`
	Number       string          `json:"number"`
	Floor        int             `json:"floor"`
	MonthlyFee   decimal.Decimal `json:"monthlyFee"`
	Occupied     bool            `json:"occupied"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
