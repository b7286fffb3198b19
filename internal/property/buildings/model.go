package buildings

import "time"

// Building belongs to exactly one organization.
type Building struct {
	ID         int64     `json:"id"`
	OrgID      int64     `json:"orgId"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"postalCode"`
	UnitCount  int       `json:"unitCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
