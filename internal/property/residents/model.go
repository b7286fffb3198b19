package residents

import "time"

// Resident lives in (or owns) a unit. The unit link is optional: a
// resident may be registered before being assigned to a unit.
type Resident struct {
	ID        int64      `json:"id"`
	OrgID     int64      `json:"orgId"`
	UnitID    *int64     `json:"unitId,omitempty"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	IsActive  bool       `json:"isActive"`
	IsOwner   bool       `json:"isOwner"`
	MovedInAt *time.Time `json:"movedInAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// DisplayName joins first and last name for notification addressing.
func (r Resident) DisplayName() string {
	if r.FirstName == "" {
		return r.LastName
	}
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}
