package meetings

import "time"

// Meeting is a scheduled assembly of the organization.
type Meeting struct {
	ID          int64     `json:"id"`
	OrgID       int64     `json:"orgId"`
	Title       string    `json:"title"`
	Agenda      string    `json:"agenda,omitempty"`
	Location    string    `json:"location,omitempty"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Minutes     string    `json:"minutes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
