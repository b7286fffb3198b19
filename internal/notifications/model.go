package notifications

import "time"

// Kind classifies a notification so clients can render it appropriately.
type Kind string

const (
	KindPaymentReminder Kind = "payment_reminder"
	KindMeetingNotice   Kind = "meeting_notice"
	KindGeneral         Kind = "general"
)

// Notification is a message recorded for a resident of an organization.
type Notification struct {
	ID         int64      `json:"id"`
	OrgID      int64      `json:"orgId"`
	ResidentID int64      `json:"residentId"`
	UnitID     *int64     `json:"unitId,omitempty"`
	Kind       Kind       `json:"kind"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// IsRead reports whether the notification has been read.
func (n Notification) IsRead() bool { return n.ReadAt != nil }
