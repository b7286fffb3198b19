package articles

import "time"

// Article is a help-center entry shown to residents.
type Article struct {
	ID        int64     `json:"id"`
	OrgID     int64     `json:"orgId"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
