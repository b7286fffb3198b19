// Package orgs manages organizations, membership and plan limits. The
// organization is the tenant boundary: every other domain package scopes
// its queries by the organization id carried in the session.
package orgs

import "time"

// Plan identifiers.
const (
	PlanFree     = "free"
	PlanStandard = "standard"
	PlanPremium  = "premium"
)

// Organization is one customer's isolated data set.
type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Member links a user account to an organization with a role.
type Member struct {
	OrgID     int64     `json:"orgId"`
	UserID    int64     `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlanLimits caps resource counts per plan.
type PlanLimits struct {
	MaxBuildings int `json:"maxBuildings"`
	MaxUnits     int `json:"maxUnits"`
	MaxMembers   int `json:"maxMembers"`
}

var planLimits = map[string]PlanLimits{
	PlanFree:     {MaxBuildings: 1, MaxUnits: 20, MaxMembers: 5},
	PlanStandard: {MaxBuildings: 5, MaxUnits: 200, MaxMembers: 50},
	PlanPremium:  {MaxBuildings: 50, MaxUnits: 5000, MaxMembers: 1000},
}

// LimitsForPlan returns the quota table for a plan. Unknown plans fall
// back to the free tier.
func LimitsForPlan(plan string) PlanLimits {
	if limits, ok := planLimits[plan]; ok {
		return limits
	}
	return planLimits[PlanFree]
}
