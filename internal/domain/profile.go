package domain

import "time"

// IntegrationInsights holds summary figures computed upstream from provider
// integrations. Pointer fields distinguish "not supplied" from zero; any
// field that is present takes precedence over values recomputed from the
// ledger or self-reported in the profile.
type IntegrationInsights struct {
	NetWorth          *float64           `json:"net_worth,omitempty"`
	MonthlyIncome     *float64           `json:"monthly_income,omitempty"`
	MonthlySpending   *float64           `json:"monthly_spending,omitempty"`
	CategoryBreakdown map[string]float64 `json:"category_breakdown,omitempty"`
}

// Empty reports whether the insights carry no usable figure at all.
func (i *IntegrationInsights) Empty() bool {
	if i == nil {
		return true
	}
	return i.NetWorth == nil && i.MonthlyIncome == nil &&
		i.MonthlySpending == nil && len(i.CategoryBreakdown) == 0
}

// Profile is the requesting user's profile: identity, self-reported
// financial figures and the optional integration insight blob.
type Profile struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`

	// Self-reported figures, the lowest-precedence summary tier.
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlySpending float64 `json:"monthly_spending"`
	NetWorth        float64 `json:"net_worth"`

	Insights *IntegrationInsights `json:"insights,omitempty"`
}

// Goal is one active savings goal.
type Goal struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	Deadline      time.Time `json:"deadline"`
}

// GoalProjection is the derived pacing for one goal.
type GoalProjection struct {
	GoalID        string  `json:"goal_id"`
	Name          string  `json:"name"`
	DaysRemaining int     `json:"days_remaining"`
	RequiredDaily float64 `json:"required_daily"`
	OnTrack       bool    `json:"on_track"`
}
