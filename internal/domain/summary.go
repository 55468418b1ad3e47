package domain

// DataSource tags which tier supplied the figures in a FinancialSummary.
type DataSource string

const (
	SourceIntegrations DataSource = "integrations"
	SourceTransactions DataSource = "transactions"
	SourceProfile      DataSource = "profile"
	SourceHybrid       DataSource = "hybrid"
)

// CategoryTotal aggregates one canonical category's expense activity.
// Percentage is relative to the total of expense-kind entries only.
type CategoryTotal struct {
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

// FinancialSummary is derived per request, never stored authoritatively.
type FinancialSummary struct {
	NetWorth        float64                    `json:"net_worth"`
	MonthlyIncome   float64                    `json:"monthly_income"`
	MonthlyExpenses float64                    `json:"monthly_expenses"`
	SavingsRate     float64                    `json:"savings_rate"`
	CategoryTotals  map[Category]CategoryTotal `json:"category_totals"`
	DataSource      DataSource                 `json:"data_source"`
	GoalProjections []GoalProjection           `json:"goal_projections,omitempty"`
}
