// Package bigquery implements the store.Repository against BigQuery.
package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// Table names within the configured dataset.
const (
	profilesTable        = "profiles"
	entriesTable         = "manual_entries"
	providerRecordsTable = "provider_records"
	goalsTable           = "goals"
	visualizationsTable  = "visualizations"
)

// ProfileRow is one row of finadvisor.profiles.
type ProfileRow struct {
	UserID          string            `bigquery:"user_id"`
	Name            string            `bigquery:"name"`
	Age             int64             `bigquery:"age"`
	MonthlyIncome   float64           `bigquery:"monthly_income"`
	MonthlySpending float64           `bigquery:"monthly_spending"`
	NetWorth        float64           `bigquery:"net_worth"`
	Insights        bigquery.NullJSON `bigquery:"insights"`
	UpdatedTS       time.Time         `bigquery:"updated_ts"`
}

// EntryRow is one row of finadvisor.manual_entries.
type EntryRow struct {
	EntryID     string            `bigquery:"entry_id"`
	UserID      string            `bigquery:"user_id"`
	Amount      float64           `bigquery:"amount"`
	OccurredTS  time.Time         `bigquery:"occurred_ts"`
	Category    string            `bigquery:"category"`
	Kind        string            `bigquery:"kind"`
	Description string            `bigquery:"description"`
	RawSource   bigquery.NullJSON `bigquery:"raw_source"`
	CreatedTS   time.Time         `bigquery:"created_ts"`
}

// ProviderRecordRow is one row of finadvisor.provider_records.
type ProviderRecordRow struct {
	RecordID    string     `bigquery:"record_id"`
	UserID      string     `bigquery:"user_id"`
	Source      string     `bigquery:"source"`
	RecordDate  civil.Date `bigquery:"record_date"`
	Description string     `bigquery:"description"`
	Amount      float64    `bigquery:"amount"`
	RawCategory string     `bigquery:"raw_category"`
	ImportedTS  time.Time  `bigquery:"imported_ts"`
}

// GoalRow is one row of finadvisor.goals.
type GoalRow struct {
	GoalID        string     `bigquery:"goal_id"`
	UserID        string     `bigquery:"user_id"`
	Name          string     `bigquery:"name"`
	TargetAmount  float64    `bigquery:"target_amount"`
	CurrentAmount float64    `bigquery:"current_amount"`
	Deadline      civil.Date `bigquery:"deadline"`
	CreatedTS     time.Time  `bigquery:"created_ts"`
}

// VisualizationRow is one row of finadvisor.visualizations.
type VisualizationRow struct {
	VisualizationID string            `bigquery:"visualization_id"`
	UserID          string            `bigquery:"user_id"`
	ChartType       string            `bigquery:"chart_type"`
	Title           string            `bigquery:"title"`
	Payload         bigquery.NullJSON `bigquery:"payload"`
	DataSource      string            `bigquery:"data_source"`
	CreatedTS       time.Time         `bigquery:"created_ts"`
}
