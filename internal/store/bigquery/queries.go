package bigquery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/store"
)

// GetProfile fetches the user's profile, or store.ErrNotFound.
func (r *Repository) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT user_id, name, age, monthly_income, monthly_spending, net_worth, insights, updated_ts
		FROM %s.%s
		WHERE user_id = @user_id
		ORDER BY updated_ts DESC
		LIMIT 1
	`, r.dataset, profilesTable))
	q.Parameters = []bigquery.QueryParameter{{Name: "user_id", Value: userID}}

	it, err := q.Read(ctx)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("GetProfile: running query: %w", err)
	}

	var row ProfileRow
	if err := it.Next(&row); err != nil {
		if errors.Is(err, iterator.Done) {
			return domain.Profile{}, store.ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("GetProfile: reading row: %w", err)
	}

	profile := domain.Profile{
		UserID:          row.UserID,
		Name:            row.Name,
		Age:             int(row.Age),
		MonthlyIncome:   row.MonthlyIncome,
		MonthlySpending: row.MonthlySpending,
		NetWorth:        row.NetWorth,
	}
	if row.Insights.Valid && row.Insights.JSONVal != "" {
		var insights domain.IntegrationInsights
		if err := json.Unmarshal([]byte(row.Insights.JSONVal), &insights); err == nil {
			profile.Insights = &insights
		}
	}
	return profile, nil
}

// ListManualEntries returns the user's manual ledger entries, newest first.
func (r *Repository) ListManualEntries(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT entry_id, user_id, amount, occurred_ts, category, kind, description, raw_source, created_ts
		FROM %s.%s
		WHERE user_id = @user_id
		ORDER BY occurred_ts DESC
	`, r.dataset, entriesTable))
	q.Parameters = []bigquery.QueryParameter{{Name: "user_id", Value: userID}}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListManualEntries: running query: %w", err)
	}

	var entries []domain.LedgerEntry
	for {
		var row EntryRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListManualEntries: reading row: %w", err)
		}
		entries = append(entries, entryFromRow(&row))
	}
	return entries, nil
}

// ListProviderRecords returns imported provider records grouped by source.
func (r *Repository) ListProviderRecords(ctx context.Context, userID string) (map[string][]domain.ProviderRecord, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT record_id, user_id, source, record_date, description, amount, raw_category, imported_ts
		FROM %s.%s
		WHERE user_id = @user_id
		ORDER BY source, record_date
	`, r.dataset, providerRecordsTable))
	q.Parameters = []bigquery.QueryParameter{{Name: "user_id", Value: userID}}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListProviderRecords: running query: %w", err)
	}

	bySource := make(map[string][]domain.ProviderRecord)
	for {
		var row ProviderRecordRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListProviderRecords: reading row: %w", err)
		}
		bySource[row.Source] = append(bySource[row.Source], domain.ProviderRecord{
			Date:        row.RecordDate.In(time.UTC),
			Description: row.Description,
			Amount:      decimal.NewFromFloat(row.Amount),
			RawCategory: row.RawCategory,
		})
	}
	return bySource, nil
}

// ListGoals returns the user's goals ordered by deadline.
func (r *Repository) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT goal_id, user_id, name, target_amount, current_amount, deadline, created_ts
		FROM %s.%s
		WHERE user_id = @user_id
		ORDER BY deadline
	`, r.dataset, goalsTable))
	q.Parameters = []bigquery.QueryParameter{{Name: "user_id", Value: userID}}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListGoals: running query: %w", err)
	}

	var goals []domain.Goal
	for {
		var row GoalRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListGoals: reading row: %w", err)
		}
		goals = append(goals, domain.Goal{
			ID:            row.GoalID,
			UserID:        row.UserID,
			Name:          row.Name,
			TargetAmount:  row.TargetAmount,
			CurrentAmount: row.CurrentAmount,
			Deadline:      row.Deadline.In(time.UTC),
		})
	}
	return goals, nil
}
