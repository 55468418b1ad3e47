package bigquery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/store"
)

// Repository implements store.Repository on top of a BigQuery dataset.
type Repository struct {
	client  *bigquery.Client
	dataset string
}

var _ store.Repository = (*Repository)(nil)

// NewRepository creates the BigQuery-backed repository.
func NewRepository(ctx context.Context, projectID, dataset string) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: bigquery client: %w", err)
	}
	return &Repository{client: client, dataset: dataset}, nil
}

// NewRepositoryWithClient wraps an existing client, used in tests.
func NewRepositoryWithClient(client *bigquery.Client, dataset string) *Repository {
	return &Repository{client: client, dataset: dataset}
}

// Close releases the underlying client.
func (r *Repository) Close() error {
	return r.client.Close()
}

func (r *Repository) table(name string) *bigquery.Table {
	return r.client.Dataset(r.dataset).Table(name)
}

// InsertManualEntry appends one manually entered ledger record.
func (r *Repository) InsertManualEntry(ctx context.Context, userID string, entry domain.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	row := &EntryRow{
		EntryID:     entry.ID,
		UserID:      userID,
		Amount:      entry.Amount.InexactFloat64(),
		OccurredTS:  entry.OccurredAt,
		Category:    string(entry.Category),
		Kind:        string(entry.Kind),
		Description: entry.Description,
		CreatedTS:   time.Now(),
	}
	if len(entry.RawSource) > 0 {
		row.RawSource = bigquery.NullJSON{JSONVal: string(entry.RawSource), Valid: true}
	}

	if err := r.table(entriesTable).Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertManualEntry: inserting row: %w", err)
	}
	return nil
}

// DeleteManualEntry removes one manual entry by ID.
func (r *Repository) DeleteManualEntry(ctx context.Context, userID, entryID string) error {
	q := r.client.Query(fmt.Sprintf(`
		DELETE FROM %s.%s
		WHERE user_id = @user_id AND entry_id = @entry_id
	`, r.dataset, entriesTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "entry_id", Value: entryID},
	}
	return runAndWait(ctx, q, "DeleteManualEntry")
}

// InsertProviderRecords appends imported provider records for one source.
func (r *Repository) InsertProviderRecords(ctx context.Context, userID, source string, records []domain.ProviderRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]*ProviderRecordRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, &ProviderRecordRow{
			RecordID:    uuid.NewString(),
			UserID:      userID,
			Source:      source,
			RecordDate:  civil.DateOf(rec.Date),
			Description: rec.Description,
			Amount:      rec.Amount.InexactFloat64(),
			RawCategory: rec.RawCategory,
			ImportedTS:  now,
		})
	}

	if err := r.table(providerRecordsTable).Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertProviderRecords: inserting rows: %w", err)
	}
	return nil
}

// InsertGoal appends one goal.
func (r *Repository) InsertGoal(ctx context.Context, userID string, goal domain.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}

	row := &GoalRow{
		GoalID:        goal.ID,
		UserID:        userID,
		Name:          goal.Name,
		TargetAmount:  goal.TargetAmount,
		CurrentAmount: goal.CurrentAmount,
		Deadline:      civil.DateOf(goal.Deadline),
		CreatedTS:     time.Now(),
	}

	if err := r.table(goalsTable).Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertGoal: inserting row: %w", err)
	}
	return nil
}

// DeleteGoal removes one goal by ID.
func (r *Repository) DeleteGoal(ctx context.Context, userID, goalID string) error {
	q := r.client.Query(fmt.Sprintf(`
		DELETE FROM %s.%s
		WHERE user_id = @user_id AND goal_id = @goal_id
	`, r.dataset, goalsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "goal_id", Value: goalID},
	}
	return runAndWait(ctx, q, "DeleteGoal")
}

// SaveVisualization appends one generated visualization and returns its ID.
func (r *Repository) SaveVisualization(ctx context.Context, userID string, v *domain.Visualization) (string, error) {
	id := uuid.NewString()

	payload, err := json.Marshal(v.Data)
	if err != nil {
		return "", fmt.Errorf("SaveVisualization: marshal payload: %w", err)
	}

	row := &VisualizationRow{
		VisualizationID: id,
		UserID:          userID,
		ChartType:       v.Type,
		Title:           v.Title,
		Payload:         bigquery.NullJSON{JSONVal: string(payload), Valid: true},
		DataSource:      v.DataSource,
		CreatedTS:       time.Now(),
	}

	if err := r.table(visualizationsTable).Inserter().Put(ctx, row); err != nil {
		return "", fmt.Errorf("SaveVisualization: inserting row: %w", err)
	}
	return id, nil
}

// runAndWait executes a DML query and surfaces the job error, if any.
func runAndWait(ctx context.Context, q *bigquery.Query, op string) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("%s: running query: %w", op, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("%s: waiting for job: %w", op, err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("%s: job error: %w", op, err)
	}
	return nil
}

// entryFromRow converts a stored manual entry back into the domain shape.
func entryFromRow(row *EntryRow) domain.LedgerEntry {
	entry := domain.LedgerEntry{
		ID:          row.EntryID,
		Amount:      decimal.NewFromFloat(row.Amount),
		OccurredAt:  row.OccurredTS,
		Category:    domain.Category(row.Category),
		Kind:        domain.EntryKind(row.Kind),
		Provenance:  domain.ProvenanceManual,
		Description: row.Description,
	}
	if row.RawSource.Valid {
		entry.RawSource = json.RawMessage(row.RawSource.JSONVal)
	}
	if !entry.Category.Valid() {
		entry.Category = domain.CategoryOther
	}
	return entry
}
