// Package store defines the persistence boundary: the repository
// interface the rest of the service depends on, implemented by the
// BigQuery-backed repository and an in-memory variant for tests and the
// CLI.
package store

import (
	"context"
	"errors"

	"github.com/dlazarev/finadvisor/internal/domain"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("store: not found")

// Repository is the full persistence surface.
type Repository interface {
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)

	ListManualEntries(ctx context.Context, userID string) ([]domain.LedgerEntry, error)
	InsertManualEntry(ctx context.Context, userID string, entry domain.LedgerEntry) error
	DeleteManualEntry(ctx context.Context, userID, entryID string) error

	ListProviderRecords(ctx context.Context, userID string) (map[string][]domain.ProviderRecord, error)
	InsertProviderRecords(ctx context.Context, userID, source string, records []domain.ProviderRecord) error

	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)
	InsertGoal(ctx context.Context, userID string, goal domain.Goal) error
	DeleteGoal(ctx context.Context, userID, goalID string) error

	SaveVisualization(ctx context.Context, userID string, v *domain.Visualization) (string, error)

	Close() error
}
