// Package memory provides an in-memory store.Repository used by the CLI
// and by tests that do not need BigQuery.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/store"
)

// Repository keeps everything in process memory, keyed by user ID.
type Repository struct {
	mu             sync.RWMutex
	profiles       map[string]domain.Profile
	entries        map[string][]domain.LedgerEntry
	records        map[string]map[string][]domain.ProviderRecord
	goals          map[string][]domain.Goal
	visualizations map[string][]storedVisualization
}

type storedVisualization struct {
	ID            string
	Visualization domain.Visualization
}

var _ store.Repository = (*Repository)(nil)

// NewRepository creates an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		profiles:       make(map[string]domain.Profile),
		entries:        make(map[string][]domain.LedgerEntry),
		records:        make(map[string]map[string][]domain.ProviderRecord),
		goals:          make(map[string][]domain.Goal),
		visualizations: make(map[string][]storedVisualization),
	}
}

// PutProfile stores or replaces the user's profile.
func (r *Repository) PutProfile(profile domain.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.UserID] = profile
}

func (r *Repository) GetProfile(_ context.Context, userID string) (domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[userID]
	if !ok {
		return domain.Profile{}, store.ErrNotFound
	}
	return profile, nil
}

func (r *Repository) ListManualEntries(_ context.Context, userID string) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]domain.LedgerEntry, len(r.entries[userID]))
	copy(entries, r.entries[userID])
	return entries, nil
}

func (r *Repository) InsertManualEntry(_ context.Context, userID string, entry domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.Provenance = domain.ProvenanceManual
	r.entries[userID] = append(r.entries[userID], entry)
	return nil
}

func (r *Repository) DeleteManualEntry(_ context.Context, userID, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.entries[userID]
	for i, entry := range entries {
		if entry.ID == entryID {
			r.entries[userID] = append(entries[:i:i], entries[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *Repository) ListProviderRecords(_ context.Context, userID string) (map[string][]domain.ProviderRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]domain.ProviderRecord, len(r.records[userID]))
	for source, records := range r.records[userID] {
		copied := make([]domain.ProviderRecord, len(records))
		copy(copied, records)
		out[source] = copied
	}
	return out, nil
}

func (r *Repository) InsertProviderRecords(_ context.Context, userID, source string, records []domain.ProviderRecord) error {
	if len(records) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.records[userID] == nil {
		r.records[userID] = make(map[string][]domain.ProviderRecord)
	}
	r.records[userID][source] = append(r.records[userID][source], records...)
	return nil
}

func (r *Repository) ListGoals(_ context.Context, userID string) ([]domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	goals := make([]domain.Goal, len(r.goals[userID]))
	copy(goals, r.goals[userID])
	return goals, nil
}

func (r *Repository) InsertGoal(_ context.Context, userID string, goal domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	goal.UserID = userID
	r.goals[userID] = append(r.goals[userID], goal)
	return nil
}

func (r *Repository) DeleteGoal(_ context.Context, userID, goalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	goals := r.goals[userID]
	for i, goal := range goals {
		if goal.ID == goalID {
			r.goals[userID] = append(goals[:i:i], goals[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *Repository) SaveVisualization(_ context.Context, userID string, v *domain.Visualization) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	r.visualizations[userID] = append(r.visualizations[userID], storedVisualization{ID: id, Visualization: *v})
	return id, nil
}

// Visualizations returns the saved visualizations for a user, used in tests.
func (r *Repository) Visualizations(userID string) []domain.Visualization {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Visualization, 0, len(r.visualizations[userID]))
	for _, sv := range r.visualizations[userID] {
		out = append(out, sv.Visualization)
	}
	return out
}

func (r *Repository) Close() error { return nil }
