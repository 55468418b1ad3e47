package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/store"
)

func TestProfileRoundTrip(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	if _, err := repo.GetProfile(ctx, "u1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	repo.PutProfile(domain.Profile{UserID: "u1", Name: "Dana", Age: 31})
	profile, err := repo.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.Name != "Dana" || profile.Age != 31 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestManualEntryLifecycle(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	entry := domain.LedgerEntry{
		Amount:      decimal.NewFromFloat(-42.50),
		OccurredAt:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Category:    domain.CategoryFood,
		Kind:        domain.KindExpense,
		Description: "groceries",
	}
	if err := repo.InsertManualEntry(ctx, "u1", entry); err != nil {
		t.Fatalf("InsertManualEntry: %v", err)
	}

	entries, err := repo.ListManualEntries(ctx, "u1")
	if err != nil {
		t.Fatalf("ListManualEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID == "" {
		t.Fatal("expected generated entry ID")
	}
	if entries[0].Provenance != domain.ProvenanceManual {
		t.Fatalf("expected manual provenance, got %q", entries[0].Provenance)
	}

	if err := repo.DeleteManualEntry(ctx, "u1", entries[0].ID); err != nil {
		t.Fatalf("DeleteManualEntry: %v", err)
	}
	if err := repo.DeleteManualEntry(ctx, "u1", entries[0].ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestProviderRecordsGroupedBySource(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	rec := func(desc string, amount float64) domain.ProviderRecord {
		return domain.ProviderRecord{
			Date:        time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			Description: desc,
			Amount:      decimal.NewFromFloat(amount),
		}
	}
	if err := repo.InsertProviderRecords(ctx, "u1", "spending", []domain.ProviderRecord{rec("coffee", -4.20)}); err != nil {
		t.Fatalf("InsertProviderRecords: %v", err)
	}
	if err := repo.InsertProviderRecords(ctx, "u1", "investment", []domain.ProviderRecord{rec("index fund", 500)}); err != nil {
		t.Fatalf("InsertProviderRecords: %v", err)
	}

	bySource, err := repo.ListProviderRecords(ctx, "u1")
	if err != nil {
		t.Fatalf("ListProviderRecords: %v", err)
	}
	if len(bySource) != 2 || len(bySource["spending"]) != 1 || len(bySource["investment"]) != 1 {
		t.Fatalf("unexpected grouping: %+v", bySource)
	}
}

func TestGoalsAndVisualizations(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	goal := domain.Goal{Name: "Emergency fund", TargetAmount: 10000, CurrentAmount: 2500, Deadline: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := repo.InsertGoal(ctx, "u1", goal); err != nil {
		t.Fatalf("InsertGoal: %v", err)
	}
	goals, err := repo.ListGoals(ctx, "u1")
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if len(goals) != 1 || goals[0].ID == "" || goals[0].UserID != "u1" {
		t.Fatalf("unexpected goals: %+v", goals)
	}
	if err := repo.DeleteGoal(ctx, "u1", goals[0].ID); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}

	id, err := repo.SaveVisualization(ctx, "u1", &domain.Visualization{Type: "pie", Title: "Spending"})
	if err != nil {
		t.Fatalf("SaveVisualization: %v", err)
	}
	if id == "" {
		t.Fatal("expected visualization ID")
	}
	if got := repo.Visualizations("u1"); len(got) != 1 || got[0].Title != "Spending" {
		t.Fatalf("unexpected visualizations: %+v", got)
	}
}
