package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dlazarev/finadvisor/internal/domain"
)

func ledgerExpense(amount float64, cat domain.Category) domain.LedgerEntry {
	return domain.LedgerEntry{
		Amount:     decimal.NewFromFloat(-amount),
		OccurredAt: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC),
		Category:   cat,
		Kind:       domain.KindExpense,
		Provenance: "spending",
	}
}

func failingGenerator() *mockGenerator {
	return &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("provider down")
		},
	}
}

func TestBuildChartFromLedger(t *testing.T) {
	svc := newTestService(failingGenerator(), nil)

	ledger := []domain.LedgerEntry{
		ledgerExpense(450, domain.CategoryFood),
		ledgerExpense(1800, domain.CategoryHousing),
		ledgerExpense(120, domain.CategoryTransport),
		// Non-expense kinds are excluded from the aggregation.
		{Amount: decimal.NewFromInt(5000), Kind: domain.KindIncome, Category: domain.CategoryIncome},
		{Amount: decimal.NewFromInt(90000), Kind: domain.KindRetirementBalance, Category: domain.CategorySavings},
	}

	got := svc.buildChart(context.Background(), zerolog.Nop(), pipelineContext{Ledger: ledger}, nil)

	if got.Provenance != domain.ChartProvenanceReal {
		t.Errorf("provenance = %q, want real", got.Provenance)
	}
	if len(got.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(got.Entries))
	}
	for i := 1; i < len(got.Entries); i++ {
		if got.Entries[i].Value > got.Entries[i-1].Value {
			t.Errorf("entries not sorted descending: %v", got.Entries)
		}
	}
	if got.Entries[0].Label != "housing" || got.Entries[0].Value != 1800 {
		t.Errorf("top entry = %+v", got.Entries[0])
	}
}

func TestBuildChartTopTen(t *testing.T) {
	svc := newTestService(failingGenerator(), nil)

	var ledger []domain.LedgerEntry
	for i, cat := range domain.Categories() {
		if cat == domain.CategoryIncome {
			continue
		}
		ledger = append(ledger, ledgerExpense(float64(100+i), cat))
	}

	got := svc.buildChart(context.Background(), zerolog.Nop(), pipelineContext{Ledger: ledger}, nil)
	if len(got.Entries) > maxChartEntries {
		t.Errorf("entries = %d, want <= %d", len(got.Entries), maxChartEntries)
	}
}

func TestBuildChartUsesFormattedWhenLedgerEmpty(t *testing.T) {
	svc := newTestService(failingGenerator(), nil)

	formatted := []domain.ChartEntry{{Label: "food", Value: 300, Percentage: 40}}
	got := svc.buildChart(context.Background(), zerolog.Nop(), pipelineContext{}, formatted)

	if got.Provenance != domain.ChartProvenanceReal {
		t.Errorf("provenance = %q, want real", got.Provenance)
	}
	if len(got.Entries) != 1 || got.Entries[0].Label != "food" {
		t.Errorf("entries = %v", got.Entries)
	}
}

func TestBuildChartGeneratedFallback(t *testing.T) {
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{"entries": [{"label": "housing", "value": 1500, "percentage": 50}]}`, nil
		},
	}
	svc := newTestService(gen, nil)

	got := svc.buildChart(context.Background(), zerolog.Nop(), pipelineContext{}, nil)

	if got.Provenance != domain.ChartProvenanceGenerated {
		t.Errorf("provenance = %q, want generated", got.Provenance)
	}
	if len(got.Entries) != 1 || got.Entries[0].Label != "housing" {
		t.Errorf("entries = %v", got.Entries)
	}
}

func TestBuildChartNoDataFallback(t *testing.T) {
	svc := newTestService(failingGenerator(), nil)

	got := svc.buildChart(context.Background(), zerolog.Nop(), pipelineContext{}, nil)

	if len(got.Entries) != 1 {
		t.Fatalf("entries = %d, want single no-data entry", len(got.Entries))
	}
	if got.Entries[0].Label != "No data available" || got.Entries[0].Value != 0 {
		t.Errorf("no-data entry = %+v", got.Entries[0])
	}
	if got.Provenance != domain.ChartProvenanceGenerated {
		t.Errorf("provenance = %q, want generated", got.Provenance)
	}
}

func TestGeneratedChartCoercesBadValues(t *testing.T) {
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{"entries": [
				{"label": "a", "value": "not-a-number", "percentage": 10},
				{"label": "b", "value": -50, "percentage": 10},
				{"label": "c", "value": "123.5", "percentage": 10}
			]}`, nil
		},
	}
	svc := newTestService(gen, nil)

	got := svc.buildChart(context.Background(), zerolog.Nop(), pipelineContext{}, nil)

	if len(got.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(got.Entries))
	}
	if got.Entries[0].Value != 0 {
		t.Errorf("unparseable value = %v, want coerced 0", got.Entries[0].Value)
	}
	if got.Entries[1].Value != 0 {
		t.Errorf("negative value = %v, want coerced 0", got.Entries[1].Value)
	}
	if got.Entries[2].Value != 123.5 {
		t.Errorf("numeric string = %v, want 123.5", got.Entries[2].Value)
	}
}

func TestToVisualization(t *testing.T) {
	dataset := domain.ChartDataset{
		Entries: []domain.ChartEntry{
			{Label: "housing", Value: 1800, Percentage: 80},
			{Label: "food", Value: 450, Percentage: 20},
		},
		Provenance: domain.ChartProvenanceReal,
	}

	v := toVisualization(dataset, ChartSelectionResult{Type: "pie", Title: "Spending"})
	if v == nil {
		t.Fatal("visualization nil for non-empty dataset")
	}
	if v.Type != "pie" || v.Title != "Spending" || v.DataSource != "real" {
		t.Errorf("visualization = %+v", v)
	}
	if len(v.Data.Labels) != 2 || len(v.Data.Datasets) != 1 {
		t.Fatalf("data shape = %+v", v.Data)
	}
	ds := v.Data.Datasets[0]
	if len(ds.Data) != 2 || ds.Data[0] != 1800 {
		t.Errorf("dataset values = %v", ds.Data)
	}
	if len(ds.BackgroundColor) != 2 {
		t.Errorf("colors = %v", ds.BackgroundColor)
	}

	if got := toVisualization(domain.ChartDataset{}, DefaultChartSelection()); got != nil {
		t.Errorf("empty dataset produced visualization: %+v", got)
	}
}
