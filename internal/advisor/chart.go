package advisor

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/llm"
	"github.com/dlazarev/finadvisor/internal/metrics"
)

const maxChartEntries = 10

// ChartSelectionResult is the chart-selection agent's typed output.
type ChartSelectionResult struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

// DefaultChartSelection is used when the selection call fails.
func DefaultChartSelection() ChartSelectionResult {
	return ChartSelectionResult{Type: "pie", Title: "Spending by Category"}
}

// flexFloat decodes a JSON number or numeric string, coercing anything
// unparseable (and non-finite values) to 0 instead of failing the decode.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		n = parsed
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		n = 0
	}
	*f = flexFloat(n)
	return nil
}

// chartEntriesPayload is the wire shape shared by the chart-formatting and
// chart-generation calls.
type chartEntriesPayload struct {
	Entries []struct {
		Label      string    `json:"label"`
		Value      flexFloat `json:"value"`
		Percentage flexFloat `json:"percentage"`
	} `json:"entries"`
}

func (p chartEntriesPayload) toEntries() []domain.ChartEntry {
	entries := make([]domain.ChartEntry, 0, len(p.Entries))
	for _, e := range p.Entries {
		if e.Label == "" {
			continue
		}
		entries = append(entries, domain.ChartEntry{
			Label:      e.Label,
			Value:      float64(e.Value),
			Percentage: float64(e.Percentage),
		})
	}
	return sanitizeEntries(entries)
}

// sanitizeEntries enforces the dataset invariant: every value finite and
// non-negative, length capped.
func sanitizeEntries(entries []domain.ChartEntry) []domain.ChartEntry {
	out := make([]domain.ChartEntry, 0, len(entries))
	for _, e := range entries {
		if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) || e.Value < 0 {
			e.Value = 0
		}
		if math.IsNaN(e.Percentage) || math.IsInf(e.Percentage, 0) || e.Percentage < 0 {
			e.Percentage = 0
		}
		out = append(out, e)
	}
	if len(out) > maxChartEntries {
		out = out[:maxChartEntries]
	}
	return out
}

// buildChart produces the chart-ready dataset through a strict cascade,
// stopping at the first non-empty result:
//
//  1. aggregate the reconciled ledger (real)
//  2. the chart-formatting agent's output over the summary (real)
//  3. a model-synthesized plausible dataset (generated)
//  4. an explicit single-entry "no data" dataset
func (s *Service) buildChart(ctx context.Context, log zerolog.Logger, pctx pipelineContext, formatted []domain.ChartEntry) domain.ChartDataset {
	if entries := aggregateLedger(pctx.Ledger); len(entries) > 0 {
		return domain.ChartDataset{Entries: entries, Provenance: domain.ChartProvenanceReal}
	}

	if len(formatted) > 0 {
		return domain.ChartDataset{
			Entries:    sanitizeEntries(formatted),
			Provenance: domain.ChartProvenanceReal,
		}
	}

	if entries := s.generateChart(ctx, log, pctx); len(entries) > 0 {
		return domain.ChartDataset{Entries: entries, Provenance: domain.ChartProvenanceGenerated}
	}

	return domain.ChartDataset{
		Entries:    []domain.ChartEntry{{Label: "No data available", Value: 0, Percentage: 0}},
		Provenance: domain.ChartProvenanceGenerated,
	}
}

// aggregateLedger sums expense-kind entries by canonical category and
// returns the top slices sorted descending by total.
func aggregateLedger(ledger []domain.LedgerEntry) []domain.ChartEntry {
	totals := map[domain.Category]decimal.Decimal{}
	var sum decimal.Decimal
	for _, e := range ledger {
		if e.Kind != domain.KindExpense {
			continue
		}
		abs := e.Amount.Abs()
		totals[e.Category] = totals[e.Category].Add(abs)
		sum = sum.Add(abs)
	}
	if len(totals) == 0 {
		return nil
	}

	entries := make([]domain.ChartEntry, 0, len(totals))
	for cat, total := range totals {
		entry := domain.ChartEntry{Label: string(cat), Value: total.InexactFloat64()}
		if sum.Sign() > 0 {
			entry.Percentage = total.Div(sum).InexactFloat64() * 100
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Label < entries[j].Label
	})
	return sanitizeEntries(entries)
}

// generateChart asks the provider to synthesize a plausible dataset when
// no real data exists. Failures return nil so the cascade can continue.
func (s *Service) generateChart(ctx context.Context, log zerolog.Logger, pctx pipelineContext) []domain.ChartEntry {
	callCtx, cancel := context.WithTimeout(ctx, s.agentTimeout)
	defer cancel()

	metrics.ProviderCalls.WithLabelValues("chart_generation").Inc()
	raw, err := s.gen.Generate(callCtx, chartGenerationPrompt(pctx.Query, pctx.Profile))
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("chart_generation").Inc()
		log.Warn().Err(err).Msg("Chart generation call failed")
		return nil
	}

	payload := llm.Parse(log, raw, chartEntriesPayload{})
	return payload.toEntries()
}

// selectChart runs the mandatory chart-selection agent.
func (s *Service) selectChart(ctx context.Context, log zerolog.Logger, query string) ChartSelectionResult {
	callCtx, cancel := context.WithTimeout(ctx, s.agentTimeout)
	defer cancel()

	metrics.ProviderCalls.WithLabelValues(string(AgentChartSelection)).Inc()
	raw, err := s.gen.Generate(callCtx, chartSelectionPrompt(query))
	if err != nil {
		metrics.ProviderFailures.WithLabelValues(string(AgentChartSelection)).Inc()
		log.Warn().Err(err).Msg("Chart selection call failed, using default")
		return DefaultChartSelection()
	}
	return llm.Parse(log, raw, DefaultChartSelection())
}

// formatChart runs the mandatory chart-formatting agent over the summary.
// Its output feeds the second tier of the chart cascade.
func (s *Service) formatChart(ctx context.Context, log zerolog.Logger, sum domain.FinancialSummary) []domain.ChartEntry {
	if len(sum.CategoryTotals) == 0 {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.agentTimeout)
	defer cancel()

	metrics.ProviderCalls.WithLabelValues(string(AgentChartFormatting)).Inc()
	raw, err := s.gen.Generate(callCtx, chartFormattingPrompt(sum))
	if err != nil {
		metrics.ProviderFailures.WithLabelValues(string(AgentChartFormatting)).Inc()
		log.Warn().Err(err).Msg("Chart formatting call failed")
		return nil
	}

	payload := llm.Parse(log, raw, chartEntriesPayload{})
	return payload.toEntries()
}

// toVisualization converts a non-empty dataset into the boundary
// visualization shape. Returns nil for empty datasets: a missing chart is
// a normal outcome, not an error.
func toVisualization(dataset domain.ChartDataset, selection ChartSelectionResult) *domain.Visualization {
	if dataset.Empty() {
		return nil
	}

	labels := make([]string, len(dataset.Entries))
	values := make([]float64, len(dataset.Entries))
	colors := make([]string, len(dataset.Entries))
	for i, e := range dataset.Entries {
		labels[i] = e.Label
		values[i] = e.Value
		colors[i] = chartPalette[i%len(chartPalette)]
	}

	return &domain.Visualization{
		Type:  selection.Type,
		Title: selection.Title,
		Data: domain.ChartData{
			Labels: labels,
			Datasets: []domain.ChartSeries{
				{Label: selection.Title, Data: values, BackgroundColor: colors},
			},
		},
		DataSource: dataset.Provenance,
	}
}

var chartPalette = []string{
	"#4E79A7", "#F28E2B", "#E15759", "#76B7B2", "#59A14F",
	"#EDC948", "#B07AA1", "#FF9DA7", "#9C755F", "#BAB0AC",
}
