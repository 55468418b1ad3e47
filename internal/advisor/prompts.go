package advisor

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/summary"
)

// pipelineContext is the per-request data every prompt builder reads.
type pipelineContext struct {
	Query   string
	Profile domain.Profile
	Summary domain.FinancialSummary
	Ledger  []domain.LedgerEntry
	Goals   []domain.Goal
}

// mustJSON serializes v for prompt embedding. Prompt inputs are our own
// structs and always marshal; the empty-object fallback only guards
// future unserializable fields.
func mustJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// recentLedgerLines renders up to n ledger entries as compact prompt lines.
func recentLedgerLines(ledger []domain.LedgerEntry, n int) string {
	if len(ledger) == 0 {
		return "(no transactions on record)\n"
	}
	if len(ledger) > n {
		ledger = ledger[:n]
	}
	var b strings.Builder
	for _, e := range ledger {
		fmt.Fprintf(&b, "- %s | %s | %s | %s | %s\n",
			e.OccurredAt.Format("2006-01-02"), e.Category, e.Kind, e.Amount.StringFixed(2), e.Description)
	}
	return b.String()
}

func selectionPrompt(query string, candidates map[Agent]bool) string {
	names := make([]string, 0, len(candidates))
	for a := range candidates {
		names = append(names, string(a))
	}
	sort.Strings(names)

	return "You are routing a personal finance question to specialized analysis agents.\n\n" +
		"Available agents: " + strings.Join(names, ", ") + "\n\n" +
		"User question:\n" + query + "\n\n" +
		"Task:\n" +
		"- Pick the TWO agents most relevant to answering this question.\n" +
		"- Output STRICT JSON only: a JSON array of exactly two agent names from the list above.\n" +
		"- Do NOT wrap the response in code fences.\n" +
		"- Output must begin with \"[\" and end with \"]\".\n"
}

func spendingAnalysisPrompt(pctx pipelineContext) string {
	return "You are a spending analysis agent for a personal finance advisor.\n\n" +
		"Financial summary:\n" + mustJSON(pctx.Summary) + "\n\n" +
		"Recent transactions:\n" + recentLedgerLines(pctx.Ledger, 30) + "\n" +
		"User question:\n" + pctx.Query + "\n\n" +
		"Task:\n" +
		"- Identify notable spending patterns relevant to the question.\n" +
		"- Output STRICT JSON only, no code fences, with exactly these fields:\n" +
		"{\"insights\": [string], \"top_categories\": [string], \"assessment\": string}\n"
}

func goalOptimizationPrompt(pctx pipelineContext) string {
	rate := summary.AnnualReturnAssumption(pctx.Profile.Age)
	return "You are a goal optimization agent for a personal finance advisor.\n\n" +
		"Financial summary:\n" + mustJSON(pctx.Summary) + "\n\n" +
		"Active goals:\n" + mustJSON(pctx.Goals) + "\n\n" +
		fmt.Sprintf("Assume an annual portfolio growth rate of %.0f%% for this user's age.\n\n", rate*100) +
		"User question:\n" + pctx.Query + "\n\n" +
		"Task:\n" +
		"- Recommend concrete adjustments to reach the goals sooner.\n" +
		"- Output STRICT JSON only, no code fences, with exactly these fields:\n" +
		"{\"recommendations\": [string], \"priority_goal\": string}\n"
}

func budgetPlannerPrompt(pctx pipelineContext) string {
	return "You are a budget planning agent for a personal finance advisor.\n\n" +
		"Financial summary:\n" + mustJSON(pctx.Summary) + "\n\n" +
		"User question:\n" + pctx.Query + "\n\n" +
		"Task:\n" +
		"- Propose a monthly budget as category percentages summing to 100.\n" +
		"- Use ONLY these category names: " + categoryList() + "\n" +
		"- Output STRICT JSON only, no code fences, with exactly these fields:\n" +
		"{\"allocations\": [{\"category\": string, \"percent\": number}], \"advice\": [string]}\n"
}

func chartSelectionPrompt(query string) string {
	return "You are selecting a chart type for visualizing a personal finance answer.\n\n" +
		"User question:\n" + query + "\n\n" +
		"Task:\n" +
		"- Choose the best chart type from: pie, bar, line, doughnut.\n" +
		"- Provide a short human-readable title for the chart.\n" +
		"- Output STRICT JSON only, no code fences:\n" +
		"{\"type\": string, \"title\": string}\n"
}

func chartFormattingPrompt(s domain.FinancialSummary) string {
	return "You are formatting financial summary data into chart entries.\n\n" +
		"Financial summary:\n" + mustJSON(s) + "\n\n" +
		"Task:\n" +
		"- Produce up to 10 chart entries from the category totals, largest first.\n" +
		"- \"value\" must be a non-negative number, \"percentage\" its share of the total.\n" +
		"- Output STRICT JSON only, no code fences:\n" +
		"{\"entries\": [{\"label\": string, \"value\": number, \"percentage\": number}]}\n"
}

func chartGenerationPrompt(query string, profile domain.Profile) string {
	return "You are generating a plausible illustrative spending breakdown for a user " +
		"with no transaction history.\n\n" +
		"User profile:\n" + mustJSON(profile) + "\n\n" +
		"User question:\n" + query + "\n\n" +
		"Task:\n" +
		"- Invent a realistic monthly spending breakdown consistent with the profile.\n" +
		"- Use ONLY these category names: " + categoryList() + "\n" +
		"- Output STRICT JSON only, no code fences:\n" +
		"{\"entries\": [{\"label\": string, \"value\": number, \"percentage\": number}]}\n"
}

func synthesisPrompt(pctx pipelineContext, results map[Agent]AgentResult, chart domain.ChartDataset) string {
	return "You are a personal financial advisor composing the final answer for a user.\n\n" +
		"User profile:\n" + mustJSON(pctx.Profile) + "\n\n" +
		"Financial summary:\n" + mustJSON(pctx.Summary) + "\n\n" +
		"Specialist agent findings:\n" + mustJSON(results) + "\n\n" +
		"Chart that will accompany the answer:\n" + mustJSON(chart) + "\n\n" +
		"User question:\n" + pctx.Query + "\n\n" +
		"Task:\n" +
		"- Answer the question directly, grounded in the figures above.\n" +
		"- Do not invent numbers that contradict the summary.\n" +
		"- Output STRICT JSON only, no code fences, with exactly these fields:\n" +
		"{\"response\": string, \"insights\": [string], \"suggestions\": [string], " +
		"\"followUpQuestions\": [string]}\n"
}

func categoryList() string {
	cats := domain.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
