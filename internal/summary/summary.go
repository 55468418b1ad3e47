// Package summary derives a FinancialSummary from the reconciled ledger,
// provider integration insights and the user's self-reported profile.
//
// Precedence is modeled as an ordered list of source tiers, each producing
// a partial patch; construction is a left-to-right merge where an earlier
// tier's present field always wins. This keeps the precedence rule testable
// as a pure merge, independent of where the data originated.
package summary

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/taxonomy"
)

// patch is one tier's partial contribution. Nil fields mean "not supplied".
type patch struct {
	source          domain.DataSource
	netWorth        *float64
	monthlyIncome   *float64
	monthlyExpenses *float64
	categories      map[domain.Category]domain.CategoryTotal
}

func (p patch) empty() bool {
	return p.netWorth == nil && p.monthlyIncome == nil &&
		p.monthlyExpenses == nil && len(p.categories) == 0
}

// Calculate builds the summary for one request.
func Calculate(profile domain.Profile, ledger []domain.LedgerEntry, goals []domain.Goal) domain.FinancialSummary {
	return calculateAt(time.Now().UTC(), profile, ledger, goals)
}

func calculateAt(now time.Time, profile domain.Profile, ledger []domain.LedgerEntry, goals []domain.Goal) domain.FinancialSummary {
	tiers := []patch{
		integrationsPatch(profile.Insights),
		transactionsPatch(ledger),
		profilePatch(profile),
	}

	out := domain.FinancialSummary{
		CategoryTotals: map[domain.Category]domain.CategoryTotal{},
	}

	var netWorth, income, expenses *float64
	contributed := map[domain.DataSource]bool{}

	for _, tier := range tiers {
		filled := false
		if netWorth == nil && tier.netWorth != nil {
			netWorth, filled = tier.netWorth, true
		}
		if income == nil && tier.monthlyIncome != nil {
			income, filled = tier.monthlyIncome, true
		}
		if expenses == nil && tier.monthlyExpenses != nil {
			expenses, filled = tier.monthlyExpenses, true
		}
		if len(out.CategoryTotals) == 0 && len(tier.categories) > 0 {
			out.CategoryTotals, filled = tier.categories, true
		}
		if filled {
			contributed[tier.source] = true
		}
	}

	if netWorth != nil {
		out.NetWorth = *netWorth
	}
	if income != nil {
		out.MonthlyIncome = *income
	}
	if expenses != nil {
		out.MonthlyExpenses = *expenses
	}
	if out.MonthlyIncome > 0 {
		out.SavingsRate = (out.MonthlyIncome - out.MonthlyExpenses) / out.MonthlyIncome * 100
	}

	out.DataSource = tagFor(contributed)
	out.GoalProjections = projectGoals(now, goals)
	return out
}

// tagFor reflects the highest-priority tier that contributed, with hybrid
// reserved for integrations supplemented by ledger recomputation.
func tagFor(contributed map[domain.DataSource]bool) domain.DataSource {
	switch {
	case contributed[domain.SourceIntegrations] && contributed[domain.SourceTransactions]:
		return domain.SourceHybrid
	case contributed[domain.SourceIntegrations]:
		return domain.SourceIntegrations
	case contributed[domain.SourceTransactions]:
		return domain.SourceTransactions
	default:
		return domain.SourceProfile
	}
}

func integrationsPatch(insights *domain.IntegrationInsights) patch {
	p := patch{source: domain.SourceIntegrations}
	if insights.Empty() {
		return p
	}
	p.netWorth = insights.NetWorth
	p.monthlyIncome = insights.MonthlyIncome
	p.monthlyExpenses = insights.MonthlySpending
	if len(insights.CategoryBreakdown) > 0 {
		p.categories = breakdownTotals(insights.CategoryBreakdown)
	}
	return p
}

// breakdownTotals converts an integration category breakdown (raw provider
// names, absolute spend) into canonical totals with percentages.
func breakdownTotals(breakdown map[string]float64) map[domain.Category]domain.CategoryTotal {
	totals := map[domain.Category]domain.CategoryTotal{}
	sum := 0.0
	for raw, amount := range breakdown {
		amount = math.Abs(amount)
		cat := taxonomy.Normalize(raw)
		t := totals[cat]
		t.Total += amount
		t.Count++
		totals[cat] = t
		sum += amount
	}
	applyPercentages(totals, sum)
	return totals
}

func transactionsPatch(ledger []domain.LedgerEntry) patch {
	p := patch{source: domain.SourceTransactions}
	if len(ledger) == 0 {
		return p
	}

	var incomeTotal, expenseTotal, cashFlow, assets decimal.Decimal
	months := map[string]bool{}
	totals := map[domain.Category]domain.CategoryTotal{}
	var expenseSum decimal.Decimal

	for _, e := range ledger {
		switch e.Kind {
		case domain.KindIncome:
			incomeTotal = incomeTotal.Add(e.Amount)
			cashFlow = cashFlow.Add(e.Amount)
			months[e.OccurredAt.Format("2006-01")] = true
		case domain.KindExpense:
			expenseTotal = expenseTotal.Add(e.Amount.Abs())
			cashFlow = cashFlow.Add(e.Amount)
			months[e.OccurredAt.Format("2006-01")] = true

			abs := e.Amount.Abs()
			t := totals[e.Category]
			t.Total += abs.InexactFloat64()
			t.Count++
			totals[e.Category] = t
			expenseSum = expenseSum.Add(abs)
		case domain.KindInvestment, domain.KindRetirementBalance:
			assets = assets.Add(e.Amount)
		}
	}

	monthCount := int64(len(months))
	if monthCount > 0 {
		income := incomeTotal.Div(decimal.NewFromInt(monthCount)).InexactFloat64()
		expense := expenseTotal.Div(decimal.NewFromInt(monthCount)).InexactFloat64()
		if income > 0 {
			p.monthlyIncome = &income
		}
		if expense > 0 {
			p.monthlyExpenses = &expense
		}
	}

	if !assets.IsZero() || !cashFlow.IsZero() {
		nw := assets.Add(cashFlow).InexactFloat64()
		p.netWorth = &nw
	}

	if len(totals) > 0 {
		applyPercentages(totals, expenseSum.InexactFloat64())
		p.categories = totals
	}
	return p
}

func profilePatch(profile domain.Profile) patch {
	p := patch{source: domain.SourceProfile}
	if profile.NetWorth != 0 {
		v := profile.NetWorth
		p.netWorth = &v
	}
	if profile.MonthlyIncome != 0 {
		v := profile.MonthlyIncome
		p.monthlyIncome = &v
	}
	if profile.MonthlySpending != 0 {
		v := profile.MonthlySpending
		p.monthlyExpenses = &v
	}
	return p
}

// applyPercentages sets each total's share of the expense sum.
func applyPercentages(totals map[domain.Category]domain.CategoryTotal, sum float64) {
	if sum <= 0 {
		return
	}
	for cat, t := range totals {
		t.Percentage = t.Total / sum * 100
		totals[cat] = t
	}
}

// projectGoals derives pacing for every active goal. Projections merge into
// the summary unconditionally, whatever tier supplied the figures.
func projectGoals(now time.Time, goals []domain.Goal) []domain.GoalProjection {
	if len(goals) == 0 {
		return nil
	}
	projections := make([]domain.GoalProjection, 0, len(goals))
	for _, g := range goals {
		remaining := g.TargetAmount - g.CurrentAmount
		if remaining < 0 {
			remaining = 0
		}
		days := int(math.Ceil(g.Deadline.Sub(now).Hours() / 24))
		if days < 0 {
			days = 0
		}

		required := 0.0
		if days > 0 {
			required = remaining / float64(days)
		}

		projections = append(projections, domain.GoalProjection{
			GoalID:        g.ID,
			Name:          g.Name,
			DaysRemaining: days,
			RequiredDaily: required,
			OnTrack:       remaining == 0 || days > 0,
		})
	}
	sort.Slice(projections, func(i, j int) bool {
		return projections[i].DaysRemaining < projections[j].DaysRemaining
	})
	return projections
}
