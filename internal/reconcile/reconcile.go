// Package reconcile converts provider-specific import records into
// canonical ledger entries and merges them with manually entered ones into
// a single time-ordered ledger.
package reconcile

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/taxonomy"
)

// Provider source names as they appear in imports and in entry provenance.
const (
	SourceSpending   = "spending"
	SourceInvestment = "investment"
	SourceRetirement = "retirement"
)

// entryNamespace seeds deterministic entry IDs so that reconciling the same
// raw input twice yields structurally identical output.
var entryNamespace = uuid.MustParse("7b7f2f7e-5f0e-4d2b-9f3a-2c8a1d6e4b90")

// Reconcile transforms each provider's records into canonical ledger
// entries, concatenates them with the manual entries and returns the result
// sorted descending by occurrence time. Idempotent: identical input
// produces identical output, entry IDs included.
func Reconcile(manual []domain.LedgerEntry, byProvider map[string][]domain.ProviderRecord) []domain.LedgerEntry {
	ledger := make([]domain.LedgerEntry, 0, len(manual))
	ledger = append(ledger, manual...)

	// Iterate providers in a stable order; map iteration order must not
	// leak into the output.
	providers := make([]string, 0, len(byProvider))
	for name := range byProvider {
		providers = append(providers, name)
	}
	sort.Strings(providers)

	for _, provider := range providers {
		for i, rec := range byProvider[provider] {
			ledger = append(ledger, transform(provider, i, rec))
		}
	}

	sort.SliceStable(ledger, func(i, j int) bool {
		if !ledger[i].OccurredAt.Equal(ledger[j].OccurredAt) {
			return ledger[i].OccurredAt.After(ledger[j].OccurredAt)
		}
		if ledger[i].Provenance != ledger[j].Provenance {
			return ledger[i].Provenance < ledger[j].Provenance
		}
		return ledger[i].ID < ledger[j].ID
	})

	return ledger
}

// transform applies the source-specific conversion for one provider record:
// consistent amount signing, category normalization and provenance stamping.
func transform(provider string, index int, rec domain.ProviderRecord) domain.LedgerEntry {
	category := taxonomy.Normalize(rec.RawCategory)

	var kind domain.EntryKind
	var amount decimal.Decimal

	switch provider {
	case SourceInvestment:
		// Investment records carry asset values, always positive.
		kind = domain.KindInvestment
		amount = rec.Amount.Abs()
		if category == domain.CategoryOther {
			category = domain.CategorySavings
		}
	case SourceRetirement:
		kind = domain.KindRetirementBalance
		amount = rec.Amount.Abs()
		if category == domain.CategoryOther {
			category = domain.CategorySavings
		}
	default:
		// Spending-style sources: income positive, everything else is an
		// expense and goes negative regardless of how the export signed it.
		if category == domain.CategoryIncome {
			kind = domain.KindIncome
			amount = rec.Amount.Abs()
		} else {
			kind = domain.KindExpense
			amount = rec.Amount.Abs().Neg()
		}
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		// ProviderRecord marshals cleanly; this only guards future fields.
		raw = nil
	}

	return domain.LedgerEntry{
		ID:          entryID(provider, index, rec),
		Amount:      amount,
		OccurredAt:  rec.Date,
		Category:    category,
		Kind:        kind,
		Provenance:  provider,
		Description: rec.Description,
		RawSource:   raw,
	}
}

// entryID derives a stable UUID from the record's identity so repeated
// reconciliation passes assign the same ID to the same record.
func entryID(provider string, index int, rec domain.ProviderRecord) string {
	seed := fmt.Sprintf("%s|%d|%s|%s|%s",
		provider, index, rec.Date.UTC().Format("2006-01-02T15:04:05"),
		rec.Description, rec.Amount.String())
	return uuid.NewSHA1(entryNamespace, []byte(seed)).String()
}
