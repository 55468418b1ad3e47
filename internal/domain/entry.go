package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	KindIncome            EntryKind = "income"
	KindExpense           EntryKind = "expense"
	KindInvestment        EntryKind = "investment"
	KindRetirementBalance EntryKind = "retirement_balance"
)

// ProvenanceManual marks entries the user typed in by hand. Imported
// entries carry the provider source name instead ("spending",
// "investment", "retirement").
const ProvenanceManual = "manual"

// LedgerEntry is one financial event normalized to the canonical taxonomy
// and sign convention (expenses negative, income and asset values positive).
// Entries are immutable once created; a fresh reconciliation pass supersedes
// them rather than mutating in place.
type LedgerEntry struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Category    Category        `json:"category"`
	Kind        EntryKind       `json:"kind"`
	Provenance  string          `json:"provenance"`
	Description string          `json:"description"`

	// RawSource is the original record as imported, retained for audit.
	RawSource json.RawMessage `json:"raw_source,omitempty"`
}

// ProviderRecord is one record as it arrives from a provider CSV export,
// before reconciliation. Amounts are unsigned as exported; the reconciler
// applies the sign convention per source.
type ProviderRecord struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	RawCategory string          `json:"raw_category"`
}
