package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dlazarev/finadvisor/internal/api/middleware"
	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/store"
)

// EntriesHandler serves manual ledger entry CRUD.
type EntriesHandler struct {
	repo store.Repository
	log  zerolog.Logger
}

// NewEntriesHandler creates the entries handler.
func NewEntriesHandler(repo store.Repository, log zerolog.Logger) *EntriesHandler {
	return &EntriesHandler{repo: repo, log: log}
}

// List handles GET /api/users/{userID}/entries.
func (h *EntriesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	entries, err := h.repo.ListManualEntries(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("listing entries failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list entries")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

type createEntryRequest struct {
	Amount      float64   `json:"amount"`
	OccurredAt  time.Time `json:"occurred_at"`
	Category    string    `json:"category"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
}

// Create handles POST /api/users/{userID}/entries.
func (h *EntriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	kind := domain.EntryKind(req.Kind)
	switch kind {
	case domain.KindIncome, domain.KindExpense, domain.KindInvestment, domain.KindRetirementBalance:
	default:
		middleware.WriteError(w, http.StatusBadRequest, "Invalid kind")
		return
	}

	category := domain.Category(req.Category)
	if !category.Valid() {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid category")
		return
	}

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	entry := domain.LedgerEntry{
		Amount:      decimal.NewFromFloat(req.Amount),
		OccurredAt:  occurredAt,
		Category:    category,
		Kind:        kind,
		Provenance:  domain.ProvenanceManual,
		Description: req.Description,
	}
	if err := h.repo.InsertManualEntry(r.Context(), userID, entry); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("inserting entry failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// Delete handles DELETE /api/users/{userID}/entries/{entryID}.
func (h *EntriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	entryID := chi.URLParam(r, "entryID")

	if err := h.repo.DeleteManualEntry(r.Context(), userID, entryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Entry not found")
			return
		}
		h.log.Error().Err(err).Str("entry_id", entryID).Msg("deleting entry failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
