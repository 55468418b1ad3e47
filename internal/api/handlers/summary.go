package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dlazarev/finadvisor/internal/api/middleware"
	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/reconcile"
	"github.com/dlazarev/finadvisor/internal/store"
	"github.com/dlazarev/finadvisor/internal/summary"
)

// SummaryHandler computes the derived financial summary on demand.
type SummaryHandler struct {
	repo store.Repository
	log  zerolog.Logger
}

// NewSummaryHandler creates the summary handler.
func NewSummaryHandler(repo store.Repository, log zerolog.Logger) *SummaryHandler {
	return &SummaryHandler{repo: repo, log: log}
}

// Get handles GET /api/users/{userID}/summary.
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	profile, err := h.repo.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Warn().Err(err).Str("user_id", userID).Msg("profile lookup failed")
		}
		profile = domain.Profile{UserID: userID}
	}

	manual, err := h.repo.ListManualEntries(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("listing entries failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load ledger")
		return
	}
	records, err := h.repo.ListProviderRecords(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("listing provider records failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load ledger")
		return
	}
	goals, err := h.repo.ListGoals(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("listing goals failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load goals")
		return
	}

	ledger := reconcile.Reconcile(manual, records)
	middleware.WriteJSON(w, http.StatusOK, summary.Calculate(profile, ledger, goals))
}
