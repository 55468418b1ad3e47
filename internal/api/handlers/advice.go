// Package handlers implements the HTTP API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dlazarev/finadvisor/internal/advisor"
	"github.com/dlazarev/finadvisor/internal/api/middleware"
	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/store"
)

// Adviser runs the advisory pipeline. Satisfied by *advisor.Service.
type Adviser interface {
	Advise(ctx context.Context, query domain.AdvisoryQuery) (domain.AdvisoryResponse, error)
}

// AdviceHandler serves advisory requests.
type AdviceHandler struct {
	adviser Adviser
	repo    store.Repository
	log     zerolog.Logger
}

// NewAdviceHandler creates the advice handler.
func NewAdviceHandler(adviser Adviser, repo store.Repository, log zerolog.Logger) *AdviceHandler {
	return &AdviceHandler{adviser: adviser, repo: repo, log: log}
}

type adviceRequest struct {
	UserID  string                    `json:"user_id"`
	Query   string                    `json:"query"`
	Context *domain.PrefetchedContext `json:"context,omitempty"`
}

// Advise handles POST /api/advice.
func (h *AdviceHandler) Advise(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req adviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.Query == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id and query are required")
		return
	}

	// A missing profile is not fatal; the summary falls through its tiers.
	profile, err := h.repo.GetProfile(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Warn().Err(err).Str("user_id", req.UserID).Msg("profile lookup failed")
		}
		profile = domain.Profile{UserID: req.UserID}
	}

	resp, err := h.adviser.Advise(ctx, domain.AdvisoryQuery{
		UserID:  req.UserID,
		Query:   req.Query,
		Profile: profile,
		Context: req.Context,
	})
	if err != nil {
		if errors.Is(err, advisor.ErrProviderUnavailable) {
			middleware.WriteError(w, http.StatusServiceUnavailable, "Advisory provider is unavailable")
			return
		}
		h.log.Error().Err(err).Msg("advisory pipeline failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to produce advice")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}
