package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dlazarev/finadvisor/internal/api/middleware"
	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/store"
)

// GoalsHandler serves savings goal CRUD.
type GoalsHandler struct {
	repo store.Repository
	log  zerolog.Logger
}

// NewGoalsHandler creates the goals handler.
func NewGoalsHandler(repo store.Repository, log zerolog.Logger) *GoalsHandler {
	return &GoalsHandler{repo: repo, log: log}
}

// List handles GET /api/users/{userID}/goals.
func (h *GoalsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	goals, err := h.repo.ListGoals(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("listing goals failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list goals")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"goals": goals,
		"count": len(goals),
	})
}

type createGoalRequest struct {
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	Deadline      time.Time `json:"deadline"`
}

// Create handles POST /api/users/{userID}/goals.
func (h *GoalsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.TargetAmount <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "name and a positive target_amount are required")
		return
	}
	if req.Deadline.IsZero() || req.Deadline.Before(time.Now()) {
		middleware.WriteError(w, http.StatusBadRequest, "deadline must be in the future")
		return
	}

	goal := domain.Goal{
		UserID:        userID,
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      req.Deadline,
	}
	if err := h.repo.InsertGoal(r.Context(), userID, goal); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("inserting goal failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create goal")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// Delete handles DELETE /api/users/{userID}/goals/{goalID}.
func (h *GoalsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	goalID := chi.URLParam(r, "goalID")

	if err := h.repo.DeleteGoal(r.Context(), userID, goalID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Goal not found")
			return
		}
		h.log.Error().Err(err).Str("goal_id", goalID).Msg("deleting goal failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete goal")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
