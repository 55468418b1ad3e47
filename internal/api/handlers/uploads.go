package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dlazarev/finadvisor/internal/api/middleware"
	"github.com/dlazarev/finadvisor/internal/ingest"
	"github.com/dlazarev/finadvisor/internal/jobs"
)

const maxUploadBytes = 16 << 20 // 16 MiB

// UploadsHandler stages provider CSV uploads and enqueues import jobs.
type UploadsHandler struct {
	storage   ingest.Storage
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewUploadsHandler creates the uploads handler.
func NewUploadsHandler(storage ingest.Storage, publisher jobs.Publisher, log zerolog.Logger) *UploadsHandler {
	return &UploadsHandler{storage: storage, publisher: publisher, log: log}
}

// Upload handles POST /api/users/{userID}/providers/{source}/upload. The
// request body is the raw CSV file. The file is staged in GCS and an
// import job is queued; the response carries the job ID for polling.
func (h *UploadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")
	source := chi.URLParam(r, "source")

	if !ingest.ValidSource(source) {
		middleware.WriteError(w, http.StatusBadRequest, "Unknown provider source")
		return
	}

	objectName := fmt.Sprintf("uploads/%s/%s/%s-%s.csv",
		userID, source, time.Now().Format("20060102T150405"), uuid.NewString())

	uri, err := h.storage.Upload(ctx, objectName, http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		h.log.Error().Err(err).Str("object", objectName).Msg("staging upload failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to stage file")
		return
	}

	job := &jobs.ImportProviderFileJob{
		UserID: userID,
		Source: source,
		GCSURI: uri,
	}
	if err := h.publisher.PublishImport(ctx, job); err != nil {
		h.log.Error().Err(err).Str("gcs_uri", uri).Msg("enqueuing import failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to queue import")
		return
	}

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":  job.JobID,
		"gcs_uri": uri,
		"status":  string(job.Status),
	})
}
