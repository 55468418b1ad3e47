package ingest

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dlazarev/finadvisor/internal/jobs"
	"github.com/dlazarev/finadvisor/internal/store"
)

// Importer handles queued provider-file import jobs: fetch the staged CSV,
// parse it and store the resulting records.
type Importer struct {
	storage Storage
	repo    store.Repository
	log     zerolog.Logger
}

// NewImporter wires an importer.
func NewImporter(storage Storage, repo store.Repository, log zerolog.Logger) *Importer {
	return &Importer{storage: storage, repo: repo, log: log}
}

// Handle implements jobs.JobHandler for import jobs.
func (i *Importer) Handle(ctx context.Context, job jobs.Job) error {
	importJob, ok := job.(*jobs.ImportProviderFileJob)
	if !ok {
		return fmt.Errorf("Handle: unexpected job type %s", job.GetType())
	}

	data, err := i.storage.Fetch(ctx, importJob.GCSURI)
	if err != nil {
		return fmt.Errorf("Handle: fetching %s: %w", importJob.GCSURI, err)
	}

	records, err := ParseCSV(importJob.Source, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("Handle: parsing %s: %w", FilenameFromURI(importJob.GCSURI), err)
	}

	if err := i.repo.InsertProviderRecords(ctx, importJob.UserID, importJob.Source, records); err != nil {
		return fmt.Errorf("Handle: storing records: %w", err)
	}

	importJob.RecordCount = len(records)
	i.log.Info().
		Str("job_id", importJob.JobID).
		Str("source", importJob.Source).
		Int("records", len(records)).
		Msg("provider file imported")
	return nil
}
