// Package jobs defines the asynchronous import job model and the queue
// abstractions it runs on.
package jobs

import (
	"context"
	"time"
)

// JobType identifies what a job does.
type JobType string

const (
	// JobTypeImportProviderFile imports a staged provider CSV file.
	JobTypeImportProviderFile JobType = "import_provider_file"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ImportProviderFileJob imports one provider CSV file staged in GCS into
// the user's provider records.
type ImportProviderFileJob struct {
	JobID  string `json:"job_id"`
	UserID string `json:"user_id"`

	// Source names the provider layout: spending, investment or retirement.
	Source string `json:"source"`

	// GCSURI locates the staged file, gs://bucket/object.
	GCSURI string `json:"gcs_uri"`

	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`

	// RecordCount is the number of records imported, set on completion.
	RecordCount int `json:"record_count,omitempty"`

	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`
}

// Job is the generic surface handlers see.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

func (j *ImportProviderFileJob) GetID() string        { return j.JobID }
func (j *ImportProviderFileJob) GetType() JobType     { return JobTypeImportProviderFile }
func (j *ImportProviderFileJob) GetStatus() JobStatus { return j.Status }

// Publisher enqueues import jobs. Implemented in-memory today; the
// abstraction leaves room for Cloud Tasks or Pub/Sub later.
type Publisher interface {
	PublishImport(ctx context.Context, job *ImportProviderFileJob) error
	Close() error
}

// Consumer drains the queue, calling the handler for each job.
type Consumer interface {
	Start(ctx context.Context, handler JobHandler) error
	Stop(ctx context.Context) error
}

// JobHandler processes one job. A returned error marks the job failed and
// eligible for retry.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks job state for the status API.
type JobStore interface {
	SaveJob(ctx context.Context, job *ImportProviderFileJob) error
	GetJob(ctx context.Context, jobID string) (*ImportProviderFileJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*ImportProviderFileJob, error)
}

// JobFilter narrows ListJobs results.
type JobFilter struct {
	UserID string
	Source string
	Status JobStatus
	Limit  int
	Offset int
}
