package inmemory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dlazarev/finadvisor/internal/jobs"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestQueueProcessesJob(t *testing.T) {
	store := NewStore()
	queue := NewQueue(10, 2, store)
	defer queue.Close()

	var handled atomic.Int32
	handler := func(ctx context.Context, job jobs.Job) error {
		handled.Add(1)
		return nil
	}
	if err := queue.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start: %v", err)
	}

	job := &jobs.ImportProviderFileJob{UserID: "u1", Source: "spending", GCSURI: "gs://b/f.csv"}
	if err := queue.PublishImport(context.Background(), job); err != nil {
		t.Fatalf("PublishImport: %v", err)
	}
	if job.JobID == "" {
		t.Fatal("expected generated job ID")
	}

	waitFor(t, 2*time.Second, func() bool {
		stored, err := store.GetJob(context.Background(), job.JobID)
		return err == nil && stored.Status == jobs.JobStatusCompleted
	})
	if handled.Load() != 1 {
		t.Fatalf("expected 1 handled job, got %d", handled.Load())
	}
}

func TestQueueRetriesFailedJob(t *testing.T) {
	store := NewStore()
	queue := NewQueue(10, 1, store)
	defer queue.Close()

	var attempts atomic.Int32
	handler := func(ctx context.Context, job jobs.Job) error {
		if attempts.Add(1) == 1 {
			return errors.New("transient")
		}
		return nil
	}
	if err := queue.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start: %v", err)
	}

	job := &jobs.ImportProviderFileJob{UserID: "u1", Source: "spending", GCSURI: "gs://b/f.csv", MaxRetries: 2}
	if err := queue.PublishImport(context.Background(), job); err != nil {
		t.Fatalf("PublishImport: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		stored, err := store.GetJob(context.Background(), job.JobID)
		return err == nil && stored.Status == jobs.JobStatusCompleted
	})
	if attempts.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts.Load())
	}
}

func TestPublishAfterCloseFails(t *testing.T) {
	queue := NewQueue(1, 1, NewStore())
	if err := queue.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	err := queue.PublishImport(context.Background(), &jobs.ImportProviderFileJob{UserID: "u1"})
	if err == nil {
		t.Fatal("expected error publishing to closed queue")
	}
}

func TestStoreListFiltersAndOrders(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	for i, status := range []jobs.JobStatus{jobs.JobStatusCompleted, jobs.JobStatusFailed, jobs.JobStatusCompleted} {
		job := &jobs.ImportProviderFileJob{
			JobID:     string(rune('a' + i)),
			UserID:    "u1",
			Source:    "spending",
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.SaveJob(ctx, job); err != nil {
			t.Fatalf("SaveJob: %v", err)
		}
	}

	completed, err := store.ListJobs(ctx, jobs.JobFilter{UserID: "u1", Status: jobs.JobStatusCompleted})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(completed) != 2 {
		t.Fatalf("expected 2 completed jobs, got %d", len(completed))
	}
	if !completed[0].CreatedAt.After(completed[1].CreatedAt) {
		t.Fatal("expected newest-first ordering")
	}

	limited, err := store.ListJobs(ctx, jobs.JobFilter{UserID: "u1", Limit: 1})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 job with limit, got %d", len(limited))
	}
}
