package ingest

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dlazarev/finadvisor/internal/jobs"
	"github.com/dlazarev/finadvisor/internal/store/memory"
)

type mockStorage struct {
	fetchFn func(ctx context.Context, uri string) ([]byte, error)
}

func (m *mockStorage) Upload(ctx context.Context, objectName string, r io.Reader) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockStorage) Fetch(ctx context.Context, uri string) ([]byte, error) {
	return m.fetchFn(ctx, uri)
}

func TestImporterHandle(t *testing.T) {
	csv := "Date,Description,Amount,Category\n2026-03-01,TESCO,-10.00,Groceries\n"
	storage := &mockStorage{
		fetchFn: func(_ context.Context, uri string) ([]byte, error) {
			if uri != "gs://bucket/u1/spending.csv" {
				return nil, errors.New("unexpected URI")
			}
			return []byte(csv), nil
		},
	}
	repo := memory.NewRepository()
	importer := NewImporter(storage, repo, zerolog.Nop())

	job := &jobs.ImportProviderFileJob{
		JobID:  "j1",
		UserID: "u1",
		Source: SourceSpending,
		GCSURI: "gs://bucket/u1/spending.csv",
	}
	if err := importer.Handle(context.Background(), job); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if job.RecordCount != 1 {
		t.Fatalf("expected record count 1, got %d", job.RecordCount)
	}

	bySource, err := repo.ListProviderRecords(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListProviderRecords: %v", err)
	}
	if len(bySource[SourceSpending]) != 1 {
		t.Fatalf("expected 1 stored record, got %+v", bySource)
	}
}

func TestImporterHandleFetchError(t *testing.T) {
	storage := &mockStorage{
		fetchFn: func(context.Context, string) ([]byte, error) {
			return nil, errors.New("object missing")
		},
	}
	importer := NewImporter(storage, memory.NewRepository(), zerolog.Nop())

	job := &jobs.ImportProviderFileJob{JobID: "j1", UserID: "u1", Source: SourceSpending, GCSURI: "gs://b/x.csv"}
	if err := importer.Handle(context.Background(), job); err == nil {
		t.Fatal("expected error when fetch fails")
	}
}

func TestImporterHandleBadCSV(t *testing.T) {
	storage := &mockStorage{
		fetchFn: func(context.Context, string) ([]byte, error) {
			return []byte("Date,Description,Amount\n"), nil
		},
	}
	importer := NewImporter(storage, memory.NewRepository(), zerolog.Nop())

	job := &jobs.ImportProviderFileJob{JobID: "j1", UserID: "u1", Source: SourceRetirement, GCSURI: "gs://b/x.csv"}
	if err := importer.Handle(context.Background(), job); err == nil {
		t.Fatal("expected error for file with no usable rows")
	}
}
