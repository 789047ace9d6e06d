package backup

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/2beens/gymtracker/internal/workouts"
)

type historyRepo interface {
	Export(ctx context.Context, now time.Time) workouts.ExportDocument
	Import(ctx context.Context, doc workouts.ValidDocument) (int, error)
}

// ExportPayload renders the current history as an export document.
func ExportPayload(ctx context.Context, repo historyRepo, now time.Time) ([]byte, error) {
	payload, err := workouts.MarshalExport(repo.Export(ctx, now))
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return payload, nil
}

func ExportToFile(ctx context.Context, repo historyRepo, path string, now time.Time) error {
	payload, err := ExportPayload(ctx, repo, now)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write export %s: %w", path, err)
	}
	return nil
}

// ImportFromFile merges an export document (or a bare array of records)
// into the history and returns how many records were added.
func ImportFromFile(ctx context.Context, repo historyRepo, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read import %s: %w", path, err)
	}

	switch doc := workouts.ParseImportDocument(data).(type) {
	case workouts.InvalidDocument:
		return 0, doc.Err()
	case workouts.ValidDocument:
		return repo.Import(ctx, doc)
	default:
		return 0, fmt.Errorf("unexpected document type %T", doc)
	}
}
