package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	courseout "coursemenu/internal/modules/course/adapter/out"
	"coursemenu/internal/modules/course/domain"
)

func TestSQLiteExportProjectorRecordsRuns(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), ".coursemenu", "index.db")
	projector := courseout.NewSQLiteExportProjector(dbPath)
	defer func() { _ = projector.Close() }()

	course := domain.Course{ID: 7, Title: "Go", Progress: "0/1", Sections: []domain.Section{{
		Position: 1, ID: 70, Title: "Intro",
		Lessons: []domain.Lesson{{SectionPosition: 1, LessonPosition: 1, ID: 700, Title: "Hello", Steps: []domain.Step{{Position: 1, ID: 7000}}}},
	}}}
	older := domain.NewExportRecord("run-1", "/out/07_Go", course, domain.ContentText, 0, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := domain.NewExportRecord("run-2", "/out/07_Go", course, domain.ContentFull, 2, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()
	if err := projector.RecordExport(ctx, older); err != nil {
		t.Fatalf("record older: %v", err)
	}
	if err := projector.RecordExport(ctx, newer); err != nil {
		t.Fatalf("record newer: %v", err)
	}

	runs, err := projector.ListExports(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "run-2" {
		t.Fatalf("expected newest first, got %+v", runs)
	}
	if runs[0].Content != domain.ContentFull || runs[0].Dangling != 2 || runs[0].Counts.Steps != 1 {
		t.Fatalf("unexpected row %+v", runs[0])
	}

	lessons, err := projector.LessonsForRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("lessons: %v", err)
	}
	if len(lessons) != 1 || lessons[0].Menu != "1.1" || lessons[0].File != "01_Intro/1.1_Hello.md" {
		t.Fatalf("unexpected lessons %+v", lessons)
	}

	if err := projector.RecordExport(ctx, older); err == nil {
		t.Fatalf("duplicate run id should be rejected")
	}
}

func TestSQLiteExportProjectorCreatesDatabaseOnFirstRecord(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	dbPath := filepath.Join(root, ".coursemenu", "index.db")
	projector := courseout.NewSQLiteExportProjector(dbPath)
	defer func() { _ = projector.Close() }()
	ctx := context.Background()

	runs, err := projector.ListExports(ctx)
	if err != nil || len(runs) != 0 {
		t.Fatalf("empty index should list nothing, got %v %v", runs, err)
	}
	lessons, err := projector.LessonsForRun(ctx, "run-1")
	if err != nil || len(lessons) != 0 {
		t.Fatalf("empty index should have no lessons, got %v %v", lessons, err)
	}
	if _, err := os.Stat(filepath.Join(root, ".coursemenu")); !os.IsNotExist(err) {
		t.Fatalf("reads must not create the index directory: %v", err)
	}

	record := domain.NewExportRecord("run-1", "/out/07_Go", domain.Course{ID: 7, Title: "Go", Progress: "0/0"}, domain.ContentText, 0, time.Now())
	if err := projector.RecordExport(ctx, record); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("record should create the database: %v", err)
	}
}
