package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"coursemenu/internal/modules/course/domain"
	apperrors "coursemenu/internal/platform/errors"

	_ "modernc.org/sqlite"
)

// SQLiteExportProjector opens its database on first use. Reads against a
// missing database return nothing; only RecordExport creates the file, so a
// run that fails before writing leaves no index behind.
type SQLiteExportProjector struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

func NewSQLiteExportProjector(dbPath string) *SQLiteExportProjector {
	return &SQLiteExportProjector{path: dbPath}
}

func (s *SQLiteExportProjector) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// conn returns the open database. With create unset it returns nil when the
// file does not exist yet.
func (s *SQLiteExportProjector) conn(ctx context.Context, create bool) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}
	if !create {
		if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, &apperrors.FilesystemError{Op: "create directory", Path: filepath.Dir(s.path), Err: err}
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.db = db
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS exports (
  run_id TEXT PRIMARY KEY,
  course_id INTEGER NOT NULL,
  title TEXT NOT NULL,
  progress TEXT NOT NULL,
  dir TEXT NOT NULL,
  content TEXT NOT NULL,
  sections INTEGER NOT NULL,
  lessons INTEGER NOT NULL,
  steps INTEGER NOT NULL,
  dangling INTEGER NOT NULL,
  exported_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS exported_lessons (
  run_id TEXT NOT NULL REFERENCES exports(run_id),
  menu TEXT NOT NULL,
  lesson_id INTEGER NOT NULL,
  title TEXT NOT NULL,
  file TEXT NOT NULL,
  steps INTEGER NOT NULL,
  PRIMARY KEY (run_id, menu)
);
CREATE INDEX IF NOT EXISTS exports_course_idx ON exports(course_id);
`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create export tables: %w", err)
	}
	return nil
}

func (s *SQLiteExportProjector) RecordExport(ctx context.Context, record domain.ExportRecord) error {
	db, err := s.conn(ctx, true)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export record: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertExport = `
INSERT INTO exports (run_id, course_id, title, progress, dir, content, sections, lessons, steps, dangling, exported_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	if _, err := tx.ExecContext(ctx, insertExport,
		record.RunID,
		record.CourseID,
		record.Title,
		record.Progress,
		record.Dir,
		string(record.Content),
		record.Counts.Sections,
		record.Counts.Lessons,
		record.Counts.Steps,
		record.Dangling,
		record.ExportedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert export: %w", err)
	}

	const insertLesson = `
INSERT INTO exported_lessons (run_id, menu, lesson_id, title, file, steps)
VALUES (?, ?, ?, ?, ?, ?);
`
	for _, lesson := range record.Lessons {
		if _, err := tx.ExecContext(ctx, insertLesson, record.RunID, lesson.Menu, lesson.LessonID, lesson.Title, lesson.File, lesson.Steps); err != nil {
			return fmt.Errorf("insert exported lesson %s: %w", lesson.Menu, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export record: %w", err)
	}
	return nil
}

// ListExports returns runs newest first, without their lesson rows.
func (s *SQLiteExportProjector) ListExports(ctx context.Context) ([]domain.ExportRecord, error) {
	const query = `
SELECT run_id, course_id, title, progress, dir, content, sections, lessons, steps, dangling, exported_at
FROM exports
ORDER BY exported_at DESC, run_id;
`
	db, err := s.conn(ctx, false)
	if err != nil || db == nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.ExportRecord
	for rows.Next() {
		var (
			rec        domain.ExportRecord
			content    string
			exportedAt string
		)
		if err := rows.Scan(&rec.RunID, &rec.CourseID, &rec.Title, &rec.Progress, &rec.Dir, &content,
			&rec.Counts.Sections, &rec.Counts.Lessons, &rec.Counts.Steps, &rec.Dangling, &exportedAt); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		rec.Content = domain.ContentMode(content)
		rec.ExportedAt, _ = time.Parse(time.RFC3339, exportedAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return out, nil
}

// LessonsForRun returns the lesson rows of one run in menu order.
func (s *SQLiteExportProjector) LessonsForRun(ctx context.Context, runID string) ([]domain.ExportedLesson, error) {
	db, err := s.conn(ctx, false)
	if err != nil || db == nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT menu, lesson_id, title, file, steps FROM exported_lessons WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query exported lessons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.ExportedLesson
	for rows.Next() {
		var l domain.ExportedLesson
		if err := rows.Scan(&l.Menu, &l.LessonID, &l.Title, &l.File, &l.Steps); err != nil {
			return nil, fmt.Errorf("scan exported lesson: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
