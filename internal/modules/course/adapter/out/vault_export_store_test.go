package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	courseout "coursemenu/internal/modules/course/adapter/out"
	"coursemenu/internal/modules/course/domain"
	apperrors "coursemenu/internal/platform/errors"
)

func TestVaultExportStoreWritesBundle(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	store := courseout.NewVaultExportStore(root)
	bundle := domain.ExportBundle{
		Dir:  "07_Go",
		Dirs: []string{"01_Intro", "02_Empty"},
		Files: []domain.ExportFile{
			{Path: "left_menu.txt", Content: []byte("menu")},
			{Path: "01_Intro/1.1_Hello.md", Content: []byte("# 1.1 Hello")},
		},
	}

	dir, err := store.Write(context.Background(), bundle)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if dir != filepath.Join(root, "07_Go") {
		t.Fatalf("unexpected dir %s", dir)
	}
	content, err := os.ReadFile(filepath.Join(dir, "01_Intro", "1.1_Hello.md"))
	if err != nil || string(content) != "# 1.1 Hello" {
		t.Fatalf("lesson not written: %q %v", content, err)
	}
	if info, err := os.Stat(filepath.Join(dir, "02_Empty")); err != nil || !info.IsDir() {
		t.Fatalf("empty section dir should exist: %v", err)
	}
}

func TestVaultExportStoreFilesystemError(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	blocker := filepath.Join(root, "07_Go")
	if err := os.WriteFile(blocker, []byte("file in the way"), 0o644); err != nil {
		t.Fatalf("seed blocker: %v", err)
	}
	store := courseout.NewVaultExportStore(root)
	_, err := store.Write(context.Background(), domain.ExportBundle{Dir: "07_Go"})
	if !errors.Is(err, apperrors.ErrFilesystem) {
		t.Fatalf("expected filesystem error, got %v", err)
	}
}
