package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"coursemenu/internal/modules/course/domain"
	courseout "coursemenu/internal/modules/course/port/out"
	apperrors "coursemenu/internal/platform/errors"
)

// VaultExportStore writes export bundles under an output root. Existing
// files are overwritten; files from earlier runs are left alone.
type VaultExportStore struct {
	root string
}

func NewVaultExportStore(root string) courseout.ExportStore {
	return &VaultExportStore{root: root}
}

func (s *VaultExportStore) Write(ctx context.Context, bundle domain.ExportBundle) (string, error) {
	if bundle.Dir == "" {
		return "", fmt.Errorf("%w: export bundle has no directory", apperrors.ErrInvalidInput)
	}
	courseDir := filepath.Join(s.root, bundle.Dir)
	if err := mkdir(courseDir); err != nil {
		return "", err
	}
	for _, dir := range bundle.Dirs {
		if err := mkdir(filepath.Join(courseDir, filepath.FromSlash(dir))); err != nil {
			return "", err
		}
	}
	for _, file := range bundle.Files {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		target := filepath.Join(courseDir, filepath.FromSlash(file.Path))
		if err := mkdir(filepath.Dir(target)); err != nil {
			return "", err
		}
		if err := os.WriteFile(target, file.Content, 0o644); err != nil {
			return "", &apperrors.FilesystemError{Op: "write", Path: target, Err: err}
		}
	}
	return courseDir, nil
}

func mkdir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return &apperrors.FilesystemError{Op: "create directory", Path: path, Err: err}
	}
	return nil
}
