package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"solve/internal/modules/report/domain"
	reportout "solve/internal/modules/report/port/out"
	apperrors "solve/internal/platform/errors"
	"solve/internal/platform/markdown"
	"solve/internal/platform/slug"
)

type FileExportStore struct{}

func NewFileExportStore() reportout.ExportStore {
	return FileExportStore{}
}

func (FileExportStore) Save(_ context.Context, dir string, report domain.Report, meta domain.ExportMeta, body string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	rendered, err := markdown.Render(meta, body)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, domain.ExportName(meta.ExportedAt, slug.Make(report.Title)))
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// List reads the frontmatter of every exported report in dir, newest first.
// Files without readable frontmatter are skipped.
func (FileExportStore) List(_ context.Context, dir string) ([]domain.Exported, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read export directory: %w", err)
	}
	out := []domain.Exported{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var meta domain.ExportMeta
		if _, err := markdown.Split(string(raw), &meta); err != nil || meta.SessionID == "" {
			continue
		}
		out = append(out, domain.Exported{Path: path, Meta: meta})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Meta.ExportedAt.After(out[j].Meta.ExportedAt) })
	return out, nil
}
