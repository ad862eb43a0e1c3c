package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore, görselleri yerel dizine yazar. URL'ler urlPrefix altından servis edilir.
//
// "public/images/events/a.jpg" → <dir>/events/a.jpg → <urlPrefix>/events/a.jpg
type DiskStore struct {
	dir       string
	urlPrefix string
}

// NewDiskStore, dizini oluşturur.
func NewDiskStore(dir, urlPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *DiskStore) Name() string { return "disk" }

func (s *DiskStore) Put(_ context.Context, repoPath string, content []byte) (string, error) {
	rel, err := s.relative(repoPath)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(s.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	if err := os.WriteFile(dest, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", rel, err)
	}

	return s.urlPrefix + "/" + rel, nil
}

func (s *DiskStore) Delete(_ context.Context, repoPath string) error {
	rel, err := s.relative(repoPath)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel))); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotExist, repoPath)
		}
		return fmt.Errorf("failed to delete %s: %w", rel, err)
	}
	return nil
}

func (s *DiskStore) relative(repoPath string) (string, error) {
	cleaned, err := CheckPath(repoPath)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(cleaned, ImagesRoot), nil
}
