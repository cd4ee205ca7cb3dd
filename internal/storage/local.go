package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore keeps files on the local disk under a base directory. Stored
// paths are relative and slash-separated, so they are safe to persist and
// to append to a public URL.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) Save(_ context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	// Client filenames are untrusted; only the extension survives.
	name := uuid.New().String() + strings.ToLower(filepath.Ext(fh.Filename))
	rel := dir + "/" + name

	if err := os.MkdirAll(filepath.Join(s.baseDir, dir), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.baseDir, dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	return rel, nil
}

func (s *LocalStore) Delete(_ context.Context, path string) error {
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(path)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
