// Package uploads stores listing images on local disk.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes uploaded files into a single directory and hands back the
// public path they will be served from.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed and returns a Store for it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory files are stored in, for static serving.
func (s *Store) Dir() string {
	return s.dir
}

// Save persists one uploaded file under a server-generated name. The client
// filename only contributes its extension; everything else is discarded so
// untrusted names never reach the filesystem.
func (s *Store) Save(file *multipart.FileHeader) (string, error) {
	name := uuid.NewString() + safeExt(file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return "/uploads/" + name, nil
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "" {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
