// Package filestore keeps uploaded images and generated documents on the
// local filesystem under a single root directory.
package filestore

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/csg33k/hrdoc-generator/internal/domain"
	"github.com/csg33k/hrdoc-generator/internal/fields"
)

const maxNameLen = 60

var unsafeRun = regexp.MustCompile(`[^a-z0-9.]+`)

type Store struct {
	root string
}

// New returns a Store rooted at dir, creating it when needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Store{root: dir}, nil
}

// Put writes data under prefix and returns its storage key, which is
// "<prefix>/<uuid>-<sanitised name>".
func (s *Store) Put(prefix, name string, data []byte) (string, error) {
	prefix = SanitizeName(prefix, "files")
	key := path.Join(prefix, uuid.NewString()+"-"+SanitizeName(name, "file"))
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return key, nil
}

// Open opens the file for key.
func (s *Store) Open(key string) (*os.File, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q: %w", key, domain.ErrNotFound)
	}
	return f, err
}

// Read returns the contents stored under key.
func (s *Store) Read(key string) ([]byte, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q: %w", key, domain.ErrNotFound)
	}
	return b, err
}

// path resolves key inside the root, rejecting traversal.
func (s *Store) path(key string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(key))
	if key == "" || clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: storage key %q", domain.ErrInvalidInput, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean[1:])), nil
}

// SanitizeName folds accents, lower-cases, replaces anything other than
// letters, digits and dots with "_" and caps the length. fallback is used
// when nothing survives.
func SanitizeName(name, fallback string) string {
	s := fields.Fold(name)
	s = unsafeRun.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_.")
	if len(s) > maxNameLen {
		s = strings.TrimRight(s[:maxNameLen], "_.")
	}
	if s == "" {
		return fallback
	}
	return s
}
