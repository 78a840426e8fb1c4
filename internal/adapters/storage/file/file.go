// Package file stores each blob as a JSON file in one directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/jsamuelsen/campus-qa/internal/domain"
)

// validKey keeps keys usable as plain file names.
var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Store writes <dir>/<key>.json with an atomic rename.
type Store struct {
	dir string
}

// Open creates dir if needed and returns a store rooted there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", domain.NewValidationErrorWithValue("key", "must be a plain file name", key)
	}

	return filepath.Join(s.dir, key+".json"), nil
}

// Get reads the blob for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.NewNotFoundError(domain.EntityBlob, key)
	}

	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}

	return data, nil
}

// Put replaces the blob for key. Readers see either the old or the new file.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	_, werr := tmp.Write(value)
	serr := tmp.Sync()
	cerr := tmp.Close()

	if err := errors.Join(werr, serr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", p, err)
	}

	return nil
}

// Delete removes the blob for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", p, err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "storage.file" }

// Check verifies the data directory is still a writable directory.
func (s *Store) Check(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return domain.NewUnavailableError("file", err.Error())
	}

	if !info.IsDir() {
		return domain.NewUnavailableError("file", s.dir+" is not a directory")
	}

	return ctx.Err()
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
