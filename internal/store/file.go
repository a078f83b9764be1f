package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by OpenFileStore when another process holds the
// task file.
var ErrLocked = errors.New("task file is in use by another process")

// FileStore persists snapshots to a single flat text file. Every Save
// rewrites the whole file through a temporary file and a rename, so the file
// on disk is always either the old or the new snapshot.
type FileStore struct {
	path string
	lock *flock.Flock
}

// OpenFileStore creates path and its parent directories when missing and
// takes an exclusive advisory lock on path + ".lock".
func OpenFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating task directory %s: %w", dir, err)
	}

	lk := flock.New(path + ".lock")
	locked, err := lk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}

	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		_ = lk.Unlock()
		return nil, fmt.Errorf("creating task file %s: %w", path, err)
	}
	f.Close()

	return &FileStore{path: path, lock: lk}, nil
}

// Path returns the task file path.
func (s *FileStore) Path() string { return s.path }

// Load reads and decodes the task file. Errors wrapping ErrMalformedLine
// come with a usable snapshot of the lines that did decode; any other error
// means the file could not be read.
func (s *FileStore) Load() (Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(Snapshot), nil
		}
		return nil, fmt.Errorf("reading task file %s: %w", s.path, err)
	}
	snap, err := Decode(bytes.NewReader(data))
	if err != nil && snap == nil {
		return nil, fmt.Errorf("decoding task file %s: %w", s.path, err)
	}
	return snap, err
}

// Save replaces the task file with snap.
func (s *FileStore) Save(snap Snapshot) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary task file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := Encode(tmp, snap); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replacing task file %s: %w", s.path, err)
	}
	return nil
}

// Close releases the file lock.
func (s *FileStore) Close() error {
	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("unlocking %s: %w", s.path, err)
	}
	return nil
}
