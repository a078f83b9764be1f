package testutil

import (
	"path/filepath"
	"testing"

	"github.com/nhle/calendar/internal/model"
	"github.com/nhle/calendar/internal/store"
)

// NewTestFileStore opens a FileStore on a fresh file under t.TempDir().
// It automatically releases the lock when the test completes.
func NewTestFileStore(t *testing.T) *store.FileStore {
	t.Helper()

	s, err := store.OpenFileStore(filepath.Join(t.TempDir(), "tasks.txt"))
	if err != nil {
		t.Fatalf("creating test file store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test file store: %v", err)
		}
	})

	return s
}

// MustDate parses a dd/MM/yyyy date or fails the test.
func MustDate(t *testing.T, s string) model.Date {
	t.Helper()

	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("parsing date %q: %v", s, err)
	}
	return d
}

// MemoryPersister records every snapshot it is asked to save.
type MemoryPersister struct {
	Saves []store.Snapshot
	Err   error
}

// Save records snap and returns p.Err.
func (p *MemoryPersister) Save(snap store.Snapshot) error {
	p.Saves = append(p.Saves, snap)
	return p.Err
}

// Last returns the most recent snapshot, or nil when nothing was saved.
func (p *MemoryPersister) Last() store.Snapshot {
	if len(p.Saves) == 0 {
		return nil
	}
	return p.Saves[len(p.Saves)-1]
}
