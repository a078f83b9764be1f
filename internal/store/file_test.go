package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestOpenFileStoreCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.txt")

	fs, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	defer fs.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("task file not created: %v", err)
	}
	snap, err := fs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Len() != 0 {
		t.Errorf("new file loaded %d records", snap.Len())
	}
}

func TestFileStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	fs, err := OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}

	s := populated(t)
	if err := fs.Save(s.Snapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := fs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	snap, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	loaded := New()
	if err := loaded.LoadFromSnapshot(snap); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tuples(loaded), tuples(s)) {
		t.Error("tasks differ after save and reload")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temporary file %s left behind", e.Name())
		}
	}
}

func TestOpenFileStoreLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	first, err := OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := OpenFileStore(path); !errors.Is(err, ErrLocked) {
		t.Errorf("second open error = %v, want ErrLocked", err)
	}

	if err := first.Close(); err != nil {
		t.Fatal(err)
	}
	second, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("open after close: %v", err)
	}
	second.Close()
}

func TestLoadUpgradesVersion1File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	if err := os.WriteFile(path, []byte("10/06/2024|T|Buy milk\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs, err := OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fs.Close()

	snap, err := fs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := fs.Save(snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "# calendar tasks v2\n10/06/2024|T|Buy milk|none\n"
	if string(data) != want {
		t.Errorf("file =\n%s\nwant\n%s", data, want)
	}
}
