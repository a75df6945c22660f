package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// FileStore persists each collection as <dir>/<collection>.json.
// It is the default backend and mirrors the single-user local storage
// the stores were designed around.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a
// file-backed substrate.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(collection string) string {
	return filepath.Join(f.dir, collection+".json")
}

func (f *FileStore) Load(_ context.Context, collection string, v any) (bool, error) {
	data, err := os.ReadFile(f.path(collection))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s snapshot: %w", collection, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Corrupt snapshots degrade to "empty" so a bad file never
		// wedges the store.
		log.Printf("storage: corrupt %s snapshot, treating as empty: %v", collection, err)
		return false, nil
	}
	return true, nil
}

func (f *FileStore) Save(_ context.Context, collection string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", collection, err)
	}
	// Write to a temp file and rename so readers never observe a
	// partially written snapshot.
	tmp, err := os.CreateTemp(f.dir, collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s snapshot: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s snapshot: %w", collection, err)
	}
	if err := os.Rename(tmp.Name(), f.path(collection)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s snapshot: %w", collection, err)
	}
	return nil
}
