// Package storage provides local key-value stores that keep the client state
// (current identity, votes, custom images) across restarts.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"
)

// FileStore is a key-value store persisted as a single JSON object on disk.
// Every write replaces the file atomically, so a crash mid-write leaves the
// previous snapshot in place.
type FileStore struct {
	path string
	mu   sync.Mutex
	data map[string]string
}

// NewFileStore returns an empty store bound to path. Call Load to read it.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, data: map[string]string{}}
}

// Load reads the file into memory. A missing file yields an empty store.
// An unreadable or corrupt file also leaves the store empty, but the error is
// returned so the caller can report it.
func (fs *FileStore) Load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.data = map[string]string{}

	raw, err := os.ReadFile(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", fs.path, err)
	}
	if len(raw) == 0 {
		return nil
	}

	data := map[string]string{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode %s: %w", fs.path, err)
	}
	fs.data = data
	return nil
}

// Get returns the value stored under key and whether it was present.
func (fs *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	v, ok := fs.data[key]
	return v, ok, nil
}

// Set stores value under key and flushes the whole store to disk.
// On a failed flush the in-memory data is left untouched.
func (fs *FileStore) Set(_ context.Context, key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	next := maps.Clone(fs.data)
	next[key] = value
	if err := fs.save(next); err != nil {
		return err
	}
	fs.data = next
	return nil
}

// Delete removes key and flushes the store. Deleting a missing key is a no-op.
func (fs *FileStore) Delete(_ context.Context, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.data[key]; !ok {
		return nil
	}
	next := maps.Clone(fs.data)
	delete(next, key)
	if err := fs.save(next); err != nil {
		return err
	}
	fs.data = next
	return nil
}

func (fs *FileStore) save(data map[string]string) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage: %w", err)
	}
	return writeAtomic(fs.path, b)
}

// writeAtomic writes to a temp file in the target directory and renames it over path.
func writeAtomic(path string, b []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				err = multierr.Append(err, rmErr)
			}
		}
	}()

	if _, err = f.Write(b); err != nil {
		return multierr.Append(fmt.Errorf("write temp file: %w", err), f.Close())
	}
	if err = f.Sync(); err != nil {
		return multierr.Append(fmt.Errorf("sync temp file: %w", err), f.Close())
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
