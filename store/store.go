// Package store is the embedded file-backed storage fallback, used when no
// DATABASE_URL is configured. Accounts and cards live in two independent
// JSON files under the data directory, loaded at open and rewritten on every
// mutation. It implements the same repository interfaces as the Postgres
// backend, including the unique constraint on account email.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	cardmodel "cardstudio/internal/card/model"
)

const (
	accountsFile = "accounts.json"
	cardsFile    = "cards.json"
)

type FileStore struct {
	mu       sync.Mutex
	dir      string
	accounts map[string]accountRecord
	cards    map[string]cardmodel.Card
}

// Open loads (or initializes) the data directory.
func Open(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	fs := &FileStore{
		dir:      dir,
		accounts: make(map[string]accountRecord),
		cards:    make(map[string]cardmodel.Card),
	}
	if err := loadCollection(filepath.Join(dir, accountsFile), fs.accounts, func(a accountRecord) string { return a.ID }); err != nil {
		return nil, err
	}
	if err := loadCollection(filepath.Join(dir, cardsFile), fs.cards, func(c cardmodel.Card) string { return c.ID }); err != nil {
		return nil, err
	}
	return fs, nil
}

// Accounts returns the credential-store view of the file store.
func (f *FileStore) Accounts() *AccountStore {
	return &AccountStore{fs: f}
}

// Cards returns the design-store view of the file store.
func (f *FileStore) Cards() *CardStore {
	return &CardStore{fs: f}
}

func loadCollection[T any](path string, into map[string]T, key func(T) string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	for _, rec := range records {
		into[key(rec)] = rec
	}
	return nil
}

// persist rewrites one collection file. Callers must hold the lock. The
// write goes through a temp file and rename so a crash never truncates data.
func persist[T any](dir, name string, records map[string]T) error {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
