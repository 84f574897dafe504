// Package store opens the persistent key-value slot that backs a todo list.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/store/sqlitestore"
)

// Slot is a local, synchronous, string-keyed persistent store.
type Slot interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON    = "json"
	BackendSQLite  = "sqlite"
	BackendSQLite3 = "sqlite3"
	BackendMemory  = "memory"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// ErrCorrupt is wrapped by Slot.Get when the backing container itself cannot
// be parsed. Callers may treat it as an empty slot; the next Set replaces it.
var ErrCorrupt = jsonstore.ErrCorrupt

const (
	jsonFileName   = "tada.json"
	sqliteFileName = "tada.db"
)

// Open returns the slot for backend, keeping its files under dataDir.
func Open(backend, dataDir string) (Slot, error) {
	if backend == BackendMemory {
		return memstore.New(), nil
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	switch backend {
	case BackendJSON, "":
		return jsonstore.New(filepath.Join(dataDir, jsonFileName)), nil
	case BackendSQLite:
		return sqlitestore.Open(sqlitestore.DriverModernc, filepath.Join(dataDir, sqliteFileName))
	case BackendSQLite3:
		return sqlitestore.Open(sqlitestore.DriverCgo, filepath.Join(dataDir, sqliteFileName))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
