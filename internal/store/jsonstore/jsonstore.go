package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSON-backed key-value storage. Single file, human-readable, portable.
// No locking; the file is owned by one local single-user process.

// ErrCorrupt is returned by Get when the file is not a JSON object of strings.
var ErrCorrupt = errors.New("corrupt storage file")

// Store keeps every key in one JSON object on disk.
type Store struct {
	path string
}

// New returns a Store backed by the file at path. The file is created on
// the first Set.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

func (s *Store) load() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	kv := map[string]string{}
	if err := json.Unmarshal(b, &kv); err != nil {
		return nil, fmt.Errorf("%w: json unmarshal %s: %v", ErrCorrupt, s.path, err)
	}
	return kv, nil
}

// Get returns the value stored under key. A malformed file reports an error
// wrapping ErrCorrupt.
func (s *Store) Get(key string) (string, bool, error) {
	kv, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := kv[key]
	return v, ok, nil
}

// Set overwrites key. A malformed file is replaced rather than merged.
func (s *Store) Set(key, value string) error {
	kv, err := s.load()
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return err
		}
		kv = map[string]string{}
	}
	kv[key] = value

	b, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tada-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (s *Store) Close() error { return nil }
