// Package memstore is an in-memory key-value slot. Nothing survives the
// process; used for --ephemeral runs and tests.
package memstore

import "errors"

// ErrClosed is returned by Set after Close.
var ErrClosed = errors.New("memstore: closed")

type Store struct {
	kv     map[string]string
	closed bool

	// FailWrites makes every Set fail, for exercising write-failure paths.
	FailWrites error
}

func New() *Store {
	return &Store{kv: map[string]string{}}
}

func (s *Store) Get(key string) (string, bool, error) {
	v, ok := s.kv[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	if s.closed {
		return ErrClosed
	}
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.kv[key] = value
	return nil
}

func (s *Store) Close() error {
	s.closed = true
	return nil
}
