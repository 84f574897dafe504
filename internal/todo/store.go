// Package todo owns the in-memory todo list and mirrors it to a persistent
// slot after every mutation.
package todo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/codec"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// DefaultKey is the slot key the list is stored under.
const DefaultKey = "todos"

// Slot is the persistent key-value storage a Store reads at Open and
// overwrites after each mutation.
type Slot interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// PersistError reports a failed write. The mutation it follows has already
// been applied in memory and stays applied.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %q: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Store is the ordered todo list. It is not safe for concurrent use;
// callers serialize operations.
type Store struct {
	slot  Slot
	key   string
	newID func() string
	log   *zap.Logger

	todos []model.Todo
}

// Option configures a Store.
type Option func(*Store)

// WithKey stores the list under key instead of DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open loads the list from slot. An absent or malformed value starts an
// empty list; only a failing read is returned as an error.
func Open(slot Slot, opts ...Option) (*Store, error) {
	s := &Store{
		slot:  slot,
		key:   DefaultKey,
		newID: uuid.NewString,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.todos = []model.Todo{}
	value, ok, err := slot.Get(s.key)
	switch {
	case errors.Is(err, store.ErrCorrupt):
		s.log.Warn("discarding unreadable storage", zap.String("key", s.key), zap.Error(err))
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read %q: %w", s.key, err)
	case !ok:
		s.log.Debug("no saved list", zap.String("key", s.key))
		return s, nil
	}

	todos, err := codec.Decode(value)
	if err != nil {
		s.log.Warn("discarding saved list", zap.String("key", s.key), zap.Error(err))
		return s, nil
	}
	s.todos = todos
	s.log.Debug("loaded list", zap.String("key", s.key), zap.Int("count", len(todos)))
	return s, nil
}

// Add appends a new item with the trimmed text. Blank text is ignored and
// the zero Todo is returned. Invalid UTF-8 is replaced with U+FFFD so the
// stored text matches what JSON can hold.
func (s *Store) Add(rawText string) (model.Todo, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return model.Todo{}, nil
	}
	text = strings.ToValidUTF8(text, "\uFFFD")
	t := model.Todo{ID: s.newID(), Text: text}
	s.todos = append(s.todos, t)
	return t, s.persist()
}

// Toggle flips Completed on the item with id, keeping its position.
// It reports whether an item was found.
func (s *Store) Toggle(id string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	t := s.todos[i]
	t.Completed = !t.Completed
	s.todos[i] = t
	return true, s.persist()
}

// Delete removes the item with id, keeping the order of the rest.
// It reports whether an item was found.
func (s *Store) Delete(id string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
	return true, s.persist()
}

// Todos returns a copy of the list in display order.
func (s *Store) Todos() []model.Todo {
	out := make([]model.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Get returns the item with id.
func (s *Store) Get(id string) (model.Todo, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Todo{}, false
	}
	return s.todos[i], true
}

// Len returns the number of items.
func (s *Store) Len() int { return len(s.todos) }

// Stats counts completed and pending items.
func (s *Store) Stats() (done, pending int) {
	for _, t := range s.todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persist() error {
	value, err := codec.Encode(s.todos)
	if err != nil {
		return &PersistError{Key: s.key, Err: err}
	}
	if err := s.slot.Set(s.key, value); err != nil {
		s.log.Error("persist failed", zap.String("key", s.key), zap.Error(err))
		return &PersistError{Key: s.key, Err: err}
	}
	s.log.Debug("persisted", zap.String("key", s.key), zap.Int("count", len(s.todos)))
	return nil
}
