// Package codec converts a todo list to and from its persisted form: a JSON
// array of {"id", "text", "completed"} objects.
package codec

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrCorrupt wraps every failure to decode a persisted value.
var ErrCorrupt = errors.New("corrupt todo list")

//go:embed todos.schema.json
var schemaSource string

var schema = jsonschema.MustCompileString("https://github.com/Makepad-fr/tada/todos.schema.json", schemaSource)

// Encode serializes todos. A nil list encodes as "[]".
func Encode(todos []model.Todo) (string, error) {
	if todos == nil {
		todos = []model.Todo{}
	}
	b, err := json.Marshal(todos)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(b), nil
}

// Decode parses a persisted value, checking its shape first.
// Whitespace-only texts and repeated ids are dropped so that a hand-edited
// value cannot break list invariants.
func Decode(value string) ([]model.Todo, error) {
	var doc any
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var raw []model.Todo
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	todos := make([]model.Todo, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			continue
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		todos = append(todos, t)
	}
	return todos, nil
}
