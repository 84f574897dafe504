package model

// Todo is the domain model for a todo entry.
// Text is set once at creation; only Completed ever changes.
type Todo struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// IsZero reports whether t is the empty Todo (no ID).
func (t Todo) IsZero() bool {
	return t.ID == ""
}
