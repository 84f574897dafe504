package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/todo"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
)

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m = send(m, runes(string(r)))
	}
	return m
}

func newModel(t *testing.T, texts ...string) (Model, *todo.Store, *memstore.Store) {
	t.Helper()
	slot := memstore.New()
	s, err := todo.Open(slot)
	require.NoError(t, err)
	for _, text := range texts {
		_, err := s.Add(text)
		require.NoError(t, err)
	}
	m := New(s, nil)
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, s, slot
}

func TestEmptyState(t *testing.T) {
	m, _, _ := newModel(t)
	assert.Contains(t, m.View(), emptyText)
}

func TestInlineAdd(t *testing.T) {
	m, s, slot := newModel(t)
	m = send(m, runes("a"))
	require.True(t, m.adding)
	m = typeText(m, "Buy milk")
	m = send(m, enter)

	assert.False(t, m.adding)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "Buy milk", s.Todos()[0].Text)
	assert.Contains(t, m.View(), "Buy milk")

	_, ok, _ := slot.Get(todo.DefaultKey)
	assert.True(t, ok, "add should persist immediately")
}

func TestInlineAddBlankIsIgnored(t *testing.T) {
	m, s, _ := newModel(t)
	m = send(m, runes("a"))
	m = typeText(m, "   ")
	m = send(m, enter)
	assert.False(t, m.adding)
	assert.Equal(t, 0, s.Len())
}

func TestEscCancelsAdd(t *testing.T) {
	m, s, _ := newModel(t)
	m = send(m, runes("a"))
	m = typeText(m, "nope")
	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.adding)
	assert.Equal(t, 0, s.Len())
}

func TestToggleAndDeleteSelected(t *testing.T) {
	m, s, _ := newModel(t, "A", "B")

	m = send(m, space)
	assert.True(t, s.Todos()[0].Completed)

	m = send(m, tea.KeyMsg{Type: tea.KeyDown})
	m = send(m, runes("d"))
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "A", s.Todos()[0].Text)
	assert.Len(t, m.list.Items(), 1)
}

func TestWriteFailureShowsStatus(t *testing.T) {
	m, s, slot := newModel(t, "A")
	slot.FailWrites = errors.New("disk full")

	m = send(m, space)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "disk full")
	assert.True(t, s.Todos()[0].Completed, "memory stays authoritative")
}

func TestQuit(t *testing.T) {
	m, _, _ := newModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
