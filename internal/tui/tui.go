// Package tui is the interactive Bubble Tea front end for a todo.Store.
// Every key action calls the store right away, so the slot is written per
// mutation rather than on quit.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todo"
)

const emptyText = "No todos yet. Press a to add one!"

// listItem adapts model.Todo to bubbles/list.Item.
type listItem struct {
	todo model.Todo
}

func (i listItem) Title() string       { return i.todo.Text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Text }

// itemDelegate renders one todo per line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	box, text := mutedStyle.Render(boxUnchecked), it.todo.Text
	if it.todo.Completed {
		box, text = successStyle.Render(boxChecked), doneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

type keyMap struct {
	Add, Toggle, Delete, Quit key.Binding
}

var keys = keyMap{
	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the Bubble Tea model over a todo.Store.
type Model struct {
	store *todo.Store
	log   *zap.Logger

	list   list.Model
	width  int
	height int

	// Inline add
	adding bool
	ti     textinput.Model

	// status is the last non-fatal message, errors included.
	status    string
	statusErr bool
}

// New builds the model. log may be nil.
func New(store *todo.Store, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("todo", "todos")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Add a new todo..."
	ti.CharLimit = 0

	m := Model{store: store, log: log, list: l, ti: ti}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(store *todo.Store, log *zap.Logger) error {
	_, err := tea.NewProgram(New(store, log), tea.WithAltScreen()).Run()
	return err
}

// refresh reloads list items and the header from the store.
func (m *Model) refresh() {
	todos := m.store.Todos()
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, listItem{todo: t})
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}

	done, pending := m.store.Stats()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"Todos",
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), len(todos),
	)
}

// report records the outcome of a store call. Write failures are shown but
// never end the session; the in-memory list stays authoritative.
func (m *Model) report(ok string, err error) {
	var perr *todo.PersistError
	switch {
	case errors.As(err, &perr):
		m.log.Warn("write failed, keeping in-memory list", zap.Error(err))
		m.status, m.statusErr = "not saved: "+perr.Err.Error(), true
	case err != nil:
		m.status, m.statusErr = err.Error(), true
	default:
		m.status, m.statusErr = ok, false
	}
	m.refresh()
}

func (m Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it.todo, ok
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	if m.adding {
		return m.updateAdding(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(km, keys.Quit):
		return m, tea.Quit
	case key.Matches(km, keys.Toggle):
		if t, ok := m.selected(); ok {
			_, err := m.store.Toggle(t.ID)
			m.report("toggled", err)
		}
		return m, nil
	case key.Matches(km, keys.Delete):
		if t, ok := m.selected(); ok {
			_, err := m.store.Delete(t.ID)
			m.report("removed", err)
		}
		return m, nil
	case key.Matches(km, keys.Add):
		m.adding = true
		m.ti.SetValue("")
		m.resize()
		cmd := m.ti.Focus()
		return m, cmd
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			added, err := m.store.Add(m.ti.Value())
			m.closeInput()
			if added.IsZero() && err == nil {
				m.status, m.statusErr = "", false
				return m, nil
			}
			m.report("added", err)
			m.list.Select(len(m.list.Items()) - 1)
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.adding = false
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 5
	if m.adding {
		h -= 4
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	var b strings.Builder
	if len(m.list.Items()) == 0 {
		b.WriteString(titleStyle.Render("Todos") + "\n\n" + mutedStyle.Render(emptyText))
	} else {
		b.WriteString(m.list.View())
	}
	if m.adding {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		b.WriteString("\n" + bar.Render("Add new todo\n"+m.ti.View()))
	}
	if m.status != "" {
		style := mutedStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(m.status))
	}
	return panelStyle.Render(b.String())
}
