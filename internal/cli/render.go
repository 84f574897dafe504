package cli

import (
	"fmt"
	"io"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

const (
	emptyText = "No todos yet. Add one with `todo add`!"
	maxText   = 80
)

// renderList prints the framed list with a progress header.
func renderList(w io.Writer, todos []model.Todo, group bool) {
	th := ui.Current()
	d, p := stats(todos)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(th.Title, "Todos"),
		ui.C(th.Success, th.SymDone), d,
		ui.C(th.Pending, th.SymUnchecked), p,
		ui.C(th.Accent, "Total"), len(todos),
	)

	lines := []string{header, ui.C(th.Muted, ui.ProgressBar(d, d+p, 28)), ""}
	switch {
	case len(todos) == 0:
		lines = append(lines, ui.C(th.Muted, emptyText))
	case group:
		lines = append(lines, groupLines(todos)...)
	default:
		lines = append(lines, flatLines(todos)...)
	}
	ui.Panel(w, lines)
}

func stats(todos []model.Todo) (done, pending int) {
	for _, t := range todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

type indexed struct {
	pos  int // 1-based position in the full list
	todo model.Todo
}

func flatLines(todos []model.Todo) []string {
	rows := make([]indexed, len(todos))
	for i, t := range todos {
		rows[i] = indexed{pos: i + 1, todo: t}
	}
	return rowLines(rows)
}

// rowLines keeps each item's position in the full list so the printed
// index is what `done` and `rm` accept.
func rowLines(rows []indexed) []string {
	th := ui.Current()
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		box, color := th.BoxUnchecked, th.Muted
		if r.todo.Completed {
			box, color = th.BoxChecked, th.Success
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.Dim(fmt.Sprintf("%2d.", r.pos)), ui.C(color, box), ui.Truncate(r.todo.Text, maxText)))
	}
	return out
}

func groupLines(todos []model.Todo) []string {
	var pend, done []indexed
	for i, t := range todos {
		r := indexed{pos: i + 1, todo: t}
		if t.Completed {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	th := ui.Current()
	section := func(title string, rows []indexed) []string {
		lines := []string{ui.C(th.Accent, title)}
		if len(rows) == 0 {
			return append(lines, ui.C(th.Muted, "(none)"))
		}
		return append(lines, rowLines(rows)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}
