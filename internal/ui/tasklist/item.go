package tasklist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todos/internal/model"
	"github.com/nhle/todos/internal/theme"
)

// Row is one checkable line: a task or a sub-task.
type Row struct {
	ID      string
	Text    string
	Checked bool

	// Done and Total count sub-tasks. Total is zero for sub-task rows.
	Done  int
	Total int
}

// FilterValue returns the string used for fuzzy filtering.
func (r Row) FilterValue() string { return r.Text }

// TaskRows converts tasks into rows.
func TaskRows(tasks []model.Task) []Row {
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		rows[i] = Row{
			ID:      t.ID,
			Text:    t.Title,
			Checked: t.Checked,
			Done:    t.CompletedSubTasks(),
			Total:   len(t.SubTasks),
		}
	}
	return rows
}

// SubTaskRows converts sub-tasks into rows.
func SubTaskRows(subTasks []model.SubTask) []Row {
	rows := make([]Row, len(subTasks))
	for i, s := range subTasks {
		rows[i] = Row{ID: s.ID, Text: s.Description, Checked: s.Checked}
	}
	return rows
}

// RowDelegate implements list.ItemDelegate for rows.
type RowDelegate struct {
	// Placeholder is shown for rows with empty text.
	Placeholder string
}

// Height returns the number of lines each row takes.
func (d RowDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between rows.
func (d RowDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d RowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single row.
func (d RowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(Row)
	if !ok {
		return
	}
	fmt.Fprint(w, renderRow(row, d.Placeholder, index == m.Index()))
}

func renderRow(row Row, placeholder string, selected bool) string {
	text := row.Text
	switch {
	case text == "":
		text = theme.PlaceholderStyle.Render(placeholder)
	case row.Checked:
		text = theme.CheckedStyle.Render(text)
	}

	line := theme.Checkbox(row.Checked) + " " + text
	if row.Total > 0 {
		counter := fmt.Sprintf(" %d/%d", row.Done, row.Total)
		line += theme.ProgressStyle(row.Done, row.Total).Render(counter)
	}

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}
