package board

import "github.com/tamarindhq/tamarind/internal/domain"

// Column represents a kanban column with tasks
type Column struct {
	Title  string
	Status domain.Status
	Tasks  []domain.Task
}

// Cursor represents the current cursor position
type Cursor struct {
	Column int // Column index (0-2)
	Task   int // Task index within column
}

// BuildColumns groups tasks into the three status columns, preserving
// the order tasks arrive in.
func BuildColumns(tasks []domain.Task) []Column {
	columns := make([]Column, 0, len(domain.Statuses()))
	for _, status := range domain.Statuses() {
		columns = append(columns, Column{
			Title:  status.Label(),
			Status: status,
		})
	}

	for _, task := range tasks {
		for i := range columns {
			if columns[i].Status == task.Status {
				columns[i].Tasks = append(columns[i].Tasks, task)
				break
			}
		}
	}
	return columns
}

// TaskAt returns the task under the cursor, or false when the cursor
// points at an empty cell.
func TaskAt(columns []Column, cursor Cursor) (domain.Task, bool) {
	if cursor.Column < 0 || cursor.Column >= len(columns) {
		return domain.Task{}, false
	}
	col := columns[cursor.Column]
	if cursor.Task < 0 || cursor.Task >= len(col.Tasks) {
		return domain.Task{}, false
	}
	return col.Tasks[cursor.Task], true
}

// Clamp snaps the cursor back into range after the board contents change.
func Clamp(columns []Column, cursor Cursor) Cursor {
	if len(columns) == 0 {
		return Cursor{}
	}
	if cursor.Column < 0 {
		cursor.Column = 0
	}
	if cursor.Column >= len(columns) {
		cursor.Column = len(columns) - 1
	}
	tasks := columns[cursor.Column].Tasks
	if cursor.Task < 0 {
		cursor.Task = 0
	}
	if cursor.Task >= len(tasks) {
		cursor.Task = max(0, len(tasks)-1)
	}
	return cursor
}
