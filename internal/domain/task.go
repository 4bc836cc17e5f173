// Package domain contains core business types for the Tamarind client.
package domain

import (
	"strings"
	"time"
)

// Task represents a unit of work as the server reports it.
type Task struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	Category    string     `json:"category,omitempty"`
	Subtasks    []Subtask  `json:"subtasks"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	UserID      string     `json:"user,omitempty"`
}

// Subtask represents a decomposed unit of a Task. It belongs to exactly one
// parent; the parent's Subtasks slice is the sole authoritative location.
type Subtask struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	Priority  Priority  `json:"priority,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Status represents task and subtask workflow status
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists all statuses in board-column order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusCompleted}
}

// Valid reports whether s is one of the three enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Column returns the board column index for this status
func (s Status) Column() int {
	switch s {
	case StatusTodo:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 0
	}
}

// String returns the display string
func (s Status) String() string {
	return string(s)
}

// Label returns the human-readable column heading for this status
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// Priority represents task priority
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank returns a comparable weight; high sorts before medium before low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// String returns the display string
func (p Priority) String() string {
	return string(p)
}

// SubtaskProgress returns how many subtasks are completed out of the total.
func (t Task) SubtaskProgress() (done, total int) {
	for _, st := range t.Subtasks {
		if st.Status == StatusCompleted {
			done++
		}
	}
	return done, len(t.Subtasks)
}

// Clone returns a copy of the task with its own subtask slice, so mutating
// the copy never leaks into the original.
func (t Task) Clone() Task {
	out := t
	if t.Subtasks != nil {
		out.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(out.Subtasks, t.Subtasks)
	}
	return out
}

// TaskDraft is the client-supplied payload for creating a task.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Status      Status     `json:"status,omitempty"`
	Category    string     `json:"category,omitempty"`
}

// Validate checks the draft before any remote call is issued.
// Status defaults to todo and priority to medium when unset.
func (d *TaskDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if d.Status == "" {
		d.Status = StatusTodo
	}
	if !d.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown status " + string(d.Status)}
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	return nil
}

// TaskPatch is a partial update; nil fields are left untouched on merge.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Category    *string    `json:"category,omitempty"`
}

// Validate rejects patches that would blank out required text fields.
func (p *TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if p.Status != nil && !p.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown status " + string(*p.Status)}
	}
	return nil
}

// IsEmpty reports whether the patch carries no fields at all.
func (p *TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.StartDate == nil && p.Priority == nil && p.Status == nil && p.Category == nil
}

// ApplyTo merges the patch into a copy of t, field by field. Attributes not
// present in the patch keep their current values; the subtask slice is
// never touched by a patch.
func (p *TaskPatch) ApplyTo(t Task) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.DueDate != nil {
		out.DueDate = p.DueDate
	}
	if p.StartDate != nil {
		out.StartDate = p.StartDate
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	return out
}
