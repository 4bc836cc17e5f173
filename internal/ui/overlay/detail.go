package overlay

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamarindhq/tamarind/internal/domain"
)

// ToggleSubtaskMsg asks the app to flip one subtask's status
type ToggleSubtaskMsg struct {
	TaskID    string
	SubtaskID string
	Status    domain.Status
}

// GenerateSubtasksMsg asks the app to run AI subtask generation
type GenerateSubtasksMsg struct {
	TaskID string
	Title  string
}

// EditTaskMsg carries a partial update for a task
type EditTaskMsg struct {
	TaskID string
	Patch  domain.TaskPatch
}

// DeleteRequestMsg asks the app to confirm and delete a task
type DeleteRequestMsg struct {
	TaskID string
	Title  string
}

// DetailOverlay shows a single task with its subtasks and actions
type DetailOverlay struct {
	task       domain.Task
	generating bool
	aiEnabled  bool
	cursor     int
	renaming   bool
	rename     textinput.Model
	styles     *Styles
}

// NewDetailOverlay creates a detail overlay for the given task
func NewDetailOverlay(task domain.Task, aiEnabled bool) *DetailOverlay {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 56

	return &DetailOverlay{
		task:      task,
		aiEnabled: aiEnabled,
		rename:    ti,
		styles:    New(),
	}
}

// Init initializes the overlay
func (d *DetailOverlay) Init() tea.Cmd {
	return nil
}

// SetTask refreshes the displayed task after the underlying state changes
func (d *DetailOverlay) SetTask(task domain.Task, generating bool) {
	d.task = task
	d.generating = generating
	if d.cursor >= len(task.Subtasks) {
		d.cursor = max(0, len(task.Subtasks)-1)
	}
}

// TaskID returns the id of the task being shown
func (d *DetailOverlay) TaskID() string {
	return d.task.ID
}

// Update handles messages
func (d *DetailOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	if d.renaming {
		switch keyMsg.String() {
		case "esc":
			d.renaming = false
			return d, nil
		case "enter":
			title := strings.TrimSpace(d.rename.Value())
			d.renaming = false
			if title == "" || title == d.task.Title {
				return d, nil
			}
			taskID := d.task.ID
			return d, func() tea.Msg {
				return EditTaskMsg{TaskID: taskID, Patch: domain.TaskPatch{Title: &title}}
			}
		}
		var cmd tea.Cmd
		d.rename, cmd = d.rename.Update(msg)
		return d, cmd
	}

	switch keyMsg.String() {
	case "esc", "q":
		return d, func() tea.Msg { return CloseOverlayMsg{} }

	case "j", "down":
		if d.cursor < len(d.task.Subtasks)-1 {
			d.cursor++
		}
		return d, nil

	case "k", "up":
		if d.cursor > 0 {
			d.cursor--
		}
		return d, nil

	case " ":
		// Toggle the selected subtask between done and todo.
		if d.cursor >= len(d.task.Subtasks) {
			return d, nil
		}
		sub := d.task.Subtasks[d.cursor]
		next := domain.StatusCompleted
		if sub.Status == domain.StatusCompleted {
			next = domain.StatusTodo
		}
		taskID := d.task.ID
		return d, func() tea.Msg {
			return ToggleSubtaskMsg{TaskID: taskID, SubtaskID: sub.ID, Status: next}
		}

	case "a":
		if !d.aiEnabled || d.generating {
			return d, nil
		}
		taskID, title := d.task.ID, d.task.Title
		return d, func() tea.Msg {
			return GenerateSubtasksMsg{TaskID: taskID, Title: title}
		}

	case "s":
		next := nextStatus(d.task.Status)
		taskID := d.task.ID
		return d, func() tea.Msg {
			return EditTaskMsg{TaskID: taskID, Patch: domain.TaskPatch{Status: &next}}
		}

	case "p":
		next := nextPriority(d.task.Priority)
		taskID := d.task.ID
		return d, func() tea.Msg {
			return EditTaskMsg{TaskID: taskID, Patch: domain.TaskPatch{Priority: &next}}
		}

	case "e":
		d.renaming = true
		d.rename.SetValue(d.task.Title)
		d.rename.CursorEnd()
		d.rename.Focus()
		return d, textinput.Blink

	case "d":
		taskID, title := d.task.ID, d.task.Title
		return d, func() tea.Msg {
			return DeleteRequestMsg{TaskID: taskID, Title: title}
		}
	}

	return d, nil
}

func nextStatus(s domain.Status) domain.Status {
	switch s {
	case domain.StatusTodo:
		return domain.StatusInProgress
	case domain.StatusInProgress:
		return domain.StatusCompleted
	default:
		return domain.StatusTodo
	}
}

func nextPriority(p domain.Priority) domain.Priority {
	switch p {
	case domain.PriorityLow:
		return domain.PriorityMedium
	case domain.PriorityMedium:
		return domain.PriorityHigh
	default:
		return domain.PriorityLow
	}
}

// View renders the task detail
func (d *DetailOverlay) View() string {
	var b strings.Builder

	if d.renaming {
		b.WriteString(d.styles.Label.Render("Rename:"))
		b.WriteString("\n")
		b.WriteString(d.rename.View())
		b.WriteString("\n")
		b.WriteString(d.styles.Footer.Render("Enter: Save • Esc: Cancel"))
		return b.String()
	}

	b.WriteString(d.styles.Label.Render("Status: "))
	b.WriteString(d.styles.MenuItem.Render(d.task.Status.Label()))
	b.WriteString(d.styles.Separator.Render("  •  "))
	b.WriteString(d.styles.Label.Render("Priority: "))
	b.WriteString(d.styles.MenuItem.Render(d.task.Priority.String()))
	if d.task.Category != "" {
		b.WriteString(d.styles.Separator.Render("  •  "))
		b.WriteString(d.styles.MenuItem.Render(d.task.Category))
	}
	b.WriteString("\n")

	if d.task.DueDate != nil {
		b.WriteString(d.styles.Label.Render("Due: "))
		b.WriteString(d.styles.MenuItem.Render(d.task.DueDate.Format("Mon, Jan 2 2006")))
		b.WriteString("\n")
	}

	if d.task.Description != "" {
		b.WriteString("\n")
		b.WriteString(d.styles.MenuItem.Render(d.task.Description))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	done, total := d.task.SubtaskProgress()
	b.WriteString(d.styles.Label.Render(fmt.Sprintf("Subtasks (%d/%d)", done, total)))
	b.WriteString("\n")

	switch {
	case d.generating:
		b.WriteString(d.styles.Muted.Render("  generating subtasks..."))
		b.WriteString("\n")
	case total == 0:
		b.WriteString(d.styles.Muted.Render("  none"))
		b.WriteString("\n")
	default:
		for i, sub := range d.task.Subtasks {
			cursor := "  "
			if i == d.cursor {
				cursor = "▶ "
			}

			check := "[ ] "
			style := d.styles.MenuItem
			if sub.Status == domain.StatusCompleted {
				check = "[x] "
				style = d.styles.Done
			}

			b.WriteString(cursor + check + style.Render(sub.Title))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	hints := []string{
		d.styles.MenuKey.Render("Space") + " " + d.styles.Footer.Render("Toggle subtask"),
		d.styles.MenuKey.Render("s") + " " + d.styles.Footer.Render("Status"),
		d.styles.MenuKey.Render("p") + " " + d.styles.Footer.Render("Priority"),
		d.styles.MenuKey.Render("e") + " " + d.styles.Footer.Render("Rename"),
		d.styles.MenuKey.Render("d") + " " + d.styles.Footer.Render("Delete"),
	}
	if d.aiEnabled {
		hints = append(hints, d.styles.MenuKey.Render("a")+" "+d.styles.Footer.Render("AI subtasks"))
	}
	b.WriteString(d.styles.Footer.Render(strings.Join(hints, " • ")))

	return b.String()
}

// Title returns the overlay title
func (d *DetailOverlay) Title() string {
	return d.task.Title
}

// Size returns the overlay dimensions
func (d *DetailOverlay) Size() (width, height int) {
	height = 14 + len(d.task.Subtasks)
	if d.task.Description != "" {
		height += 2
	}
	return 70, height
}
