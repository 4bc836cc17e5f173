package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamarindhq/tamarind/internal/domain"
)

// Command timeouts. Generation runs a model server-side and gets a much
// longer leash than plain CRUD.
const (
	requestTimeout  = 15 * time.Second
	generateTimeout = 90 * time.Second
)

type tasksLoadedMsg struct {
	count int
}

type taskCreatedMsg struct {
	task domain.Task
}

type taskSyncedMsg struct {
	op string
	id string
}

type taskErrorMsg struct {
	op  string
	err error
}

type subtasksGeneratedMsg struct {
	taskID string
	count  int
}

type descriptionGeneratedMsg struct {
	text string
}

type notesLoadedMsg struct {
	notes []domain.Note
	open  bool
}

type noteMutatedMsg struct{}

type notificationsReadMsg struct{}

type tickMsg time.Time

// tickEvery schedules a tickMsg after the given interval
func tickEvery(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadTasksCmd reloads the board from the server
func (m Model) loadTasksCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		tasks, err := m.manager.Load(ctx)
		if err != nil {
			return taskErrorMsg{op: "load", err: err}
		}
		return tasksLoadedMsg{count: len(tasks)}
	}
}

// createTaskCmd creates a task from the submitted draft
func (m Model) createTaskCmd(draft domain.TaskDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		task, err := m.manager.Create(ctx, draft)
		if err != nil {
			return taskErrorMsg{op: "create", err: err}
		}
		return taskCreatedMsg{task: task}
	}
}

// setStatusCmd moves a task to the given status
func (m Model) setStatusCmd(id string, status domain.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := m.manager.SetStatus(ctx, id, status); err != nil {
			return taskErrorMsg{op: "status", err: err}
		}
		return taskSyncedMsg{op: "status", id: id}
	}
}

// toggleSubtaskCmd flips one subtask's status
func (m Model) toggleSubtaskCmd(taskID, subtaskID string, status domain.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := m.manager.SetSubtaskStatus(ctx, taskID, subtaskID, status); err != nil {
			return taskErrorMsg{op: "subtask", err: err}
		}
		return taskSyncedMsg{op: "subtask", id: taskID}
	}
}

// updateTaskCmd applies a partial edit to a task
func (m Model) updateTaskCmd(id string, patch domain.TaskPatch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := m.manager.Update(ctx, id, patch); err != nil {
			return taskErrorMsg{op: "update", err: err}
		}
		return taskSyncedMsg{op: "update", id: id}
	}
}

// removeTaskCmd deletes a task
func (m Model) removeTaskCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := m.manager.Remove(ctx, id); err != nil {
			return taskErrorMsg{op: "delete", err: err}
		}
		return taskSyncedMsg{op: "delete", id: id}
	}
}

// generateSubtasksCmd runs AI subtask generation for a task
func (m Model) generateSubtasksCmd(taskID, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()

		subtasks, err := m.manager.GenerateSubtasks(ctx, taskID, title)
		if err != nil {
			return taskErrorMsg{op: "generate", err: err}
		}
		return subtasksGeneratedMsg{taskID: taskID, count: len(subtasks)}
	}
}

// generateDescriptionCmd asks the AI for a description draft
func (m Model) generateDescriptionCmd(title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()

		text, err := m.ai.GenerateDescription(ctx, title)
		if err != nil {
			return taskErrorMsg{op: "generate", err: err}
		}
		return descriptionGeneratedMsg{text: text}
	}
}

// loadNotesCmd fetches notes, optionally opening the notes overlay
func (m Model) loadNotesCmd(open bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		notes, err := m.notes.ListNotes(ctx)
		if err != nil {
			return taskErrorMsg{op: "notes", err: err}
		}
		return notesLoadedMsg{notes: notes, open: open}
	}
}

// createNoteCmd saves a new note
func (m Model) createNoteCmd(draft domain.NoteDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := draft.Validate(); err != nil {
			return taskErrorMsg{op: "note", err: err}
		}
		if _, err := m.notes.CreateNote(ctx, draft); err != nil {
			return taskErrorMsg{op: "note", err: err}
		}
		return noteMutatedMsg{}
	}
}

// updateNoteCmd saves an edited note
func (m Model) updateNoteCmd(id string, draft domain.NoteDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := draft.Validate(); err != nil {
			return taskErrorMsg{op: "note", err: err}
		}
		if _, err := m.notes.UpdateNote(ctx, id, draft); err != nil {
			return taskErrorMsg{op: "note", err: err}
		}
		return noteMutatedMsg{}
	}
}

// clearNotificationsCmd deletes every notification
func (m Model) clearNotificationsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := m.notifications.ClearNotifications(ctx); err != nil {
			return taskErrorMsg{op: "notifications", err: err}
		}
		return notificationsReadMsg{}
	}
}

// markNotificationsReadCmd acknowledges every notification
func (m Model) markNotificationsReadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := m.notifications.MarkAllNotificationsRead(ctx); err != nil {
			return taskErrorMsg{op: "notifications", err: err}
		}
		return notificationsReadMsg{}
	}
}

// deleteNoteCmd removes a note
func (m Model) deleteNoteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := m.notes.DeleteNote(ctx, id); err != nil {
			return taskErrorMsg{op: "note", err: err}
		}
		return noteMutatedMsg{}
	}
}
