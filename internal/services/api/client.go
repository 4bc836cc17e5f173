package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tamarindhq/tamarind/internal/domain"
)

// Client wraps the task, note and notification endpoints of the service.
// It satisfies sync.Store and notify.Lister.
type Client struct {
	transport *Transport
	logger    *slog.Logger
}

// NewClient creates a client over the given transport.
func NewClient(transport *Transport, logger *slog.Logger) *Client {
	return &Client{
		transport: transport,
		logger:    logger,
	}
}

// call executes a request and maps transport and HTTP failures into a
// single *domain.APIError per operation.
func (c *Client) call(ctx context.Context, op, taskID, method, path string, payload, v any) error {
	body, status, err := c.transport.Do(ctx, method, path, payload)
	if err != nil {
		return &domain.APIError{Op: op, TaskID: taskID, Err: err}
	}
	if status >= 400 {
		apiErr := &domain.APIError{
			Op:         op,
			TaskID:     taskID,
			StatusCode: status,
			Message:    ErrorMessage(body, http.StatusText(status)),
		}
		if status == http.StatusNotFound {
			apiErr.Err = domain.ErrNotFound
		}
		return apiErr
	}
	if v == nil {
		return nil
	}
	if err := DecodePayload(body, v); err != nil {
		return &domain.APIError{Op: op, TaskID: taskID, Message: "failed to parse response", Err: err}
	}
	return nil
}

// Online reports whether the transport currently accepts requests.
func (c *Client) Online() bool {
	return c.transport.Online()
}

// ListTasks fetches the full ordered task collection.
func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.call(ctx, "list", "", http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched tasks", "count", len(tasks))
	return tasks, nil
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, id string) (domain.Task, error) {
	var task domain.Task
	if err := c.call(ctx, "get", id, http.MethodGet, "/tasks/"+id, nil, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// CreateTask creates a task and returns the server's authoritative
// representation, including the assigned identifier.
func (c *Client) CreateTask(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	var task domain.Task
	if err := c.call(ctx, "create", "", http.MethodPost, "/tasks", draft, &task); err != nil {
		return domain.Task{}, err
	}
	c.logger.Debug("task created", "id", task.ID)
	return task, nil
}

// UpdateTask sends a partial update and returns the updated task.
func (c *Client) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	var task domain.Task
	if err := c.call(ctx, "update", id, http.MethodPut, "/tasks/"+id, patch, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// UpdateTaskStatus changes a task's status.
func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status domain.Status) error {
	payload := map[string]domain.Status{"status": status}
	return c.call(ctx, "status", id, http.MethodPut, "/tasks/"+id+"/status", payload, nil)
}

// UpdateSubtaskStatus changes one subtask's status within its parent task.
func (c *Client) UpdateSubtaskStatus(ctx context.Context, taskID, subtaskID string, status domain.Status) error {
	payload := map[string]domain.Status{"status": status}
	path := "/tasks/" + taskID + "/subtasks/" + subtaskID + "/status"
	return c.call(ctx, "subtask-status", taskID, http.MethodPatch, path, payload, nil)
}

// DeleteTask deletes a task by id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.call(ctx, "delete", id, http.MethodDelete, "/tasks/"+id, nil, nil)
}

// ListNotes fetches all notes.
func (c *Client) ListNotes(ctx context.Context) ([]domain.Note, error) {
	var notes []domain.Note
	if err := c.call(ctx, "list-notes", "", http.MethodGet, "/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote creates a note.
func (c *Client) CreateNote(ctx context.Context, draft domain.NoteDraft) (domain.Note, error) {
	var note domain.Note
	if err := c.call(ctx, "create-note", "", http.MethodPost, "/notes", draft, &note); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

// UpdateNote replaces a note's title and content.
func (c *Client) UpdateNote(ctx context.Context, id string, draft domain.NoteDraft) (domain.Note, error) {
	var note domain.Note
	if err := c.call(ctx, "update-note", "", http.MethodPut, "/notes/"+id, draft, &note); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

// DeleteNote deletes a note by id.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.call(ctx, "delete-note", "", http.MethodDelete, "/notes/"+id, nil, nil)
}

// ListNotifications fetches the user's notifications, newest first.
func (c *Client) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	var notifications []domain.Notification
	if err := c.call(ctx, "notifications", "", http.MethodGet, "/notifications", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.call(ctx, "mark-all-read", "", http.MethodPost, "/notifications/mark-all-read", nil, nil)
}

// ClearNotifications deletes all notifications.
func (c *Client) ClearNotifications(ctx context.Context) error {
	return c.call(ctx, "clear-notifications", "", http.MethodDelete, "/notifications", nil, nil)
}
