// Package ai calls the service's AI generation endpoints.
package ai

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/tamarindhq/tamarind/internal/domain"
	"github.com/tamarindhq/tamarind/internal/services/api"
)

// Transport executes a JSON request and returns the raw body and status.
// *api.Transport satisfies it.
type Transport interface {
	Do(ctx context.Context, method, path string, payload any) ([]byte, int, error)
}

// Client generates subtasks and descriptions for tasks. Generation runs
// a model server-side, so calls are slow; the client stretches the
// deadline well past normal request timeouts.
type Client struct {
	transport Transport
	logger    *slog.Logger
	timeout   time.Duration
}

// NewClient creates an AI client over the given transport.
func NewClient(transport Transport, logger *slog.Logger) *Client {
	return &Client{
		transport: transport,
		logger:    logger,
		timeout:   60 * time.Second,
	}
}

type subtasksRequest struct {
	Title  string `json:"title"`
	TaskID string `json:"taskId"`
}

type subtasksResponse struct {
	Task domain.Task `json:"task"`
}

// GenerateSubtasks asks the service to break the titled task into
// subtasks. It returns the updated task with the generated subtasks
// already attached.
func (c *Client) GenerateSubtasks(ctx context.Context, taskID, title string) (domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	payload := subtasksRequest{Title: title, TaskID: taskID}

	body, status, err := c.transport.Do(ctx, http.MethodPost, "/ai/generate-subtasks", payload)
	if err != nil {
		return domain.Task{}, &domain.APIError{Op: "generate-subtasks", TaskID: taskID, Err: err}
	}
	if status >= 400 {
		return domain.Task{}, &domain.APIError{
			Op:         "generate-subtasks",
			TaskID:     taskID,
			StatusCode: status,
			Message:    api.ErrorMessage(body, http.StatusText(status)),
		}
	}

	var resp subtasksResponse
	if err := api.DecodePayload(body, &resp); err != nil {
		return domain.Task{}, &domain.APIError{Op: "generate-subtasks", TaskID: taskID, Message: "failed to parse response", Err: err}
	}

	c.logger.Info("subtasks generated",
		"task_id", taskID,
		"count", len(resp.Task.Subtasks),
		"took", time.Since(started).Round(time.Millisecond))
	return resp.Task, nil
}

type descriptionRequest struct {
	Title string `json:"title"`
}

type descriptionResponse struct {
	Description string `json:"description"`
}

// GenerateDescription asks the service to draft a description for a
// task title.
func (c *Client) GenerateDescription(ctx context.Context, title string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, status, err := c.transport.Do(ctx, http.MethodPost, "/ai/generate-description", descriptionRequest{Title: title})
	if err != nil {
		return "", &domain.APIError{Op: "generate-description", Err: err}
	}
	if status >= 400 {
		return "", &domain.APIError{
			Op:         "generate-description",
			StatusCode: status,
			Message:    api.ErrorMessage(body, http.StatusText(status)),
		}
	}

	var resp descriptionResponse
	if err := api.DecodePayload(body, &resp); err != nil {
		return "", &domain.APIError{Op: "generate-description", Message: "failed to parse response", Err: err}
	}
	return resp.Description, nil
}
