package domain

import (
	"strings"
	"time"
)

// Note is a free-form note kept alongside tasks.
type Note struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    string    `json:"user,omitempty"`
}

// NoteDraft is the payload for creating a note.
type NoteDraft struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// Validate checks the draft before any remote call is issued.
func (d *NoteDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return nil
}

// Notification is a server-pushed event delivered to the user.
type Notification struct {
	ID        string    `json:"_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
