package domain

import (
	"errors"
	"testing"
	"time"
)

func TestStatus_Column(t *testing.T) {
	tests := []struct {
		status Status
		want   int
	}{
		{StatusTodo, 0},
		{StatusInProgress, 1},
		{StatusCompleted, 2},
		{Status("unknown"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Column(); got != tt.want {
				t.Errorf("Status.Column() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_Valid(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusTodo, true},
		{StatusInProgress, true},
		{StatusCompleted, true},
		{Status("done"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.want {
				t.Errorf("Status.Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriority_Rank(t *testing.T) {
	tests := []struct {
		priority Priority
		want     int
	}{
		{PriorityHigh, 0},
		{PriorityMedium, 1},
		{PriorityLow, 2},
		{Priority(""), 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			if got := tt.priority.Rank(); got != tt.want {
				t.Errorf("Priority.Rank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTask_SubtaskProgress(t *testing.T) {
	task := Task{
		Subtasks: []Subtask{
			{ID: "s1", Status: StatusCompleted},
			{ID: "s2", Status: StatusTodo},
			{ID: "s3", Status: StatusCompleted},
		},
	}

	done, total := task.SubtaskProgress()
	if done != 2 || total != 3 {
		t.Errorf("SubtaskProgress() = (%d, %d), want (2, 3)", done, total)
	}

	done, total = Task{}.SubtaskProgress()
	if done != 0 || total != 0 {
		t.Errorf("SubtaskProgress() on empty task = (%d, %d), want (0, 0)", done, total)
	}
}

func TestTask_Clone(t *testing.T) {
	orig := Task{
		ID:       "t1",
		Title:    "Buy milk",
		Subtasks: []Subtask{{ID: "s1", Status: StatusTodo}},
	}

	clone := orig.Clone()
	clone.Subtasks[0].Status = StatusCompleted

	if orig.Subtasks[0].Status != StatusTodo {
		t.Error("mutating a clone's subtasks leaked into the original")
	}
}

func TestTaskDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		draft   TaskDraft
		wantErr bool
	}{
		{name: "valid", draft: TaskDraft{Title: "Buy milk"}},
		{name: "empty title", draft: TaskDraft{Title: "  "}, wantErr: true},
		{name: "bad status", draft: TaskDraft{Title: "x", Status: Status("done")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("Validate() error does not wrap ErrInvalid: %v", err)
				}
				return
			}
			if tt.draft.Status != StatusTodo {
				t.Errorf("status not defaulted: %v", tt.draft.Status)
			}
			if tt.draft.Priority != PriorityMedium {
				t.Errorf("priority not defaulted: %v", tt.draft.Priority)
			}
		})
	}
}

func TestTaskPatch_Validate(t *testing.T) {
	empty := ""
	title := "New title"
	bad := Status("archived")

	tests := []struct {
		name    string
		patch   TaskPatch
		wantErr bool
	}{
		{name: "empty patch ok", patch: TaskPatch{}},
		{name: "title set", patch: TaskPatch{Title: &title}},
		{name: "blank title rejected", patch: TaskPatch{Title: &empty}, wantErr: true},
		{name: "blank description rejected", patch: TaskPatch{Description: &empty}, wantErr: true},
		{name: "unknown status rejected", patch: TaskPatch{Status: &bad}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.patch.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskPatch_ApplyTo(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	title := "Renamed"
	status := StatusCompleted

	orig := Task{
		ID:          "t1",
		Title:       "Original",
		Description: "keep me",
		Status:      StatusTodo,
		Priority:    PriorityLow,
		Subtasks:    []Subtask{{ID: "s1"}},
	}

	patch := TaskPatch{Title: &title, Status: &status, DueDate: &due}
	got := patch.ApplyTo(orig)

	if got.ID != "t1" {
		t.Errorf("identity changed: %s", got.ID)
	}
	if got.Title != "Renamed" || got.Status != StatusCompleted {
		t.Errorf("patched fields not applied: %+v", got)
	}
	if got.Description != "keep me" || got.Priority != PriorityLow {
		t.Errorf("unpatched fields changed: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due date not applied: %v", got.DueDate)
	}
	if len(got.Subtasks) != 1 || got.Subtasks[0].ID != "s1" {
		t.Errorf("subtasks altered by patch: %+v", got.Subtasks)
	}
	if orig.Title != "Original" {
		t.Error("ApplyTo mutated the input task")
	}
}
