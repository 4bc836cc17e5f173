package domain

import (
	"testing"
	"time"
)

func sampleTasks() []Task {
	due := time.Now().AddDate(0, 0, 2)
	farDue := time.Now().AddDate(0, 1, 0)
	return []Task{
		{ID: "t1", Title: "Buy milk", Status: StatusTodo, Priority: PriorityLow, Category: "home", DueDate: &due},
		{ID: "t2", Title: "Ship release", Status: StatusInProgress, Priority: PriorityHigh, Category: "work", DueDate: &farDue},
		{ID: "t3", Title: "Write report", Description: "quarterly numbers", Status: StatusCompleted, Priority: PriorityMedium, Category: "work"},
	}
}

func TestFilter_Inactive(t *testing.T) {
	f := NewFilter()

	if f.IsActive() {
		t.Error("empty filter should be inactive")
	}
	if got := f.Apply(sampleTasks()); len(got) != 3 {
		t.Errorf("inactive filter filtered tasks: got %d", len(got))
	}
}

func TestFilter_Status(t *testing.T) {
	f := NewFilter()
	f.ToggleStatus(StatusTodo)

	got := f.Apply(sampleTasks())
	if len(got) != 1 || got[0].ID != "t1" {
		t.Errorf("status filter returned %+v", got)
	}

	// Toggling off deactivates
	f.ToggleStatus(StatusTodo)
	if f.IsActive() {
		t.Error("filter should be inactive after toggle off")
	}
}

func TestFilter_PriorityAndCategory(t *testing.T) {
	f := NewFilter()
	f.TogglePriority(PriorityHigh)
	f.TogglePriority(PriorityMedium)
	f.Category = "work"

	got := f.Apply(sampleTasks())
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	for _, task := range got {
		if task.Category != "work" {
			t.Errorf("unexpected task %s", task.ID)
		}
	}
}

func TestFilter_DueMaxDays(t *testing.T) {
	f := NewFilter()
	days := 7
	f.DueMaxDays = &days

	got := f.Apply(sampleTasks())
	// Only t1 is due within a week; t3 has no due date and never matches.
	if len(got) != 1 || got[0].ID != "t1" {
		t.Errorf("due filter returned %+v", got)
	}
}

func TestFilter_Search(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"milk", []string{"t1"}},
		{"QUARTERLY", []string{"t3"}},
		{"t2", []string{"t2"}},
		{"nothing matches", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := NewFilter()
			f.SearchQuery = tt.query

			got := f.Apply(sampleTasks())
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tasks, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("got[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFilter_Clear(t *testing.T) {
	f := NewFilter()
	f.ToggleStatus(StatusTodo)
	f.Category = "work"
	f.SearchQuery = "x"

	f.Clear()
	if f.IsActive() {
		t.Error("filter still active after Clear")
	}
}
