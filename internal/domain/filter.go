package domain

import (
	"strings"
	"time"
)

// Filter represents task filtering state
type Filter struct {
	Status      map[Status]bool
	Priority    map[Priority]bool
	Category    string
	DueMaxDays  *int
	SearchQuery string
}

// NewFilter creates a new empty filter
func NewFilter() *Filter {
	return &Filter{
		Status:   make(map[Status]bool),
		Priority: make(map[Priority]bool),
	}
}

// IsActive returns true if any filter is active
func (f *Filter) IsActive() bool {
	return len(f.Status) > 0 ||
		len(f.Priority) > 0 ||
		f.Category != "" ||
		f.DueMaxDays != nil ||
		f.SearchQuery != ""
}

// Apply filters a list of tasks
func (f *Filter) Apply(tasks []Task) []Task {
	if !f.IsActive() {
		return tasks
	}

	result := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if f.Matches(task) {
			result = append(result, task)
		}
	}
	return result
}

// Matches returns true if the task passes all active filters
// Uses AND logic between filter types, OR logic within filter types
func (f *Filter) Matches(t Task) bool {
	// Status filter (OR within)
	if len(f.Status) > 0 {
		if !f.Status[t.Status] {
			return false
		}
	}

	// Priority filter (OR within)
	if len(f.Priority) > 0 {
		if !f.Priority[t.Priority] {
			return false
		}
	}

	// Category filter (exact, case-insensitive)
	if f.Category != "" {
		if !strings.EqualFold(t.Category, f.Category) {
			return false
		}
	}

	// Due-within filter; tasks without a due date never match it
	if f.DueMaxDays != nil {
		if t.DueDate == nil {
			return false
		}
		cutoff := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, *f.DueMaxDays+1)
		if !t.DueDate.Before(cutoff) {
			return false
		}
	}

	// Search query (case-insensitive, matches title, description or ID)
	if f.SearchQuery != "" {
		query := strings.ToLower(f.SearchQuery)
		title := strings.ToLower(t.Title)
		desc := strings.ToLower(t.Description)
		id := strings.ToLower(t.ID)

		if !strings.Contains(title, query) && !strings.Contains(desc, query) && !strings.Contains(id, query) {
			return false
		}
	}

	return true
}

// Clear resets all filters
func (f *Filter) Clear() {
	f.Status = make(map[Status]bool)
	f.Priority = make(map[Priority]bool)
	f.Category = ""
	f.DueMaxDays = nil
	f.SearchQuery = ""
}

// ToggleStatus toggles a status filter
func (f *Filter) ToggleStatus(s Status) {
	if f.Status[s] {
		delete(f.Status, s)
	} else {
		f.Status[s] = true
	}
}

// TogglePriority toggles a priority filter
func (f *Filter) TogglePriority(p Priority) {
	if f.Priority[p] {
		delete(f.Priority, p)
	} else {
		f.Priority[p] = true
	}
}
