// Package app contains the main application model and TEA implementation.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tamarindhq/tamarind/internal/config"
	"github.com/tamarindhq/tamarind/internal/domain"
	"github.com/tamarindhq/tamarind/internal/services/notify"
	"github.com/tamarindhq/tamarind/internal/types"
	"github.com/tamarindhq/tamarind/internal/ui/board"
	"github.com/tamarindhq/tamarind/internal/ui/overlay"
	"github.com/tamarindhq/tamarind/internal/ui/styles"
)

// Re-export Mode and Toast types for convenience
type Mode = types.Mode
type Toast = types.Toast

const (
	ModeNormal = types.ModeNormal
	ModeSearch = types.ModeSearch

	ToastInfo    = types.ToastInfo
	ToastSuccess = types.ToastSuccess
	ToastWarning = types.ToastWarning
	ToastError   = types.ToastError
)

// TaskManager is the synchronized task state the model renders from.
// *sync.Manager satisfies it.
type TaskManager interface {
	Load(ctx context.Context) ([]domain.Task, error)
	Tasks() []domain.Task
	Get(id string) (domain.Task, bool)
	CompletedCount() int
	Create(ctx context.Context, draft domain.TaskDraft) (domain.Task, error)
	SetStatus(ctx context.Context, id string, status domain.Status) error
	SetSubtaskStatus(ctx context.Context, taskID, subtaskID string, status domain.Status) error
	Update(ctx context.Context, id string, patch domain.TaskPatch) error
	Remove(ctx context.Context, id string) error
	GenerateSubtasks(ctx context.Context, id, title string) ([]domain.Subtask, error)
	Generating(id string) bool
}

// DescriptionGenerator drafts task descriptions. *ai.Client satisfies it.
type DescriptionGenerator interface {
	GenerateDescription(ctx context.Context, title string) (string, error)
}

// NoteStore is the notes portion of the API. *api.Client satisfies it.
type NoteStore interface {
	ListNotes(ctx context.Context) ([]domain.Note, error)
	CreateNote(ctx context.Context, draft domain.NoteDraft) (domain.Note, error)
	UpdateNote(ctx context.Context, id string, draft domain.NoteDraft) (domain.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// NotificationStore acknowledges notifications. *api.Client satisfies it.
type NotificationStore interface {
	MarkAllNotificationsRead(ctx context.Context) error
	ClearNotifications(ctx context.Context) error
}

// Deps bundles the services the model drives
type Deps struct {
	Manager       TaskManager
	AI            DescriptionGenerator
	Notes         NoteStore
	Notifications NotificationStore
	Online        func() bool
	Logger        *slog.Logger
}

// Model is the main application state
type Model struct {
	manager       TaskManager
	ai            DescriptionGenerator
	notes         NoteStore
	notifications NotificationStore
	online        func() bool

	// UI state
	mode         Mode
	cursor       board.Cursor
	filter       *domain.Filter
	sort         domain.Sort
	overlayStack *overlay.Stack
	toasts       []Toast
	unread       int

	// Terminal size
	width  int
	height int

	styles  *styles.Styles
	config  *config.Config
	logger  *slog.Logger
	loading bool
	spinner spinner.Model
}

// New creates a new application model with the given config and services
func New(cfg *config.Config, deps Deps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	online := deps.Online
	if online == nil {
		online = func() bool { return true }
	}

	return Model{
		manager:       deps.Manager,
		ai:            deps.AI,
		notes:         deps.Notes,
		notifications: deps.Notifications,
		online:        online,
		mode:          ModeNormal,
		filter:        domain.NewFilter(),
		sort:          domain.Sort{Field: domain.SortByPriority},
		overlayStack:  overlay.NewStack(),
		toasts:        []Toast{},
		styles:        styles.New(),
		config:        cfg,
		logger:        logger,
		loading:       true,
		spinner:       s,
	}
}

// Init returns the initial command for the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadTasksCmd(),
	)
}

// aiEnabled reports whether AI actions should be offered
func (m Model) aiEnabled() bool {
	return m.ai != nil && m.config.AI.IsEnabled()
}

// refreshInterval returns how often the board reloads from the server
func (m Model) refreshInterval() time.Duration {
	return time.Duration(m.config.UI.RefreshIntervalSec) * time.Second
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.overlayStack.IsEmpty() {
			return m, m.overlayStack.Update(msg)
		}
		return m.handleKey(msg)

	// Overlay lifecycle
	case overlay.CloseOverlayMsg:
		m.overlayStack.Pop()
		return m, nil

	case overlay.SelectionMsg:
		return m.handleSelection(msg)

	// Overlay intents
	case overlay.TaskSubmittedMsg:
		return m, m.createTaskCmd(msg.Draft)

	case overlay.GenerateDescriptionMsg:
		m.toasts = m.pushToast(ToastInfo, "Drafting description...", 3*time.Second)
		return m, m.generateDescriptionCmd(msg.Title)

	case overlay.ToggleSubtaskMsg:
		return m, m.toggleSubtaskCmd(msg.TaskID, msg.SubtaskID, msg.Status)

	case overlay.GenerateSubtasksMsg:
		return m, m.generateSubtasksCmd(msg.TaskID, msg.Title)

	case overlay.EditTaskMsg:
		return m, m.updateTaskCmd(msg.TaskID, msg.Patch)

	case overlay.DeleteRequestMsg:
		return m, m.pushDeleteConfirm(msg.TaskID, msg.Title)

	case overlay.NoteSubmittedMsg:
		return m, m.createNoteCmd(msg.Draft)

	case overlay.NoteUpdatedMsg:
		return m, m.updateNoteCmd(msg.NoteID, msg.Draft)

	case overlay.NoteDeleteMsg:
		return m, m.deleteNoteCmd(msg.NoteID)

	// Command results
	case tasksLoadedMsg:
		wasLoading := m.loading
		m.loading = false
		m.cursor = board.Clamp(m.buildColumns(), m.cursor)
		m.refreshDetailOverlay()
		if wasLoading {
			m.toasts = m.pushToast(ToastSuccess, fmt.Sprintf("Loaded %d tasks", msg.count), 3*time.Second)
		}
		return m, tickEvery(m.refreshInterval())

	case taskCreatedMsg:
		m.toasts = m.pushToast(ToastSuccess, "Task created: "+msg.task.Title, 3*time.Second)
		m.cursor = board.Clamp(m.buildColumns(), m.cursor)
		return m, nil

	case taskSyncedMsg:
		m.cursor = board.Clamp(m.buildColumns(), m.cursor)
		m.refreshDetailOverlay()
		if msg.op == "delete" {
			m.toasts = m.pushToast(ToastSuccess, "Task deleted", 2*time.Second)
		}
		return m, nil

	case taskErrorMsg:
		m.loading = false
		m.cursor = board.Clamp(m.buildColumns(), m.cursor)
		m.refreshDetailOverlay()
		m.toasts = m.pushToast(ToastError, errorText(msg), 6*time.Second)
		if msg.op == "load" {
			// Keep retrying; the breaker keeps a dead server cheap.
			return m, tickEvery(m.refreshInterval())
		}
		return m, nil

	case subtasksGeneratedMsg:
		m.refreshDetailOverlay()
		m.toasts = m.pushToast(ToastSuccess, fmt.Sprintf("Generated %d subtasks", msg.count), 3*time.Second)
		return m, nil

	case descriptionGeneratedMsg:
		if create, ok := m.overlayStack.Current().(*overlay.CreateTaskOverlay); ok {
			create.SetDescription(msg.text)
		}
		return m, nil

	case notesLoadedMsg:
		if notesOverlay, ok := m.overlayStack.Current().(*overlay.NotesOverlay); ok {
			notesOverlay.SetNotes(msg.notes)
		} else if msg.open {
			return m, m.overlayStack.Push(overlay.NewNotesOverlay(msg.notes))
		}
		return m, nil

	case noteMutatedMsg:
		return m, m.loadNotesCmd(false)

	case notificationsReadMsg:
		m.unread = 0
		return m, nil

	case notify.EventMsg:
		m.unread = msg.Unread
		for _, n := range msg.New {
			m.toasts = m.pushToast(ToastInfo, n.Message, 5*time.Second)
		}
		return m, nil

	case tickMsg:
		m.expireToasts()
		return m, m.loadTasksCmd()
	}

	return m, nil
}

// handleKey processes keyboard input based on current mode
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+l":
		return m, tea.ClearScreen
	}

	switch m.mode {
	case ModeSearch:
		return m.handleSearchMode(msg)
	default:
		return m.handleNormalMode(msg)
	}
}

// handleNormalMode processes keyboard input in normal mode
func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	columns := m.buildColumns()

	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "j", "down":
		m.cursor = board.Clamp(columns, board.Cursor{Column: m.cursor.Column, Task: m.cursor.Task + 1})
		return m, nil

	case "k", "up":
		m.cursor = board.Clamp(columns, board.Cursor{Column: m.cursor.Column, Task: m.cursor.Task - 1})
		return m, nil

	case "h", "left":
		m.cursor = board.Clamp(columns, board.Cursor{Column: m.cursor.Column - 1, Task: m.cursor.Task})
		return m, nil

	case "l", "right":
		m.cursor = board.Clamp(columns, board.Cursor{Column: m.cursor.Column + 1, Task: m.cursor.Task})
		return m, nil

	// Task actions
	case "enter":
		if task, ok := board.TaskAt(columns, m.cursor); ok {
			detail := overlay.NewDetailOverlay(task, m.aiEnabled())
			detail.SetTask(task, m.manager.Generating(task.ID))
			return m, m.overlayStack.Push(detail)
		}
		return m, nil

	case "c":
		return m, m.overlayStack.Push(overlay.NewCreateTaskOverlay(m.aiEnabled()))

	case "H":
		if task, ok := board.TaskAt(columns, m.cursor); ok {
			if prev, moved := shiftStatus(task.Status, -1); moved {
				return m, m.setStatusCmd(task.ID, prev)
			}
		}
		return m, nil

	case "L":
		if task, ok := board.TaskAt(columns, m.cursor); ok {
			if next, moved := shiftStatus(task.Status, +1); moved {
				return m, m.setStatusCmd(task.ID, next)
			}
		}
		return m, nil

	case "x":
		if task, ok := board.TaskAt(columns, m.cursor); ok {
			target := domain.StatusCompleted
			if task.Status == domain.StatusCompleted {
				target = domain.StatusTodo
			}
			return m, m.setStatusCmd(task.ID, target)
		}
		return m, nil

	case "d":
		if task, ok := board.TaskAt(columns, m.cursor); ok {
			return m, m.pushDeleteConfirm(task.ID, task.Title)
		}
		return m, nil

	case "a":
		if task, ok := board.TaskAt(columns, m.cursor); ok && m.aiEnabled() && !m.manager.Generating(task.ID) {
			return m, m.generateSubtasksCmd(task.ID, task.Title)
		}
		return m, nil

	// Board controls
	case "/":
		m.mode = ModeSearch
		return m, nil

	case "f":
		m.cyclePriorityFilter()
		m.cursor = board.Clamp(m.buildColumns(), m.cursor)
		return m, nil

	case "o":
		m.sort.Toggle(m.sort.Field)
		return m, nil

	case "r":
		m.toasts = m.pushToast(ToastInfo, "Reloading...", 2*time.Second)
		return m, m.loadTasksCmd()

	case "N":
		return m, m.loadNotesCmd(true)

	case "m":
		if m.unread > 0 && m.notifications != nil {
			return m, m.markNotificationsReadCmd()
		}
		return m, nil

	case "M":
		if m.notifications != nil {
			return m, m.clearNotificationsCmd()
		}
		return m, nil

	case "?":
		return m, m.overlayStack.Push(overlay.NewHelpOverlay())

	case "esc":
		if m.filter.IsActive() {
			m.filter.Clear()
			return m, nil
		}
		return m, nil
	}

	return m, nil
}

// handleSearchMode processes keyboard input in search mode
func (m Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.SearchQuery = ""
		m.mode = ModeNormal
		m.cursor = board.Clamp(m.buildColumns(), m.cursor)
		return m, nil

	case "enter":
		m.mode = ModeNormal
		return m, nil

	case "backspace":
		if q := m.filter.SearchQuery; q != "" {
			m.filter.SearchQuery = q[:len(q)-1]
		}
		m.cursor = board.Clamp(m.buildColumns(), m.cursor)
		return m, nil
	}

	if msg.Type == tea.KeyRunes {
		m.filter.SearchQuery += string(msg.Runes)
		m.cursor = board.Clamp(m.buildColumns(), m.cursor)
	}
	return m, nil
}

// handleSelection routes confirmed dialog results
func (m Model) handleSelection(msg overlay.SelectionMsg) (tea.Model, tea.Cmd) {
	result, ok := msg.Value.(overlay.ConfirmResult)
	if !ok || !result.Confirmed {
		return m, nil
	}

	switch msg.Key {
	case "delete-task":
		if id, ok := result.Value.(string); ok {
			return m, m.removeTaskCmd(id)
		}
	}
	return m, nil
}

// pushDeleteConfirm opens a confirmation dialog for task deletion
func (m *Model) pushDeleteConfirm(taskID, title string) tea.Cmd {
	message := fmt.Sprintf("Delete %q? This cannot be undone.", title)
	return m.overlayStack.Push(overlay.NewConfirmDialog("Delete Task", message, "delete-task", taskID))
}

// cyclePriorityFilter steps the priority filter through off, high,
// medium, low and back to off.
func (m *Model) cyclePriorityFilter() {
	order := []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow}

	current := -1
	for i, p := range order {
		if m.filter.Priority[p] {
			current = i
			break
		}
	}

	m.filter.Priority = make(map[domain.Priority]bool)
	if current+1 < len(order) {
		m.filter.Priority[order[current+1]] = true
	}
}

// shiftStatus moves a status one board column left or right
func shiftStatus(s domain.Status, delta int) (domain.Status, bool) {
	all := domain.Statuses()
	i := s.Column() + delta
	if i < 0 || i >= len(all) {
		return s, false
	}
	return all[i], true
}

// buildColumns converts the manager's tasks into board columns,
// applying filter and sort.
func (m Model) buildColumns() []board.Column {
	tasks := m.sort.Apply(m.filter.Apply(m.manager.Tasks()))
	return board.BuildColumns(tasks)
}

// refreshDetailOverlay pushes current task state into an open detail overlay
func (m *Model) refreshDetailOverlay() {
	detail, ok := m.overlayStack.Current().(*overlay.DetailOverlay)
	if !ok {
		return
	}
	task, found := m.manager.Get(detail.TaskID())
	if !found {
		// The task vanished underneath the overlay.
		m.overlayStack.Pop()
		return
	}
	detail.SetTask(task, m.manager.Generating(task.ID))
}

// pushToast appends a toast with an expiry
func (m Model) pushToast(level types.ToastLevel, message string, ttl time.Duration) []Toast {
	return append(m.toasts, Toast{
		Level:   level,
		Message: message,
		Expires: time.Now().Add(ttl),
	})
}

// expireToasts drops toasts past their expiry
func (m *Model) expireToasts() {
	now := time.Now()
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.Expires.After(now) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// errorText maps a command failure onto a short toast message
func errorText(msg taskErrorMsg) string {
	if errors.Is(msg.err, domain.ErrOffline) {
		return "Server unreachable, working offline"
	}

	var validationErr *domain.ValidationError
	if errors.As(msg.err, &validationErr) {
		return "Invalid " + validationErr.Field + ": " + validationErr.Reason
	}

	var apiErr *domain.APIError
	if errors.As(msg.err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	switch msg.op {
	case "load":
		return "Failed to load tasks"
	case "generate":
		return "Subtask generation failed"
	default:
		return "Sync failed, change rolled back"
	}
}
