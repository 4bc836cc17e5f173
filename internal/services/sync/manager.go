// Package sync owns the client's view of the remote task collection. It
// applies mutations optimistically, reconciles them against authoritative
// server responses, and rolls back on rejection.
package sync

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tamarindhq/tamarind/internal/domain"
)

// Store is the remote task store consumed by the manager.
type Store interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, draft domain.TaskDraft) (domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status domain.Status) error
	UpdateSubtaskStatus(ctx context.Context, taskID, subtaskID string, status domain.Status) error
	DeleteTask(ctx context.Context, id string) error
}

// Generator produces AI-generated subtasks for a task. Long-latency and
// fallible; the manager exposes a per-task pending flag while it runs.
type Generator interface {
	GenerateSubtasks(ctx context.Context, taskID, title string) (domain.Task, error)
}

// Manager mediates between optimistic local mutation and authoritative
// server state. All methods are safe for concurrent use; tea.Cmd goroutines
// call the blocking mutation methods while the render loop reads.
type Manager struct {
	mu         sync.RWMutex
	store      Store
	gen        Generator
	logger     *slog.Logger
	tasks      []domain.Task
	seq        map[string]uint64
	generating map[string]bool
}

// NewManager creates a manager with injected collaborators.
func NewManager(store Store, gen Generator, logger *slog.Logger) *Manager {
	return &Manager{
		store:      store,
		gen:        gen,
		logger:     logger,
		tasks:      []domain.Task{},
		seq:        make(map[string]uint64),
		generating: make(map[string]bool),
	}
}

// Load fetches the full collection and replaces local state wholesale.
// This is a reconciliation point: unconfirmed optimistic edits are
// superseded by the server's version. On failure local state is untouched.
func (m *Manager) Load(ctx context.Context) ([]domain.Task, error) {
	fetched, err := m.store.ListTasks(ctx)
	if err != nil {
		m.logger.Warn("task load failed", "error", err)
		return nil, err
	}

	replacement := make([]domain.Task, len(fetched))
	for i, t := range fetched {
		replacement[i] = normalize(t)
	}

	m.mu.Lock()
	m.tasks = replacement
	// The reload supersedes every in-flight mutation. Advancing each
	// entity's sequence makes late rejections stale, so they cannot
	// restore a pre-reload snapshot over fresher server state.
	for id := range m.seq {
		m.seq[id]++
	}
	m.mu.Unlock()

	m.logger.Debug("tasks loaded", "count", len(replacement))
	return m.Tasks(), nil
}

// Tasks returns a copy of the current collection in display order.
func (m *Manager) Tasks() []domain.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Task, len(m.tasks))
	for i, t := range m.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Get returns a copy of the task with the given id, if present.
func (m *Manager) Get(id string) (domain.Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := indexOf(m.tasks, id); i >= 0 {
		return m.tasks[i].Clone(), true
	}
	return domain.Task{}, false
}

// CompletedCount returns how many tasks are completed.
func (m *Manager) CompletedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, t := range m.tasks {
		if t.Status == domain.StatusCompleted {
			n++
		}
	}
	return n
}

// Create validates the draft, sends it to the store, and appends the
// authoritative result. The collection never holds a task without a
// server-assigned identifier, so nothing is staged optimistically.
func (m *Manager) Create(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	if err := draft.Validate(); err != nil {
		return domain.Task{}, err
	}

	created, err := m.store.CreateTask(ctx, draft)
	if err != nil {
		m.logger.Warn("task create failed", "error", err)
		return domain.Task{}, err
	}
	created = normalize(created)

	m.mu.Lock()
	m.tasks = append(cloneList(m.tasks), created.Clone())
	m.mu.Unlock()

	m.logger.Debug("task created", "id", created.ID)
	return created, nil
}

// SetStatus optimistically moves a task to the new status, then issues the
// remote mutation. Local state reflects the new status before the call
// returns control to the network; a rejected mutation is rolled back
// unless a newer mutation for the task has superseded it.
func (m *Manager) SetStatus(ctx context.Context, id string, status domain.Status) error {
	if !status.Valid() {
		return &domain.ValidationError{Field: "status", Reason: "unknown status " + string(status)}
	}

	seq, snap := m.stage(id, func(t *domain.Task) {
		t.Status = status
	})

	err := m.store.UpdateTaskStatus(ctx, id, status)
	return m.resolve("status", id, seq, snap, err)
}

// SetSubtaskStatus optimistically updates one subtask inside its parent,
// rebuilding both levels immutably, then issues the remote mutation. The
// remote call proceeds even when the ids are locally absent.
func (m *Manager) SetSubtaskStatus(ctx context.Context, taskID, subtaskID string, status domain.Status) error {
	if !status.Valid() {
		return &domain.ValidationError{Field: "status", Reason: "unknown status " + string(status)}
	}

	seq, snap := m.stage(taskID, func(t *domain.Task) {
		for i := range t.Subtasks {
			if t.Subtasks[i].ID == subtaskID {
				t.Subtasks[i].Status = status
				return
			}
		}
	})

	err := m.store.UpdateSubtaskStatus(ctx, taskID, subtaskID, status)
	return m.resolve("subtask-status", taskID, seq, snap, err)
}

// Update applies a partial update optimistically, sends it to the store,
// and on confirmation folds the server's echo into the entity. The merge
// is field-level: attributes absent from the patch stay untouched.
func (m *Manager) Update(ctx context.Context, id string, patch domain.TaskPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}

	seq, snap := m.stage(id, func(t *domain.Task) {
		*t = patch.ApplyTo(*t)
	})

	updated, err := m.store.UpdateTask(ctx, id, patch)
	if err := m.resolve("update", id, seq, snap, err); err != nil {
		return err
	}

	// Fold in server-owned fields from the echo, if this is still the
	// latest resolution for the entity.
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seq[id] != seq {
		return nil
	}
	if i := indexOf(m.tasks, id); i >= 0 {
		t := m.tasks[i].Clone()
		t.UpdatedAt = updated.UpdatedAt
		m.tasks = replaceAt(m.tasks, i, t)
	}
	return nil
}

// Remove optimistically deletes the task locally and issues the remote
// delete. Removal is idempotent: an absent id is a local no-op, but the
// remote call is still attempted.
func (m *Manager) Remove(ctx context.Context, id string) error {
	seq, snap := m.stageRemoval(id)

	err := m.store.DeleteTask(ctx, id)
	return m.resolve("delete", id, seq, snap, err)
}

// GenerateSubtasks delegates to the AI generator and, on success, replaces
// the task's subtask sequence wholesale with the generated one. While the
// call is pending Generating(id) reports true so the UI can render a
// placeholder. On failure the prior subtasks are retained.
func (m *Manager) GenerateSubtasks(ctx context.Context, id, title string) ([]domain.Subtask, error) {
	m.mu.Lock()
	m.generating[id] = true
	m.mu.Unlock()

	generated, err := m.gen.GenerateSubtasks(ctx, id, title)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.generating, id)

	if err != nil {
		m.logger.Warn("subtask generation failed", "id", id, "error", err)
		return nil, err
	}

	generated = normalize(generated)
	if i := indexOf(m.tasks, id); i >= 0 {
		t := m.tasks[i].Clone()
		t.Subtasks = make([]domain.Subtask, len(generated.Subtasks))
		copy(t.Subtasks, generated.Subtasks)
		m.tasks = replaceAt(m.tasks, i, t)
	}

	m.logger.Debug("subtasks generated", "id", id, "count", len(generated.Subtasks))
	out := make([]domain.Subtask, len(generated.Subtasks))
	copy(out, generated.Subtasks)
	return out, nil
}

// Generating reports whether an AI generation is pending for the task.
func (m *Manager) Generating(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generating[id]
}

// normalize guarantees the invariant that subtasks are always present as a
// possibly-empty sequence, never nil, to keep downstream mapping total.
func normalize(t domain.Task) domain.Task {
	if t.Subtasks == nil {
		t.Subtasks = []domain.Subtask{}
	}
	return t
}

func indexOf(tasks []domain.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneList(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	return out
}

// replaceAt rebuilds the slice with a new entity at the mutated slot, so
// renderers relying on reference change detection see a fresh collection.
func replaceAt(tasks []domain.Task, i int, t domain.Task) []domain.Task {
	out := cloneList(tasks)
	out[i] = t
	return out
}

func removeAt(tasks []domain.Task, i int) []domain.Task {
	out := make([]domain.Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}

func insertAt(tasks []domain.Task, i int, t domain.Task) []domain.Task {
	if i > len(tasks) {
		i = len(tasks)
	}
	out := make([]domain.Task, 0, len(tasks)+1)
	out = append(out, tasks[:i]...)
	out = append(out, t)
	return append(out, tasks[i:]...)
}
