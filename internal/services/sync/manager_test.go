package sync

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamarindhq/tamarind/internal/domain"
)

// mockStore implements Store with overridable behavior per call
type mockStore struct {
	list      func(ctx context.Context) ([]domain.Task, error)
	create    func(ctx context.Context, draft domain.TaskDraft) (domain.Task, error)
	update    func(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error)
	status    func(ctx context.Context, id string, status domain.Status) error
	substatus func(ctx context.Context, taskID, subtaskID string, status domain.Status) error
	del       func(ctx context.Context, id string) error
}

func (m *mockStore) ListTasks(ctx context.Context) ([]domain.Task, error) {
	if m.list == nil {
		return nil, nil
	}
	return m.list(ctx)
}

func (m *mockStore) CreateTask(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	if m.create == nil {
		return domain.Task{}, nil
	}
	return m.create(ctx, draft)
}

func (m *mockStore) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	if m.update == nil {
		return domain.Task{}, nil
	}
	return m.update(ctx, id, patch)
}

func (m *mockStore) UpdateTaskStatus(ctx context.Context, id string, status domain.Status) error {
	if m.status == nil {
		return nil
	}
	return m.status(ctx, id, status)
}

func (m *mockStore) UpdateSubtaskStatus(ctx context.Context, taskID, subtaskID string, status domain.Status) error {
	if m.substatus == nil {
		return nil
	}
	return m.substatus(ctx, taskID, subtaskID, status)
}

func (m *mockStore) DeleteTask(ctx context.Context, id string) error {
	if m.del == nil {
		return nil
	}
	return m.del(ctx, id)
}

// mockGenerator implements Generator
type mockGenerator struct {
	generate func(ctx context.Context, taskID, title string) (domain.Task, error)
}

func (m *mockGenerator) GenerateSubtasks(ctx context.Context, taskID, title string) (domain.Task, error) {
	if m.generate == nil {
		return domain.Task{}, nil
	}
	return m.generate(ctx, taskID, title)
}

func serverTasks() []domain.Task {
	return []domain.Task{
		{
			ID: "t1", Title: "Buy milk", Status: domain.StatusTodo, Priority: domain.PriorityLow,
			Subtasks: []domain.Subtask{
				{ID: "s1", Title: "Find store", Status: domain.StatusTodo},
				{ID: "s2", Title: "Pay", Status: domain.StatusTodo},
			},
		},
		{ID: "t2", Title: "Ship release", Status: domain.StatusInProgress, Priority: domain.PriorityHigh},
		{ID: "t3", Title: "Write report", Status: domain.StatusTodo},
	}
}

func loadedManager(t *testing.T, store *mockStore, gen Generator) *Manager {
	t.Helper()
	if store.list == nil {
		store.list = func(ctx context.Context) ([]domain.Task, error) {
			return serverTasks(), nil
		}
	}
	m := NewManager(store, gen, slog.Default())
	_, err := m.Load(context.Background())
	require.NoError(t, err)
	return m
}

func TestManager_Load(t *testing.T) {
	t.Run("replaces collection and preserves subtask order", func(t *testing.T) {
		m := loadedManager(t, &mockStore{}, &mockGenerator{})

		tasks := m.Tasks()
		require.Len(t, tasks, 3)

		task, ok := m.Get("t1")
		require.True(t, ok)
		require.Len(t, task.Subtasks, 2)
		assert.Equal(t, "s1", task.Subtasks[0].ID)
		assert.Equal(t, "s2", task.Subtasks[1].ID)
	})

	t.Run("normalizes nil subtasks to empty slice", func(t *testing.T) {
		m := loadedManager(t, &mockStore{}, &mockGenerator{})

		task, ok := m.Get("t2")
		require.True(t, ok)
		assert.NotNil(t, task.Subtasks)
		assert.Empty(t, task.Subtasks)
	})

	t.Run("idempotent without intervening mutations", func(t *testing.T) {
		m := loadedManager(t, &mockStore{}, &mockGenerator{})

		first := m.Tasks()
		_, err := m.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first, m.Tasks())
	})

	t.Run("failure leaves collection unchanged", func(t *testing.T) {
		store := &mockStore{}
		m := loadedManager(t, store, &mockGenerator{})

		store.list = func(ctx context.Context) ([]domain.Task, error) {
			return nil, errors.New("transport down")
		}

		_, err := m.Load(context.Background())
		require.Error(t, err)
		assert.Len(t, m.Tasks(), 3)
	})
}

func TestManager_Create(t *testing.T) {
	t.Run("appends server task with assigned id", func(t *testing.T) {
		store := &mockStore{
			create: func(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
				return domain.Task{
					ID:       "t9",
					Title:    draft.Title,
					Status:   draft.Status,
					Priority: draft.Priority,
				}, nil
			},
		}
		m := loadedManager(t, store, &mockGenerator{})

		created, err := m.Create(context.Background(), domain.TaskDraft{Title: "Buy milk", Priority: domain.PriorityLow})
		require.NoError(t, err)
		assert.Equal(t, "t9", created.ID)
		assert.Equal(t, domain.StatusTodo, created.Status)

		task, ok := m.Get("t9")
		require.True(t, ok)
		assert.Equal(t, "Buy milk", task.Title)
		assert.NotNil(t, task.Subtasks)
	})

	t.Run("validation failure issues no remote call", func(t *testing.T) {
		called := false
		store := &mockStore{
			create: func(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
				called = true
				return domain.Task{}, nil
			},
		}
		m := loadedManager(t, store, &mockGenerator{})

		_, err := m.Create(context.Background(), domain.TaskDraft{Title: "   "})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalid)
		assert.False(t, called)
		assert.Len(t, m.Tasks(), 3)
	})

	t.Run("remote failure leaves collection unchanged", func(t *testing.T) {
		store := &mockStore{
			create: func(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
				return domain.Task{}, errors.New("boom")
			},
		}
		m := loadedManager(t, store, &mockGenerator{})

		_, err := m.Create(context.Background(), domain.TaskDraft{Title: "Buy milk"})
		require.Error(t, err)
		assert.Len(t, m.Tasks(), 3)
	})
}

func TestManager_SetStatus(t *testing.T) {
	t.Run("optimistically visible before remote completion", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		store := &mockStore{
			status: func(ctx context.Context, id string, status domain.Status) error {
				close(started)
				<-release
				return nil
			},
		}
		m := loadedManager(t, store, &mockGenerator{})

		done := make(chan error, 1)
		go func() {
			done <- m.SetStatus(context.Background(), "t1", domain.StatusCompleted)
		}()

		<-started
		task, ok := m.Get("t1")
		require.True(t, ok)
		assert.Equal(t, domain.StatusCompleted, task.Status, "local state must reflect intent while the request is in flight")

		close(release)
		require.NoError(t, <-done)

		task, _ = m.Get("t1")
		assert.Equal(t, domain.StatusCompleted, task.Status, "confirmation retains the applied change")
	})

	t.Run("identity and other tasks untouched", func(t *testing.T) {
		m := loadedManager(t, &mockStore{}, &mockGenerator{})

		require.NoError(t, m.SetStatus(context.Background(), "t1", domain.StatusInProgress))

		task, ok := m.Get("t1")
		require.True(t, ok)
		assert.Equal(t, "t1", task.ID)
		assert.Len(t, task.Subtasks, 2, "status change must not alter the subtask sequence")

		other, _ := m.Get("t2")
		assert.Equal(t, domain.StatusInProgress, other.Status)
	})

	t.Run("rejected mutation rolls back to snapshot", func(t *testing.T) {
		store := &mockStore{
			status: func(ctx context.Context, id string, status domain.Status) error {
				return errors.New("503")
			},
		}
		m := loadedManager(t, store, &mockGenerator{})

		err := m.SetStatus(context.Background(), "t1", domain.StatusCompleted)
		require.Error(t, err)

		task, _ := m.Get("t1")
		assert.Equal(t, domain.StatusTodo, task.Status, "rejection must restore the pre-mutation state")
	})

	t.Run("locally absent id is a no-op but the remote call proceeds", func(t *testing.T) {
		var calledID string
		store := &mockStore{
			status: func(ctx context.Context, id string, status domain.Status) error {
				calledID = id
				return nil
			},
		}
		m := loadedManager(t, store, &mockGenerator{})

		require.NoError(t, m.SetStatus(context.Background(), "ghost", domain.StatusCompleted))
		assert.Equal(t, "ghost", calledID)
		assert.Len(t, m.Tasks(), 3)
	})

	t.Run("invalid status rejected before any remote call", func(t *testing.T) {
		called := false
		store := &mockStore{
			status: func(ctx context.Context, id string, status domain.Status) error {
				called = true
				return nil
			},
		}
		m := loadedManager(t, store, &mockGenerator{})

		err := m.SetStatus(context.Background(), "t1", domain.Status("archived"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalid)
		assert.False(t, called)
	})
}

func TestManager_StaleRejectionDiscarded(t *testing.T) {
	// Two rapid status changes on the same task: the first request fails
	// but resolves after the second succeeded. Last intent must win, so
	// the late rejection is discarded instead of rolling back.
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	calls := 0
	store := &mockStore{
		status: func(ctx context.Context, id string, status domain.Status) error {
			calls++
			if calls == 1 {
				close(firstStarted)
				<-releaseFirst
				return errors.New("timeout")
			}
			return nil
		},
	}
	m := loadedManager(t, store, &mockGenerator{})

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- m.SetStatus(context.Background(), "t1", domain.StatusInProgress)
	}()
	<-firstStarted

	// Second mutation supersedes the first while it is still in flight.
	require.NoError(t, m.SetStatus(context.Background(), "t1", domain.StatusCompleted))

	close(releaseFirst)
	require.Error(t, <-firstDone, "the failed call still surfaces its error")

	task, _ := m.Get("t1")
	assert.Equal(t, domain.StatusCompleted, task.Status, "stale rollback must not clobber the newer intent")
}

func TestManager_LoadSupersedesInflightOptimism(t *testing.T) {
	// A full reload while a mutation is in flight replaces the collection
	// wholesale; the unconfirmed optimistic edit is superseded. Inherent
	// to the replace-on-fetch policy.
	started := make(chan struct{})
	release := make(chan struct{})
	store := &mockStore{
		status: func(ctx context.Context, id string, status domain.Status) error {
			close(started)
			<-release
			return nil
		},
	}
	m := loadedManager(t, store, &mockGenerator{})

	done := make(chan error, 1)
	go func() {
		done <- m.SetStatus(context.Background(), "t1", domain.StatusCompleted)
	}()
	<-started

	_, err := m.Load(context.Background())
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)

	task, _ := m.Get("t1")
	assert.Equal(t, domain.StatusTodo, task.Status, "server truth wins over the superseded optimistic edit")
}

func TestManager_LoadFencesLateRollback(t *testing.T) {
	// A mutation staged before a reload fails after it. The rollback would
	// restore a pre-reload snapshot over the freshly fetched state, so the
	// reload advances the entity's sequence and the rejection is discarded
	// as stale.
	started := make(chan struct{})
	release := make(chan struct{})
	store := &mockStore{
		status: func(ctx context.Context, id string, status domain.Status) error {
			close(started)
			<-release
			return errors.New("timeout")
		},
	}
	m := loadedManager(t, store, &mockGenerator{})

	done := make(chan error, 1)
	go func() {
		done <- m.SetStatus(context.Background(), "t1", domain.StatusCompleted)
	}()
	<-started

	// Server truth moved on while the mutation was in flight.
	store.list = func(ctx context.Context) ([]domain.Task, error) {
		fresh := serverTasks()
		fresh[0].Status = domain.StatusInProgress
		return fresh, nil
	}
	_, err := m.Load(context.Background())
	require.NoError(t, err)

	close(release)
	require.Error(t, <-done, "the failed call still surfaces its error")

	task, _ := m.Get("t1")
	assert.Equal(t, domain.StatusInProgress, task.Status, "late rollback must not clobber reloaded server state")
}

func TestManager_SetSubtaskStatus(t *testing.T) {
	t.Run("updates only the targeted subtask", func(t *testing.T) {
		m := loadedManager(t, &mockStore{}, &mockGenerator{})

		require.NoError(t, m.SetSubtaskStatus(context.Background(), "t1", "s1", domain.StatusCompleted))

		task, _ := m.Get("t1")
		assert.Equal(t, domain.StatusCompleted, task.Subtasks[0].Status)
		assert.Equal(t, domain.StatusTodo, task.Subtasks[1].Status, "sibling subtask untouched")
		assert.Equal(t, domain.StatusTodo, task.Status, "parent status never rolls up")
	})

	t.Run("rejected subtask mutation rolls back", func(t *testing.T) {
		store := &mockStore{
			substatus: func(ctx context.Context, taskID, subtaskID string, status domain.Status) error {
				return errors.New("rejected")
			},
		}
		m := loadedManager(t, store, &mockGenerator{})

		err := m.SetSubtaskStatus(context.Background(), "t1", "s1", domain.StatusCompleted)
		require.Error(t, err)

		task, _ := m.Get("t1")
		assert.Equal(t, domain.StatusTodo, task.Subtasks[0].Status)
	})

	t.Run("unknown subtask id still reaches the remote", func(t *testing.T) {
		var gotSubtask string
		store := &mockStore{
			substatus: func(ctx context.Context, taskID, subtaskID string, status domain.Status) error {
				gotSubtask = subtaskID
				return nil
			},
		}
		m := loadedManager(t, store, &mockGenerator{})

		require.NoError(t, m.SetSubtaskStatus(context.Background(), "t1", "ghost", domain.StatusCompleted))
		assert.Equal(t, "ghost", gotSubtask)
	})
}

func TestManager_Update(t *testing.T) {
	t.Run("merge is field-level and local to the entity", func(t *testing.T) {
		echoTime := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
		store := &mockStore{
			update: func(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
				return domain.Task{ID: id, UpdatedAt: echoTime}, nil
			},
		}
		m := loadedManager(t, store, &mockGenerator{})

		title := "Buy oat milk"
		require.NoError(t, m.Update(context.Background(), "t1", domain.TaskPatch{Title: &title}))

		task, _ := m.Get("t1")
		assert.Equal(t, "t1", task.ID, "identity is stable across updates")
		assert.Equal(t, "Buy oat milk", task.Title)
		assert.Equal(t, domain.StatusTodo, task.Status, "fields outside the patch untouched")
		assert.Len(t, task.Subtasks, 2, "subtask sequence untouched by a title update")
		assert.Equal(t, echoTime, task.UpdatedAt, "server echo folded in")

		other, _ := m.Get("t2")
		assert.Equal(t, "Ship release", other.Title, "updating one task never alters another")
	})

	t.Run("rejected update rolls back", func(t *testing.T) {
		store := &mockStore{
			update: func(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
				return domain.Task{}, errors.New("rejected")
			},
		}
		m := loadedManager(t, store, &mockGenerator{})

		title := "Renamed"
		err := m.Update(context.Background(), "t1", domain.TaskPatch{Title: &title})
		require.Error(t, err)

		task, _ := m.Get("t1")
		assert.Equal(t, "Buy milk", task.Title)
	})

	t.Run("blank title rejected locally", func(t *testing.T) {
		called := false
		store := &mockStore{
			update: func(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
				called = true
				return domain.Task{}, nil
			},
		}
		m := loadedManager(t, store, &mockGenerator{})

		blank := " "
		err := m.Update(context.Background(), "t1", domain.TaskPatch{Title: &blank})
		require.Error(t, err)
		assert.False(t, called)
	})
}

func TestManager_Remove(t *testing.T) {
	t.Run("optimistic removal confirmed", func(t *testing.T) {
		m := loadedManager(t, &mockStore{}, &mockGenerator{})

		require.NoError(t, m.Remove(context.Background(), "t2"))

		_, ok := m.Get("t2")
		assert.False(t, ok)
		assert.Len(t, m.Tasks(), 2)
	})

	t.Run("idempotent for absent ids", func(t *testing.T) {
		m := loadedManager(t, &mockStore{}, &mockGenerator{})

		require.NoError(t, m.Remove(context.Background(), "t2"))
		require.NoError(t, m.Remove(context.Background(), "t2"))
		assert.Len(t, m.Tasks(), 2)
	})

	t.Run("rejected delete restores the task at its position", func(t *testing.T) {
		store := &mockStore{
			del: func(ctx context.Context, id string) error {
				return errors.New("rejected")
			},
		}
		m := loadedManager(t, store, &mockGenerator{})

		err := m.Remove(context.Background(), "t2")
		require.Error(t, err)

		tasks := m.Tasks()
		require.Len(t, tasks, 3)
		assert.Equal(t, "t2", tasks[1].ID, "restored in its original slot")
	})
}

func TestManager_GenerateSubtasks(t *testing.T) {
	generated := domain.Task{
		ID: "t1", Title: "Buy milk",
		Subtasks: []domain.Subtask{
			{ID: "g1", Title: "Check fridge", Status: domain.StatusTodo},
			{ID: "g2", Title: "Walk to store", Status: domain.StatusTodo},
			{ID: "g3", Title: "Pay", Status: domain.StatusTodo},
		},
	}

	t.Run("replaces the subtask sequence wholesale", func(t *testing.T) {
		gen := &mockGenerator{
			generate: func(ctx context.Context, taskID, title string) (domain.Task, error) {
				return generated, nil
			},
		}
		m := loadedManager(t, &mockStore{}, gen)

		subtasks, err := m.GenerateSubtasks(context.Background(), "t1", "Buy milk")
		require.NoError(t, err)
		require.Len(t, subtasks, 3)

		task, _ := m.Get("t1")
		require.Len(t, task.Subtasks, 3)
		assert.Equal(t, "g1", task.Subtasks[0].ID)
		assert.Equal(t, "g3", task.Subtasks[2].ID, "prior subtasks fully replaced, order preserved")
	})

	t.Run("pending flag visible while generating", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		gen := &mockGenerator{
			generate: func(ctx context.Context, taskID, title string) (domain.Task, error) {
				close(started)
				<-release
				return generated, nil
			},
		}
		m := loadedManager(t, &mockStore{}, gen)

		done := make(chan error, 1)
		go func() {
			_, err := m.GenerateSubtasks(context.Background(), "t1", "Buy milk")
			done <- err
		}()

		<-started
		assert.True(t, m.Generating("t1"))
		assert.False(t, m.Generating("t2"))

		close(release)
		require.NoError(t, <-done)
		assert.False(t, m.Generating("t1"))
	})

	t.Run("failure clears the flag and retains prior subtasks", func(t *testing.T) {
		gen := &mockGenerator{
			generate: func(ctx context.Context, taskID, title string) (domain.Task, error) {
				return domain.Task{}, errors.New("model unavailable")
			},
		}
		m := loadedManager(t, &mockStore{}, gen)

		_, err := m.GenerateSubtasks(context.Background(), "t1", "Buy milk")
		require.Error(t, err)
		assert.False(t, m.Generating("t1"))

		task, _ := m.Get("t1")
		require.Len(t, task.Subtasks, 2)
		assert.Equal(t, "s1", task.Subtasks[0].ID)
	})
}

func TestManager_CompletedCount(t *testing.T) {
	m := loadedManager(t, &mockStore{}, &mockGenerator{})

	assert.Equal(t, 0, m.CompletedCount())

	require.NoError(t, m.SetStatus(context.Background(), "t1", domain.StatusCompleted))
	require.NoError(t, m.SetStatus(context.Background(), "t3", domain.StatusCompleted))
	assert.Equal(t, 2, m.CompletedCount())
}

func TestManager_TasksReturnsCopies(t *testing.T) {
	m := loadedManager(t, &mockStore{}, &mockGenerator{})

	tasks := m.Tasks()
	tasks[0].Subtasks[0].Status = domain.StatusCompleted
	tasks[0].Title = "mutated"

	task, _ := m.Get("t1")
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, domain.StatusTodo, task.Subtasks[0].Status)
}
