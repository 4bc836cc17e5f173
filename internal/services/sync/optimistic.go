package sync

import "github.com/tamarindhq/tamarind/internal/domain"

// Every optimistic mutation moves through idle → applied → confirmed or
// rejected. stage performs the idle → applied transition and captures the
// pre-mutation snapshot; resolve performs the rest: confirmation discards
// the snapshot, rejection restores it. Each mutation carries a per-entity
// sequence number so a resolution that is no longer the latest intent for
// its entity is discarded as stale instead of clobbering newer state.

// snapshot captures what rollback needs for a single entity.
type snapshot struct {
	task  *domain.Task // pre-mutation copy; nil when the entity was locally absent
	index int          // slice position at stage time, for restoring removals
}

// stage applies mutate to a copy of the identified task and swaps the
// copy into a rebuilt collection, all as one synchronous step under the
// lock. An absent id stages nothing locally; the caller still issues the
// remote mutation with the given identifiers.
func (m *Manager) stage(id string, mutate func(*domain.Task)) (uint64, snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seq := m.seq[id] + 1
	m.seq[id] = seq

	i := indexOf(m.tasks, id)
	if i < 0 {
		return seq, snapshot{}
	}

	before := m.tasks[i].Clone()
	after := m.tasks[i].Clone()
	mutate(&after)
	m.tasks = replaceAt(m.tasks, i, after)

	return seq, snapshot{task: &before, index: i}
}

// stageRemoval optimistically removes the task, remembering its position
// so a rejected delete restores it where it was.
func (m *Manager) stageRemoval(id string) (uint64, snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seq := m.seq[id] + 1
	m.seq[id] = seq

	i := indexOf(m.tasks, id)
	if i < 0 {
		return seq, snapshot{}
	}

	before := m.tasks[i].Clone()
	m.tasks = removeAt(m.tasks, i)

	return seq, snapshot{task: &before, index: i}
}

// resolve completes a staged mutation. A nil err confirms it: local state
// already reflects the applied change and the snapshot is discarded. A
// non-nil err rejects it: the snapshot is restored, unless a newer
// mutation for the same entity has been staged since, in which case the
// rollback would itself be stale and is skipped. The error is always
// returned to the caller either way.
func (m *Manager) resolve(op, id string, seq uint64, snap snapshot, err error) error {
	if err == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seq[id] != seq {
		m.logger.Debug("stale rejection discarded", "op", op, "id", id, "seq", seq)
		return err
	}

	if snap.task == nil {
		// Nothing was staged locally, nothing to restore.
		m.logger.Warn("mutation rejected", "op", op, "id", id, "error", err)
		return err
	}

	if i := indexOf(m.tasks, id); i >= 0 {
		m.tasks = replaceAt(m.tasks, i, snap.task.Clone())
	} else {
		m.tasks = insertAt(m.tasks, snap.index, snap.task.Clone())
	}

	m.logger.Warn("mutation rolled back", "op", op, "id", id, "error", err)
	return err
}
