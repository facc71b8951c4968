package taskboard

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a Store guarded by a single mutex.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*Project
	tasks    map[uuid.UUID]*Task
	seq      map[uuid.UUID]uint64
	next     uint64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[uuid.UUID]*Project),
		tasks:    make(map[uuid.UUID]*Task),
		seq:      make(map[uuid.UUID]uint64),
	}
}

func (s *MemoryStore) InsertProject(_ context.Context, project *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project.Clone()
	s.next++
	s.seq[project.ID] = s.next
	return nil
}

func (s *MemoryStore) GetProject(_ context.Context, id uuid.UUID) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) UpdateProject(_ context.Context, project *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.projects[project.ID]
	if !ok {
		return ErrProjectNotFound
	}
	cur.Name = project.Name
	cur.Description = project.Description
	cur.Archived = project.Archived
	cur.UpdatedAt = project.UpdatedAt
	return nil
}

func (s *MemoryStore) DeleteProject(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return ErrProjectNotFound
	}
	for taskID, t := range s.tasks {
		if t.ProjectID == id {
			delete(s.tasks, taskID)
			delete(s.seq, taskID)
		}
	}
	delete(s.projects, id)
	delete(s.seq, id)
	return nil
}

func (s *MemoryStore) ListProjects(_ context.Context, workspaceID uuid.UUID) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		project Project
		seq     uint64
	}
	entries := make([]entry, 0)
	for id, p := range s.projects {
		if p.WorkspaceID == workspaceID {
			entries = append(entries, entry{project: *p.Clone(), seq: s.seq[id]})
		}
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Or(
			b.project.CreatedAt.Compare(a.project.CreatedAt),
			cmp.Compare(b.seq, a.seq),
		)
	})

	out := make([]Project, len(entries))
	for i, e := range entries {
		out[i] = e.project
	}
	return out, nil
}

func (s *MemoryStore) CountProjectsByWorkspace(_ context.Context, workspaceID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, p := range s.projects {
		if p.WorkspaceID == workspaceID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) InsertTask(_ context.Context, task *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[task.ProjectID]; !ok {
		return ErrProjectNotFound
	}
	s.tasks[task.ID] = task.Clone()
	s.next++
	s.seq[task.ID] = s.next
	return nil
}

func (s *MemoryStore) GetTask(_ context.Context, id uuid.UUID) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return t.Clone(), nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id uuid.UUID, status Status, at time.Time) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	if err := StatusTransitions.Transition(t.Status, status); err != nil {
		return nil, ErrInvalidStatus
	}
	t.Status = status
	t.UpdatedAt = at
	return t.Clone(), nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(s.tasks, id)
	delete(s.seq, id)
	return nil
}

func (s *MemoryStore) ListByProject(_ context.Context, projectID uuid.UUID) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		task Task
		seq  uint64
	}
	entries := make([]entry, 0)
	for id, t := range s.tasks {
		if t.ProjectID == projectID {
			entries = append(entries, entry{task: *t.Clone(), seq: s.seq[id]})
		}
	}
	// insertion order breaks ties between equal timestamps
	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Or(
			cmp.Compare(a.task.Position, b.task.Position),
			a.task.CreatedAt.Compare(b.task.CreatedAt),
			cmp.Compare(a.seq, b.seq),
		)
	})

	out := make([]Task, len(entries))
	for i, e := range entries {
		out[i] = e.task
	}
	return out, nil
}

func (s *MemoryStore) CountByWorkspace(_ context.Context, workspaceID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, t := range s.tasks {
		if t.WorkspaceID == workspaceID {
			n++
		}
	}
	return n, nil
}
