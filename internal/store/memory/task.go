package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dropDatabas3/nido/internal/domain/repository"
)

// TaskRepository implementa repository.TaskRepository en memoria.
type TaskRepository struct {
	mu    sync.RWMutex
	items map[string]repository.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{items: make(map[string]repository.Task)}
}

func (r *TaskRepository) Create(_ context.Context, in repository.CreateTaskInput) (repository.Task, error) {
	if in.FamilyID == "" || in.Title == "" {
		return repository.Task{}, repository.ErrInvalidInput
	}
	ts := now()
	t := repository.Task{
		ID:         newID(),
		FamilyID:   in.FamilyID,
		AssigneeID: in.AssigneeID,
		Title:      in.Title,
		Notes:      in.Notes,
		DueAt:      in.DueAt,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	r.mu.Lock()
	r.items[t.ID] = t
	r.mu.Unlock()
	return t, nil
}

func (r *TaskRepository) GetByID(_ context.Context, familyID, id string) (repository.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[id]
	if !ok || t.FamilyID != familyID {
		return repository.Task{}, repository.ErrNotFound
	}
	return t, nil
}

func (r *TaskRepository) ListByFamily(_ context.Context, familyID string, includeDone bool) ([]repository.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []repository.Task
	for _, t := range r.items {
		if t.FamilyID != familyID {
			continue
		}
		if !includeDone && t.DoneAt != nil {
			continue
		}
		out = append(out, t)
	}
	sortTasks(out)
	return out, nil
}

func (r *TaskRepository) ListByAssignee(_ context.Context, familyID, assigneeID string) ([]repository.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []repository.Task
	for _, t := range r.items {
		if t.FamilyID == familyID && t.AssigneeID == assigneeID {
			out = append(out, t)
		}
	}
	sortTasks(out)
	return out, nil
}

func (r *TaskRepository) Update(_ context.Context, familyID, id string, in repository.UpdateTaskInput) (repository.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok || t.FamilyID != familyID {
		return repository.Task{}, repository.ErrNotFound
	}
	if in.AssigneeID != nil {
		t.AssigneeID = *in.AssigneeID
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Notes != nil {
		t.Notes = *in.Notes
	}
	if in.DueAt != nil {
		t.DueAt = in.DueAt
	}
	t.UpdatedAt = now()
	r.items[id] = t
	return t, nil
}

func (r *TaskRepository) Complete(_ context.Context, familyID, id string) (repository.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok || t.FamilyID != familyID {
		return repository.Task{}, repository.ErrNotFound
	}
	if t.DoneAt == nil {
		ts := now()
		t.DoneAt = &ts
		t.UpdatedAt = ts
		r.items[id] = t
	}
	return t, nil
}

func (r *TaskRepository) Delete(_ context.Context, familyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok || t.FamilyID != familyID {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func sortTasks(ts []repository.Task) {
	sort.Slice(ts, func(i, j int) bool {
		if !ts[i].CreatedAt.Equal(ts[j].CreatedAt) {
			return ts[i].CreatedAt.Before(ts[j].CreatedAt)
		}
		return ts[i].ID < ts[j].ID
	})
}
