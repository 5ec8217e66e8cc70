package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dropDatabas3/nido/internal/domain/repository"
)

// NotificationRepository implementa repository.NotificationRepository en memoria.
type NotificationRepository struct {
	mu    sync.RWMutex
	items map[string]repository.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[string]repository.Notification)}
}

func (r *NotificationRepository) Create(_ context.Context, in repository.CreateNotificationInput) (repository.Notification, error) {
	if in.FamilyID == "" || in.MemberID == "" || in.Kind == "" {
		return repository.Notification{}, repository.ErrInvalidInput
	}
	n := repository.Notification{
		ID:        newID(),
		FamilyID:  in.FamilyID,
		MemberID:  in.MemberID,
		Kind:      in.Kind,
		Title:     in.Title,
		Body:      in.Body,
		CreatedAt: now(),
	}
	r.mu.Lock()
	r.items[n.ID] = n
	r.mu.Unlock()
	return n, nil
}

func (r *NotificationRepository) GetByID(_ context.Context, familyID, id string) (repository.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.items[id]
	if !ok || n.FamilyID != familyID {
		return repository.Notification{}, repository.ErrNotFound
	}
	return n, nil
}

func (r *NotificationRepository) ListUnread(_ context.Context, familyID, memberID string) ([]repository.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []repository.Notification
	for _, n := range r.items {
		if n.FamilyID == familyID && n.MemberID == memberID && n.ReadAt == nil {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, familyID, id string) (repository.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.FamilyID != familyID {
		return repository.Notification{}, repository.ErrNotFound
	}
	if n.ReadAt == nil {
		ts := now()
		n.ReadAt = &ts
		r.items[id] = n
	}
	return n, nil
}

func (r *NotificationRepository) Delete(_ context.Context, familyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.FamilyID != familyID {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
