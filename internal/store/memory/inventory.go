package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/nido/internal/domain/repository"
)

// InventoryRepository implementa repository.InventoryRepository en memoria.
type InventoryRepository struct {
	mu    sync.RWMutex
	items map[string]repository.InventoryItem
}

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{items: make(map[string]repository.InventoryItem)}
}

func (r *InventoryRepository) Create(_ context.Context, in repository.CreateInventoryItemInput) (repository.InventoryItem, error) {
	if in.FamilyID == "" || in.Name == "" {
		return repository.InventoryItem{}, repository.ErrInvalidInput
	}
	ts := now()
	it := repository.InventoryItem{
		ID:        newID(),
		FamilyID:  in.FamilyID,
		Name:      in.Name,
		Quantity:  in.Quantity,
		Unit:      in.Unit,
		Location:  in.Location,
		ExpiresAt: in.ExpiresAt,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	r.mu.Lock()
	r.items[it.ID] = it
	r.mu.Unlock()
	return it, nil
}

func (r *InventoryRepository) GetByID(_ context.Context, familyID, id string) (repository.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok || it.FamilyID != familyID {
		return repository.InventoryItem{}, repository.ErrNotFound
	}
	return it, nil
}

func (r *InventoryRepository) ListByFamily(_ context.Context, familyID string) ([]repository.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []repository.InventoryItem
	for _, it := range r.items {
		if it.FamilyID == familyID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InventoryRepository) ListExpiring(_ context.Context, familyID string, before time.Time) ([]repository.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []repository.InventoryItem
	for _, it := range r.items {
		if it.FamilyID != familyID || it.ExpiresAt == nil {
			continue
		}
		if it.ExpiresAt.Before(before) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(*out[j].ExpiresAt) })
	return out, nil
}

func (r *InventoryRepository) Update(_ context.Context, familyID, id string, in repository.UpdateInventoryItemInput) (repository.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok || it.FamilyID != familyID {
		return repository.InventoryItem{}, repository.ErrNotFound
	}
	if in.Name != nil {
		it.Name = *in.Name
	}
	if in.Quantity != nil {
		it.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		it.Unit = *in.Unit
	}
	if in.Location != nil {
		it.Location = *in.Location
	}
	if in.ExpiresAt != nil {
		it.ExpiresAt = in.ExpiresAt
	}
	it.UpdatedAt = now()
	r.items[id] = it
	return it, nil
}

func (r *InventoryRepository) Delete(_ context.Context, familyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok || it.FamilyID != familyID {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
