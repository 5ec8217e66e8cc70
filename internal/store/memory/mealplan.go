package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/nido/internal/domain/repository"
)

// MealPlanRepository implementa repository.MealPlanRepository en memoria.
// Unicidad: una sola comida por (familia, fecha, slot).
type MealPlanRepository struct {
	mu    sync.RWMutex
	items map[string]repository.MealPlan
}

func NewMealPlanRepository() *MealPlanRepository {
	return &MealPlanRepository{items: make(map[string]repository.MealPlan)}
}

func (r *MealPlanRepository) Create(_ context.Context, in repository.CreateMealPlanInput) (repository.MealPlan, error) {
	if in.FamilyID == "" || in.RecipeID == "" || in.Slot == "" {
		return repository.MealPlan{}, repository.ErrInvalidInput
	}
	day := in.Date.UTC().Truncate(24 * time.Hour)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mp := range r.items {
		if mp.FamilyID == in.FamilyID && mp.Slot == in.Slot && mp.Date.Equal(day) {
			return repository.MealPlan{}, repository.ErrConflict
		}
	}
	ts := now()
	mp := repository.MealPlan{
		ID:        newID(),
		FamilyID:  in.FamilyID,
		Date:      day,
		Slot:      in.Slot,
		RecipeID:  in.RecipeID,
		Servings:  in.Servings,
		Notes:     in.Notes,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	r.items[mp.ID] = mp
	return mp, nil
}

func (r *MealPlanRepository) GetByID(_ context.Context, familyID, id string) (repository.MealPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mp, ok := r.items[id]
	if !ok || mp.FamilyID != familyID {
		return repository.MealPlan{}, repository.ErrNotFound
	}
	return mp, nil
}

func (r *MealPlanRepository) ListByRange(_ context.Context, familyID string, from, to time.Time) ([]repository.MealPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []repository.MealPlan
	for _, mp := range r.items {
		if mp.FamilyID != familyID {
			continue
		}
		if mp.Date.Before(from) || mp.Date.After(to) {
			continue
		}
		out = append(out, mp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Slot < out[j].Slot
	})
	return out, nil
}

func (r *MealPlanRepository) Update(_ context.Context, familyID, id string, in repository.UpdateMealPlanInput) (repository.MealPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mp, ok := r.items[id]
	if !ok || mp.FamilyID != familyID {
		return repository.MealPlan{}, repository.ErrNotFound
	}
	if in.RecipeID != nil {
		mp.RecipeID = *in.RecipeID
	}
	if in.Servings != nil {
		mp.Servings = *in.Servings
	}
	if in.Notes != nil {
		mp.Notes = *in.Notes
	}
	mp.UpdatedAt = now()
	r.items[id] = mp
	return mp, nil
}

func (r *MealPlanRepository) Delete(_ context.Context, familyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mp, ok := r.items[id]
	if !ok || mp.FamilyID != familyID {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
