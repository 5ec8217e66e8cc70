package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dropDatabas3/nido/internal/domain/repository"
)

// RecipeRepository implementa repository.RecipeRepository en memoria.
type RecipeRepository struct {
	mu    sync.RWMutex
	items map[string]repository.Recipe
}

func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{items: make(map[string]repository.Recipe)}
}

func (r *RecipeRepository) Create(_ context.Context, in repository.CreateRecipeInput) (repository.Recipe, error) {
	if in.FamilyID == "" || in.Name == "" {
		return repository.Recipe{}, repository.ErrInvalidInput
	}
	ts := now()
	rec := repository.Recipe{
		ID:          newID(),
		FamilyID:    in.FamilyID,
		Name:        in.Name,
		Servings:    in.Servings,
		Ingredients: cloneIngredients(in.Ingredients),
		Steps:       cloneStrings(in.Steps),
		Tags:        cloneStrings(in.Tags),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	r.mu.Lock()
	r.items[rec.ID] = rec
	r.mu.Unlock()
	return rec, nil
}

func (r *RecipeRepository) GetByID(_ context.Context, familyID, id string) (repository.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.items[id]
	if !ok || rec.FamilyID != familyID {
		return repository.Recipe{}, repository.ErrNotFound
	}
	return rec, nil
}

func (r *RecipeRepository) Search(_ context.Context, familyID, query string) ([]repository.Recipe, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []repository.Recipe
	for _, rec := range r.items {
		if rec.FamilyID != familyID {
			continue
		}
		if q == "" || matches(rec, q) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func matches(rec repository.Recipe, q string) bool {
	if strings.Contains(strings.ToLower(rec.Name), q) {
		return true
	}
	for _, t := range rec.Tags {
		if strings.ToLower(t) == q {
			return true
		}
	}
	return false
}

func (r *RecipeRepository) Update(_ context.Context, familyID, id string, in repository.UpdateRecipeInput) (repository.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.items[id]
	if !ok || rec.FamilyID != familyID {
		return repository.Recipe{}, repository.ErrNotFound
	}
	if in.Name != nil {
		rec.Name = *in.Name
	}
	if in.Servings != nil {
		rec.Servings = *in.Servings
	}
	if in.Ingredients != nil {
		rec.Ingredients = cloneIngredients(*in.Ingredients)
	}
	if in.Steps != nil {
		rec.Steps = cloneStrings(*in.Steps)
	}
	if in.Tags != nil {
		rec.Tags = cloneStrings(*in.Tags)
	}
	rec.UpdatedAt = now()
	r.items[id] = rec
	return rec, nil
}

func (r *RecipeRepository) Delete(_ context.Context, familyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.items[id]
	if !ok || rec.FamilyID != familyID {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func cloneIngredients(in []repository.Ingredient) []repository.Ingredient {
	if in == nil {
		return nil
	}
	out := make([]repository.Ingredient, len(in))
	copy(out, in)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
