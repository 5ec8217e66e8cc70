package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dropDatabas3/nido/internal/domain/repository"
)

// BudgetRepository implementa repository.BudgetRepository en memoria.
type BudgetRepository struct {
	mu    sync.RWMutex
	items map[string]repository.Budget
}

func NewBudgetRepository() *BudgetRepository {
	return &BudgetRepository{items: make(map[string]repository.Budget)}
}

func (r *BudgetRepository) Create(_ context.Context, in repository.CreateBudgetInput) (repository.Budget, error) {
	if in.FamilyID == "" || in.Name == "" {
		return repository.Budget{}, repository.ErrInvalidInput
	}
	ts := now()
	b := repository.Budget{
		ID:          newID(),
		FamilyID:    in.FamilyID,
		MemberID:    in.MemberID,
		Category:    in.Category,
		Name:        in.Name,
		LimitCents:  in.LimitCents,
		Currency:    in.Currency,
		PeriodStart: in.PeriodStart,
		PeriodEnd:   in.PeriodEnd,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	r.mu.Lock()
	r.items[b.ID] = b
	r.mu.Unlock()
	return b, nil
}

func (r *BudgetRepository) GetByID(_ context.Context, familyID, id string) (repository.Budget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok || b.FamilyID != familyID {
		return repository.Budget{}, repository.ErrNotFound
	}
	return b, nil
}

func (r *BudgetRepository) ListByFamily(_ context.Context, familyID string) ([]repository.Budget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []repository.Budget
	for _, b := range r.items {
		if b.FamilyID == familyID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *BudgetRepository) Update(_ context.Context, familyID, id string, in repository.UpdateBudgetInput) (repository.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok || b.FamilyID != familyID {
		return repository.Budget{}, repository.ErrNotFound
	}
	if in.Name != nil {
		b.Name = *in.Name
	}
	if in.LimitCents != nil {
		b.LimitCents = *in.LimitCents
	}
	if in.Category != nil {
		b.Category = *in.Category
	}
	if in.PeriodEnd != nil {
		b.PeriodEnd = *in.PeriodEnd
	}
	b.UpdatedAt = now()
	r.items[id] = b
	return b, nil
}

func (r *BudgetRepository) AddSpend(_ context.Context, familyID, id string, amountCents int64) (repository.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok || b.FamilyID != familyID {
		return repository.Budget{}, repository.ErrNotFound
	}
	b.SpentCents += amountCents
	b.UpdatedAt = now()
	r.items[id] = b
	return b, nil
}

func (r *BudgetRepository) Delete(_ context.Context, familyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok || b.FamilyID != familyID {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
