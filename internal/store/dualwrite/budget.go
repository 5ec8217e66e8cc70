package dualwrite

import (
	"context"

	"github.com/dropDatabas3/nido/internal/domain/repository"
	"github.com/dropDatabas3/nido/internal/migrate"
)

type budgetRepository struct {
	primary   repository.BudgetRepository
	secondary repository.BudgetRepository
	core      *migrate.Core
}

// NewBudgetRepository crea el decorador dual-write de budgets.
func NewBudgetRepository(primary, secondary repository.BudgetRepository, core *migrate.Core) repository.BudgetRepository {
	return &budgetRepository{primary: primary, secondary: secondary, core: core}
}

func (d *budgetRepository) Create(ctx context.Context, in repository.CreateBudgetInput) (repository.Budget, error) {
	return migrate.Do(ctx, d.core, "Create", in.FamilyID,
		func(ctx context.Context) (repository.Budget, error) { return d.primary.Create(ctx, in) },
		func(ctx context.Context) (repository.Budget, error) { return d.secondary.Create(ctx, in) },
	)
}

func (d *budgetRepository) GetByID(ctx context.Context, familyID, id string) (repository.Budget, error) {
	return migrate.DoRead(ctx, d.core, "GetByID", familyID,
		func(ctx context.Context) (repository.Budget, error) { return d.primary.GetByID(ctx, familyID, id) },
		func(ctx context.Context) (repository.Budget, error) { return d.secondary.GetByID(ctx, familyID, id) },
	)
}

func (d *budgetRepository) ListByFamily(ctx context.Context, familyID string) ([]repository.Budget, error) {
	return migrate.DoRead(ctx, d.core, "ListByFamily", familyID,
		func(ctx context.Context) ([]repository.Budget, error) { return d.primary.ListByFamily(ctx, familyID) },
		func(ctx context.Context) ([]repository.Budget, error) { return d.secondary.ListByFamily(ctx, familyID) },
	)
}

func (d *budgetRepository) Update(ctx context.Context, familyID, id string, in repository.UpdateBudgetInput) (repository.Budget, error) {
	return migrate.Do(ctx, d.core, "Update", familyID,
		func(ctx context.Context) (repository.Budget, error) { return d.primary.Update(ctx, familyID, id, in) },
		func(ctx context.Context) (repository.Budget, error) { return d.secondary.Update(ctx, familyID, id, in) },
	)
}

func (d *budgetRepository) AddSpend(ctx context.Context, familyID, id string, amountCents int64) (repository.Budget, error) {
	return migrate.Do(ctx, d.core, "AddSpend", familyID,
		func(ctx context.Context) (repository.Budget, error) {
			return d.primary.AddSpend(ctx, familyID, id, amountCents)
		},
		func(ctx context.Context) (repository.Budget, error) {
			return d.secondary.AddSpend(ctx, familyID, id, amountCents)
		},
	)
}

func (d *budgetRepository) Delete(ctx context.Context, familyID, id string) error {
	return migrate.Exec(ctx, d.core, "Delete", familyID,
		func(ctx context.Context) error { return d.primary.Delete(ctx, familyID, id) },
		func(ctx context.Context) error { return d.secondary.Delete(ctx, familyID, id) },
	)
}
