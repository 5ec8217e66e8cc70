package dualwrite

import (
	"context"
	"time"

	"github.com/dropDatabas3/nido/internal/domain/repository"
	"github.com/dropDatabas3/nido/internal/migrate"
)

type mealPlanRepository struct {
	primary   repository.MealPlanRepository
	secondary repository.MealPlanRepository
	core      *migrate.Core
}

// NewMealPlanRepository crea el decorador dual-write del plan de comidas.
func NewMealPlanRepository(primary, secondary repository.MealPlanRepository, core *migrate.Core) repository.MealPlanRepository {
	return &mealPlanRepository{primary: primary, secondary: secondary, core: core}
}

func (d *mealPlanRepository) Create(ctx context.Context, in repository.CreateMealPlanInput) (repository.MealPlan, error) {
	return migrate.Do(ctx, d.core, "Create", in.FamilyID,
		func(ctx context.Context) (repository.MealPlan, error) { return d.primary.Create(ctx, in) },
		func(ctx context.Context) (repository.MealPlan, error) { return d.secondary.Create(ctx, in) },
	)
}

func (d *mealPlanRepository) GetByID(ctx context.Context, familyID, id string) (repository.MealPlan, error) {
	return migrate.DoRead(ctx, d.core, "GetByID", familyID,
		func(ctx context.Context) (repository.MealPlan, error) { return d.primary.GetByID(ctx, familyID, id) },
		func(ctx context.Context) (repository.MealPlan, error) { return d.secondary.GetByID(ctx, familyID, id) },
	)
}

func (d *mealPlanRepository) ListByRange(ctx context.Context, familyID string, from, to time.Time) ([]repository.MealPlan, error) {
	return migrate.DoRead(ctx, d.core, "ListByRange", familyID,
		func(ctx context.Context) ([]repository.MealPlan, error) {
			return d.primary.ListByRange(ctx, familyID, from, to)
		},
		func(ctx context.Context) ([]repository.MealPlan, error) {
			return d.secondary.ListByRange(ctx, familyID, from, to)
		},
	)
}

func (d *mealPlanRepository) Update(ctx context.Context, familyID, id string, in repository.UpdateMealPlanInput) (repository.MealPlan, error) {
	return migrate.Do(ctx, d.core, "Update", familyID,
		func(ctx context.Context) (repository.MealPlan, error) {
			return d.primary.Update(ctx, familyID, id, in)
		},
		func(ctx context.Context) (repository.MealPlan, error) {
			return d.secondary.Update(ctx, familyID, id, in)
		},
	)
}

func (d *mealPlanRepository) Delete(ctx context.Context, familyID, id string) error {
	return migrate.Exec(ctx, d.core, "Delete", familyID,
		func(ctx context.Context) error { return d.primary.Delete(ctx, familyID, id) },
		func(ctx context.Context) error { return d.secondary.Delete(ctx, familyID, id) },
	)
}
