package dualwrite

import (
	"context"

	"github.com/dropDatabas3/nido/internal/domain/repository"
	"github.com/dropDatabas3/nido/internal/migrate"
)

type recipeRepository struct {
	primary   repository.RecipeRepository
	secondary repository.RecipeRepository
	core      *migrate.Core
}

// NewRecipeRepository crea el decorador dual-write de recetas.
func NewRecipeRepository(primary, secondary repository.RecipeRepository, core *migrate.Core) repository.RecipeRepository {
	return &recipeRepository{primary: primary, secondary: secondary, core: core}
}

func (d *recipeRepository) Create(ctx context.Context, in repository.CreateRecipeInput) (repository.Recipe, error) {
	return migrate.Do(ctx, d.core, "Create", in.FamilyID,
		func(ctx context.Context) (repository.Recipe, error) { return d.primary.Create(ctx, in) },
		func(ctx context.Context) (repository.Recipe, error) { return d.secondary.Create(ctx, in) },
	)
}

func (d *recipeRepository) GetByID(ctx context.Context, familyID, id string) (repository.Recipe, error) {
	return migrate.DoRead(ctx, d.core, "GetByID", familyID,
		func(ctx context.Context) (repository.Recipe, error) { return d.primary.GetByID(ctx, familyID, id) },
		func(ctx context.Context) (repository.Recipe, error) { return d.secondary.GetByID(ctx, familyID, id) },
	)
}

func (d *recipeRepository) Search(ctx context.Context, familyID, query string) ([]repository.Recipe, error) {
	return migrate.DoRead(ctx, d.core, "Search", familyID,
		func(ctx context.Context) ([]repository.Recipe, error) {
			return d.primary.Search(ctx, familyID, query)
		},
		func(ctx context.Context) ([]repository.Recipe, error) {
			return d.secondary.Search(ctx, familyID, query)
		},
	)
}

func (d *recipeRepository) Update(ctx context.Context, familyID, id string, in repository.UpdateRecipeInput) (repository.Recipe, error) {
	return migrate.Do(ctx, d.core, "Update", familyID,
		func(ctx context.Context) (repository.Recipe, error) {
			return d.primary.Update(ctx, familyID, id, in)
		},
		func(ctx context.Context) (repository.Recipe, error) {
			return d.secondary.Update(ctx, familyID, id, in)
		},
	)
}

func (d *recipeRepository) Delete(ctx context.Context, familyID, id string) error {
	return migrate.Exec(ctx, d.core, "Delete", familyID,
		func(ctx context.Context) error { return d.primary.Delete(ctx, familyID, id) },
		func(ctx context.Context) error { return d.secondary.Delete(ctx, familyID, id) },
	)
}
