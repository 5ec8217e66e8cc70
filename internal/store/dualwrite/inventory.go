package dualwrite

import (
	"context"
	"time"

	"github.com/dropDatabas3/nido/internal/domain/repository"
	"github.com/dropDatabas3/nido/internal/migrate"
)

type inventoryRepository struct {
	primary   repository.InventoryRepository
	secondary repository.InventoryRepository
	core      *migrate.Core
}

// NewInventoryRepository crea el decorador dual-write de inventario.
func NewInventoryRepository(primary, secondary repository.InventoryRepository, core *migrate.Core) repository.InventoryRepository {
	return &inventoryRepository{primary: primary, secondary: secondary, core: core}
}

func (d *inventoryRepository) Create(ctx context.Context, in repository.CreateInventoryItemInput) (repository.InventoryItem, error) {
	return migrate.Do(ctx, d.core, "Create", in.FamilyID,
		func(ctx context.Context) (repository.InventoryItem, error) { return d.primary.Create(ctx, in) },
		func(ctx context.Context) (repository.InventoryItem, error) { return d.secondary.Create(ctx, in) },
	)
}

func (d *inventoryRepository) GetByID(ctx context.Context, familyID, id string) (repository.InventoryItem, error) {
	return migrate.DoRead(ctx, d.core, "GetByID", familyID,
		func(ctx context.Context) (repository.InventoryItem, error) { return d.primary.GetByID(ctx, familyID, id) },
		func(ctx context.Context) (repository.InventoryItem, error) { return d.secondary.GetByID(ctx, familyID, id) },
	)
}

func (d *inventoryRepository) ListByFamily(ctx context.Context, familyID string) ([]repository.InventoryItem, error) {
	return migrate.DoRead(ctx, d.core, "ListByFamily", familyID,
		func(ctx context.Context) ([]repository.InventoryItem, error) {
			return d.primary.ListByFamily(ctx, familyID)
		},
		func(ctx context.Context) ([]repository.InventoryItem, error) {
			return d.secondary.ListByFamily(ctx, familyID)
		},
	)
}

func (d *inventoryRepository) ListExpiring(ctx context.Context, familyID string, before time.Time) ([]repository.InventoryItem, error) {
	return migrate.DoRead(ctx, d.core, "ListExpiring", familyID,
		func(ctx context.Context) ([]repository.InventoryItem, error) {
			return d.primary.ListExpiring(ctx, familyID, before)
		},
		func(ctx context.Context) ([]repository.InventoryItem, error) {
			return d.secondary.ListExpiring(ctx, familyID, before)
		},
	)
}

func (d *inventoryRepository) Update(ctx context.Context, familyID, id string, in repository.UpdateInventoryItemInput) (repository.InventoryItem, error) {
	return migrate.Do(ctx, d.core, "Update", familyID,
		func(ctx context.Context) (repository.InventoryItem, error) {
			return d.primary.Update(ctx, familyID, id, in)
		},
		func(ctx context.Context) (repository.InventoryItem, error) {
			return d.secondary.Update(ctx, familyID, id, in)
		},
	)
}

func (d *inventoryRepository) Delete(ctx context.Context, familyID, id string) error {
	return migrate.Exec(ctx, d.core, "Delete", familyID,
		func(ctx context.Context) error { return d.primary.Delete(ctx, familyID, id) },
		func(ctx context.Context) error { return d.secondary.Delete(ctx, familyID, id) },
	)
}
