package repository

import (
	"context"
	"time"
)

// InventoryItem representa un ítem de la despensa / botiquín familiar.
type InventoryItem struct {
	ID        string
	FamilyID  string
	Name      string
	Quantity  float64
	Unit      string // "u", "g", "ml", ...
	Location  string // "pantry", "fridge", "medicine-cabinet"
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateInventoryItemInput contiene los datos para dar de alta un ítem.
type CreateInventoryItemInput struct {
	FamilyID  string
	Name      string
	Quantity  float64
	Unit      string
	Location  string
	ExpiresAt *time.Time
}

// UpdateInventoryItemInput campos actualizables. Nil = sin cambio.
type UpdateInventoryItemInput struct {
	Name      *string
	Quantity  *float64
	Unit      *string
	Location  *string
	ExpiresAt *time.Time
}

// InventoryRepository maneja el inventario del hogar.
type InventoryRepository interface {
	Create(ctx context.Context, in CreateInventoryItemInput) (InventoryItem, error)
	GetByID(ctx context.Context, familyID, id string) (InventoryItem, error)
	ListByFamily(ctx context.Context, familyID string) ([]InventoryItem, error)
	// ListExpiring retorna ítems cuyo vencimiento es anterior a before.
	ListExpiring(ctx context.Context, familyID string, before time.Time) ([]InventoryItem, error)
	Update(ctx context.Context, familyID, id string, in UpdateInventoryItemInput) (InventoryItem, error)
	Delete(ctx context.Context, familyID, id string) error
}
