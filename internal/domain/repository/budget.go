package repository

import (
	"context"
	"time"
)

// Budget representa un presupuesto familiar por categoría y período.
type Budget struct {
	ID          string
	FamilyID    string
	MemberID    string // vacío = presupuesto compartido de toda la familia
	Category    string // "groceries", "health", "school", etc.
	Name        string
	LimitCents  int64
	SpentCents  int64
	Currency    string
	PeriodStart time.Time
	PeriodEnd   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateBudgetInput contiene los datos para crear un presupuesto.
type CreateBudgetInput struct {
	FamilyID    string
	MemberID    string
	Category    string
	Name        string
	LimitCents  int64
	Currency    string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// UpdateBudgetInput contiene los campos actualizables. Nil = sin cambio.
type UpdateBudgetInput struct {
	Name       *string
	LimitCents *int64
	Category   *string
	PeriodEnd  *time.Time
}

// BudgetRepository maneja presupuestos familiares.
type BudgetRepository interface {
	Create(ctx context.Context, in CreateBudgetInput) (Budget, error)
	GetByID(ctx context.Context, familyID, id string) (Budget, error)
	ListByFamily(ctx context.Context, familyID string) ([]Budget, error)
	Update(ctx context.Context, familyID, id string, in UpdateBudgetInput) (Budget, error)
	// AddSpend incrementa el gasto acumulado del presupuesto.
	AddSpend(ctx context.Context, familyID, id string, amountCents int64) (Budget, error)
	Delete(ctx context.Context, familyID, id string) error
}
