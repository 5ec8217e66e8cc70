package repository

import (
	"context"
	"time"
)

// MealSlot identifica la comida del día planificada.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotSnack     MealSlot = "snack"
	SlotDinner    MealSlot = "dinner"
)

// MealPlan representa una comida planificada para un día.
type MealPlan struct {
	ID        string
	FamilyID  string
	Date      time.Time // solo fecha; hora en cero, UTC
	Slot      MealSlot
	RecipeID  string
	Servings  int
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateMealPlanInput datos para planificar una comida.
type CreateMealPlanInput struct {
	FamilyID string
	Date     time.Time
	Slot     MealSlot
	RecipeID string
	Servings int
	Notes    string
}

// UpdateMealPlanInput campos actualizables. Nil = sin cambio.
type UpdateMealPlanInput struct {
	RecipeID *string
	Servings *int
	Notes    *string
}

// MealPlanRepository maneja el plan de comidas semanal.
type MealPlanRepository interface {
	Create(ctx context.Context, in CreateMealPlanInput) (MealPlan, error)
	GetByID(ctx context.Context, familyID, id string) (MealPlan, error)
	// ListByRange retorna los planes con fecha en [from, to].
	ListByRange(ctx context.Context, familyID string, from, to time.Time) ([]MealPlan, error)
	Update(ctx context.Context, familyID, id string, in UpdateMealPlanInput) (MealPlan, error)
	Delete(ctx context.Context, familyID, id string) error
}
