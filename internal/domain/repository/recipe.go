package repository

import (
	"context"
	"time"
)

// Ingredient es un ingrediente con cantidad.
type Ingredient struct {
	Name     string
	Quantity float64
	Unit     string
}

// Recipe representa una receta de la familia.
type Recipe struct {
	ID          string
	FamilyID    string
	Name        string
	Servings    int
	Ingredients []Ingredient
	Steps       []string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateRecipeInput datos para crear una receta.
type CreateRecipeInput struct {
	FamilyID    string
	Name        string
	Servings    int
	Ingredients []Ingredient
	Steps       []string
	Tags        []string
}

// UpdateRecipeInput campos actualizables. Nil = sin cambio.
type UpdateRecipeInput struct {
	Name        *string
	Servings    *int
	Ingredients *[]Ingredient
	Steps       *[]string
	Tags        *[]string
}

// RecipeRepository maneja recetas.
type RecipeRepository interface {
	Create(ctx context.Context, in CreateRecipeInput) (Recipe, error)
	GetByID(ctx context.Context, familyID, id string) (Recipe, error)
	// Search busca por substring de nombre o tag exacto. Query vacía lista todo.
	Search(ctx context.Context, familyID, query string) ([]Recipe, error)
	Update(ctx context.Context, familyID, id string, in UpdateRecipeInput) (Recipe, error)
	Delete(ctx context.Context, familyID, id string) error
}
