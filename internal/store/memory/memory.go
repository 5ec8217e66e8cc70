// Package memory implementa los repositorios de dominio en memoria.
//
// Se usa en tests, en modo dev sin base de datos, y como segundo store
// en entornos de prueba de la migración dual-write.
package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/nido/internal/domain/repository"
)

// Store agrupa todos los repositorios en memoria de un proceso.
type Store struct {
	budgets       *BudgetRepository
	inventory     *InventoryRepository
	mealplans     *MealPlanRepository
	tasks         *TaskRepository
	notifications *NotificationRepository
	recipes       *RecipeRepository
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		budgets:       NewBudgetRepository(),
		inventory:     NewInventoryRepository(),
		mealplans:     NewMealPlanRepository(),
		tasks:         NewTaskRepository(),
		notifications: NewNotificationRepository(),
		recipes:       NewRecipeRepository(),
	}
}

func (s *Store) Budgets() repository.BudgetRepository             { return s.budgets }
func (s *Store) Inventory() repository.InventoryRepository        { return s.inventory }
func (s *Store) MealPlans() repository.MealPlanRepository         { return s.mealplans }
func (s *Store) Tasks() repository.TaskRepository                 { return s.tasks }
func (s *Store) Notifications() repository.NotificationRepository { return s.notifications }
func (s *Store) Recipes() repository.RecipeRepository             { return s.recipes }

func newID() string { return uuid.NewString() }

func now() time.Time { return time.Now().UTC() }
