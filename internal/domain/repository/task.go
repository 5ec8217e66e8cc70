package repository

import (
	"context"
	"time"
)

// Task representa una tarea del hogar asignable a un miembro.
type Task struct {
	ID         string
	FamilyID   string
	AssigneeID string // vacío = sin asignar
	Title      string
	Notes      string
	DueAt      *time.Time
	DoneAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateTaskInput datos para crear una tarea.
type CreateTaskInput struct {
	FamilyID   string
	AssigneeID string
	Title      string
	Notes      string
	DueAt      *time.Time
}

// UpdateTaskInput campos actualizables. Nil = sin cambio.
type UpdateTaskInput struct {
	AssigneeID *string
	Title      *string
	Notes      *string
	DueAt      *time.Time
}

// TaskRepository maneja tareas del hogar.
type TaskRepository interface {
	Create(ctx context.Context, in CreateTaskInput) (Task, error)
	GetByID(ctx context.Context, familyID, id string) (Task, error)
	ListByFamily(ctx context.Context, familyID string, includeDone bool) ([]Task, error)
	ListByAssignee(ctx context.Context, familyID, assigneeID string) ([]Task, error)
	Update(ctx context.Context, familyID, id string, in UpdateTaskInput) (Task, error)
	// Complete marca la tarea como hecha. Idempotente.
	Complete(ctx context.Context, familyID, id string) (Task, error)
	Delete(ctx context.Context, familyID, id string) error
}
