package dualwrite

import (
	"context"

	"github.com/dropDatabas3/nido/internal/domain/repository"
	"github.com/dropDatabas3/nido/internal/migrate"
)

type taskRepository struct {
	primary   repository.TaskRepository
	secondary repository.TaskRepository
	core      *migrate.Core
}

// NewTaskRepository crea el decorador dual-write de tareas.
func NewTaskRepository(primary, secondary repository.TaskRepository, core *migrate.Core) repository.TaskRepository {
	return &taskRepository{primary: primary, secondary: secondary, core: core}
}

func (d *taskRepository) Create(ctx context.Context, in repository.CreateTaskInput) (repository.Task, error) {
	return migrate.Do(ctx, d.core, "Create", in.FamilyID,
		func(ctx context.Context) (repository.Task, error) { return d.primary.Create(ctx, in) },
		func(ctx context.Context) (repository.Task, error) { return d.secondary.Create(ctx, in) },
	)
}

func (d *taskRepository) GetByID(ctx context.Context, familyID, id string) (repository.Task, error) {
	return migrate.DoRead(ctx, d.core, "GetByID", familyID,
		func(ctx context.Context) (repository.Task, error) { return d.primary.GetByID(ctx, familyID, id) },
		func(ctx context.Context) (repository.Task, error) { return d.secondary.GetByID(ctx, familyID, id) },
	)
}

func (d *taskRepository) ListByFamily(ctx context.Context, familyID string, includeDone bool) ([]repository.Task, error) {
	return migrate.DoRead(ctx, d.core, "ListByFamily", familyID,
		func(ctx context.Context) ([]repository.Task, error) {
			return d.primary.ListByFamily(ctx, familyID, includeDone)
		},
		func(ctx context.Context) ([]repository.Task, error) {
			return d.secondary.ListByFamily(ctx, familyID, includeDone)
		},
	)
}

func (d *taskRepository) ListByAssignee(ctx context.Context, familyID, assigneeID string) ([]repository.Task, error) {
	return migrate.DoRead(ctx, d.core, "ListByAssignee", familyID,
		func(ctx context.Context) ([]repository.Task, error) {
			return d.primary.ListByAssignee(ctx, familyID, assigneeID)
		},
		func(ctx context.Context) ([]repository.Task, error) {
			return d.secondary.ListByAssignee(ctx, familyID, assigneeID)
		},
	)
}

func (d *taskRepository) Update(ctx context.Context, familyID, id string, in repository.UpdateTaskInput) (repository.Task, error) {
	return migrate.Do(ctx, d.core, "Update", familyID,
		func(ctx context.Context) (repository.Task, error) { return d.primary.Update(ctx, familyID, id, in) },
		func(ctx context.Context) (repository.Task, error) { return d.secondary.Update(ctx, familyID, id, in) },
	)
}

func (d *taskRepository) Complete(ctx context.Context, familyID, id string) (repository.Task, error) {
	return migrate.Do(ctx, d.core, "Complete", familyID,
		func(ctx context.Context) (repository.Task, error) { return d.primary.Complete(ctx, familyID, id) },
		func(ctx context.Context) (repository.Task, error) { return d.secondary.Complete(ctx, familyID, id) },
	)
}

func (d *taskRepository) Delete(ctx context.Context, familyID, id string) error {
	return migrate.Exec(ctx, d.core, "Delete", familyID,
		func(ctx context.Context) error { return d.primary.Delete(ctx, familyID, id) },
		func(ctx context.Context) error { return d.secondary.Delete(ctx, familyID, id) },
	)
}
