package dualwrite

import (
	"context"

	"github.com/dropDatabas3/nido/internal/domain/repository"
	"github.com/dropDatabas3/nido/internal/migrate"
)

type notificationRepository struct {
	primary   repository.NotificationRepository
	secondary repository.NotificationRepository
	core      *migrate.Core
}

// NewNotificationRepository crea el decorador dual-write de notificaciones.
func NewNotificationRepository(primary, secondary repository.NotificationRepository, core *migrate.Core) repository.NotificationRepository {
	return &notificationRepository{primary: primary, secondary: secondary, core: core}
}

func (d *notificationRepository) Create(ctx context.Context, in repository.CreateNotificationInput) (repository.Notification, error) {
	return migrate.Do(ctx, d.core, "Create", in.FamilyID,
		func(ctx context.Context) (repository.Notification, error) { return d.primary.Create(ctx, in) },
		func(ctx context.Context) (repository.Notification, error) { return d.secondary.Create(ctx, in) },
	)
}

func (d *notificationRepository) GetByID(ctx context.Context, familyID, id string) (repository.Notification, error) {
	return migrate.DoRead(ctx, d.core, "GetByID", familyID,
		func(ctx context.Context) (repository.Notification, error) {
			return d.primary.GetByID(ctx, familyID, id)
		},
		func(ctx context.Context) (repository.Notification, error) {
			return d.secondary.GetByID(ctx, familyID, id)
		},
	)
}

func (d *notificationRepository) ListUnread(ctx context.Context, familyID, memberID string) ([]repository.Notification, error) {
	return migrate.DoRead(ctx, d.core, "ListUnread", familyID,
		func(ctx context.Context) ([]repository.Notification, error) {
			return d.primary.ListUnread(ctx, familyID, memberID)
		},
		func(ctx context.Context) ([]repository.Notification, error) {
			return d.secondary.ListUnread(ctx, familyID, memberID)
		},
	)
}

func (d *notificationRepository) MarkRead(ctx context.Context, familyID, id string) (repository.Notification, error) {
	return migrate.Do(ctx, d.core, "MarkRead", familyID,
		func(ctx context.Context) (repository.Notification, error) {
			return d.primary.MarkRead(ctx, familyID, id)
		},
		func(ctx context.Context) (repository.Notification, error) {
			return d.secondary.MarkRead(ctx, familyID, id)
		},
	)
}

func (d *notificationRepository) Delete(ctx context.Context, familyID, id string) error {
	return migrate.Exec(ctx, d.core, "Delete", familyID,
		func(ctx context.Context) error { return d.primary.Delete(ctx, familyID, id) },
		func(ctx context.Context) error { return d.secondary.Delete(ctx, familyID, id) },
	)
}
