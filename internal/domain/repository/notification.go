package repository

import (
	"context"
	"time"
)

// Notification representa una notificación in-app para un miembro.
// La entrega por canales externos (email/SMS) queda fuera de este repo.
type Notification struct {
	ID        string
	FamilyID  string
	MemberID  string
	Kind      string // "budget_alert", "expiry_warning", "task_due", ...
	Title     string
	Body      string
	ReadAt    *time.Time
	CreatedAt time.Time
}

// CreateNotificationInput datos para encolar una notificación.
type CreateNotificationInput struct {
	FamilyID string
	MemberID string
	Kind     string
	Title    string
	Body     string
}

// NotificationRepository maneja notificaciones in-app.
type NotificationRepository interface {
	Create(ctx context.Context, in CreateNotificationInput) (Notification, error)
	GetByID(ctx context.Context, familyID, id string) (Notification, error)
	ListUnread(ctx context.Context, familyID, memberID string) ([]Notification, error)
	// MarkRead marca como leída. Idempotente.
	MarkRead(ctx context.Context, familyID, id string) (Notification, error)
	Delete(ctx context.Context, familyID, id string) error
}
