package domain

import (
	"context"
	"time"
)

// NotificationStatus is the delivery status of a reminder notification.
type NotificationStatus string

const (
	NotificationScheduled NotificationStatus = "scheduled"
	NotificationSent      NotificationStatus = "sent"
)

// Notification is a persisted reminder intent plus its delivery status.
// Email and EventTitle are denormalized at creation time so delivery
// survives later user or event mutation. Records are never deleted.
// swagger:model Notification
type Notification struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	Email      string             `json:"email"`
	EventID    string             `json:"event_id"`
	EventTitle string             `json:"event_title"`
	RemindAt   time.Time          `json:"remind_at"`
	Status     NotificationStatus `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
}

// NotificationRepository defines the interface for notification storage.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context) ([]*Notification, error)
	ListByStatus(ctx context.Context, status NotificationStatus) ([]*Notification, error)
	UpdateStatus(ctx context.Context, id string, status NotificationStatus) error
}

// NotificationScheduler persists reminder intents and fires each once at or
// after its due time, best-effort within a single process. In-memory due
// items are an optimization reconstructed from the durable scheduled status
// on startup and by a periodic recovery pass.
type NotificationScheduler interface {
	// CreateNotification persists a scheduled record and registers it for
	// dispatch at its reminder time. A past-due reminder fires immediately.
	CreateNotification(ctx context.Context, n *Notification) error
	// RecoverPending re-registers every record still in the scheduled state
	// and returns how many were registered.
	RecoverPending(ctx context.Context) (int, error)
	Start()
	Stop()
}
