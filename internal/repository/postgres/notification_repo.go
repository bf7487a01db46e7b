package postgres

import (
	"context"
	"database/sql"

	"eventful/internal/domain"
)

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{
		DB: db,
	}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, email, event_id, event_title, remind_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		n.ID, n.UserID, n.Email, n.EventID, n.EventTitle, n.RemindAt, n.Status, n.CreatedAt)
	return err
}

func (r *notificationRepository) List(ctx context.Context) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, email, event_id, event_title, remind_at, status, created_at
		FROM notifications
		ORDER BY remind_at
	`
	return r.query(ctx, query)
}

func (r *notificationRepository) ListByStatus(ctx context.Context, status domain.NotificationStatus) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, email, event_id, event_title, remind_at, status, created_at
		FROM notifications
		WHERE status = $1
		ORDER BY remind_at
	`
	return r.query(ctx, query, status)
}

func (r *notificationRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Notification, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		n := &domain.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Email, &n.EventID, &n.EventTitle, &n.RemindAt, &n.Status, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) UpdateStatus(ctx context.Context, id string, status domain.NotificationStatus) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE notifications SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
