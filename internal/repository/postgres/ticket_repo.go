package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventful/internal/domain"
)

type ticketRepository struct {
	DB *sql.DB
}

func NewTicketRepository(db *sql.DB) domain.TicketRepository {
	return &ticketRepository{
		DB: db,
	}
}

func (r *ticketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	query := `
		INSERT INTO tickets (id, event_id, user_id, code, status, purchased_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query, t.ID, t.EventID, t.UserID, t.Code, t.Status, t.PurchasedAt)
	return err
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `
		SELECT t.id, t.event_id, t.user_id, t.code, t.status, t.purchased_at,
			e.id, e.title, e.creator_id, e.event_datetime
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.id = $1
	`
	t := &domain.Ticket{Event: &domain.Event{}}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.EventID, &t.UserID, &t.Code, &t.Status, &t.PurchasedAt,
		&t.Event.ID, &t.Event.Title, &t.Event.CreatorID, &t.Event.DateTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *ticketRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Ticket, error) {
	query := `
		SELECT id, event_id, user_id, code, status, purchased_at
		FROM tickets
		WHERE event_id = $1 AND user_id = $2
	`
	t := &domain.Ticket{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(
		&t.ID, &t.EventID, &t.UserID, &t.Code, &t.Status, &t.PurchasedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *ticketRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Ticket, error) {
	query := `
		SELECT id, event_id, user_id, code, status, purchased_at
		FROM tickets
		WHERE event_id = $1
		ORDER BY purchased_at
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		t := &domain.Ticket{}
		if err := rows.Scan(&t.ID, &t.EventID, &t.UserID, &t.Code, &t.Status, &t.PurchasedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE tickets SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
