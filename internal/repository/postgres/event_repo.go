package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventful/internal/domain"
)

const eventColumns = `e.id, e.title, e.description, e.date, e.time, e.event_datetime,
		e.location, e.creator_id, u.name, e.category_id, e.event_code, e.reminder_at,
		e.created_at, e.updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (id, title, description, date, time, event_datetime,
			location, creator_id, category_id, event_code, reminder_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Date, e.Time, e.DateTime,
		e.Location, e.CreatorID, e.CategoryID, e.EventCode, e.ReminderAt,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTitle
		}
		return err
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN users u ON u.id = e.creator_id
		WHERE e.id = $1
	`
	e := &domain.Event{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.DateTime,
		&e.Location, &e.CreatorID, &e.CreatorName, &e.CategoryID, &e.EventCode,
		&e.ReminderAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	attendees, err := r.listAttendeeIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	e.AttendeeIDs = attendees
	return e, nil
}

func (r *eventRepository) listAttendeeIDs(ctx context.Context, eventID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT user_id FROM event_attendees WHERE event_id = $1 ORDER BY added_at`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// sortColumn maps the closed sort-field enum to fixed columns. Caller input
// never reaches the query text directly.
func sortColumn(f domain.SortField) string {
	switch f {
	case domain.SortByTitle:
		return "e.title"
	case domain.SortByOrganizer:
		return "u.name"
	default:
		return "e.event_datetime"
	}
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	where := ""
	args := []interface{}{}
	if filter.Title != "" {
		where = "WHERE e.title ILIKE '%' || $1 || '%'"
		args = append(args, filter.Title)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM events e JOIN users u ON u.id = e.creator_id %s`, where)
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	n := len(args)
	query := fmt.Sprintf(`
		SELECT `+eventColumns+`
		FROM events e
		JOIN users u ON u.id = e.creator_id
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, where, sortColumn(filter.SortBy), direction, n+1, n+2)
	args = append(args, filter.Page.Limit, filter.Page.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.DateTime,
			&e.Location, &e.CreatorID, &e.CreatorName, &e.CategoryID, &e.EventCode,
			&e.ReminderAt, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Date != nil {
		add("date", *patch.Date)
	}
	if patch.Time != nil {
		add("time", *patch.Time)
	}
	if patch.DateTime != nil {
		add("event_datetime", *patch.DateTime)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.CategoryID != nil {
		add("category_id", *patch.CategoryID)
	}
	if patch.ReminderAt != nil {
		add("reminder_at", *patch.ReminderAt)
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events e SET %s
		FROM users u
		WHERE e.id = $%d AND u.id = e.creator_id
		RETURNING `+eventColumns+`
	`, strings.Join(setClauses, ", "), n)

	e := &domain.Event{}
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.DateTime,
		&e.Location, &e.CreatorID, &e.CreatorName, &e.CategoryID, &e.EventCode,
		&e.ReminderAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateTitle
		}
		return nil, err
	}

	attendees, err := r.listAttendeeIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	e.AttendeeIDs = attendees
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) AddAttendee(ctx context.Context, eventID, userID string) error {
	query := `
		INSERT INTO event_attendees (event_id, user_id, added_at)
		VALUES ($1, $2, NOW())
	`
	if _, err := r.DB.ExecContext(ctx, query, eventID, userID); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}
