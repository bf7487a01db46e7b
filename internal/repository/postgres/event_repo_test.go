package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"eventful/internal/domain"
)

var eventRowColumns = []string{
	"id", "title", "description", "date", "time", "event_datetime",
	"location", "creator_id", "name", "category_id", "event_code", "reminder_at",
	"created_at", "updated_at",
}

func addEventRow(rows *sqlmock.Rows, id, title string) *sqlmock.Rows {
	at := time.Date(2026, 10, 1, 19, 30, 0, 0, time.UTC)
	return rows.AddRow(
		id, title, "desc", "2026-10-01", "7:30PM", at,
		"Lisbon", "user-1", "Ana", "cat-1", "data:image/png;base64,AAA", at.Add(-24*time.Hour),
		at.Add(-720*time.Hour), at.Add(-720*time.Hour),
	)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 10, 1, 19, 30, 0, 0, time.UTC)
	event := &domain.Event{
		ID:         "ev-1",
		Title:      "Go Meetup",
		Date:       "2026-10-01",
		Time:       "7:30PM",
		DateTime:   at,
		CreatorID:  "user-1",
		ReminderAt: at.Add(-24 * time.Hour),
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
		anyErr  bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO events`).
					WithArgs(event.ID, event.Title, event.Description, event.Date, event.Time, event.DateTime,
						event.Location, event.CreatorID, event.CategoryID, event.EventCode, event.ReminderAt,
						event.CreatedAt, event.UpdatedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "duplicate title",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO events`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrDuplicateTitle,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, event)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.anyErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success with attendees", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT e.id, e.title`).
			WithArgs("ev-1").
			WillReturnRows(addEventRow(sqlmock.NewRows(eventRowColumns), "ev-1", "Go Meetup"))
		mock.ExpectQuery(`SELECT user_id FROM event_attendees`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("user-2").AddRow("user-3"))

		repo := NewEventRepository(db)
		event, err := repo.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		require.Equal(t, "Go Meetup", event.Title)
		require.Equal(t, "Ana", event.CreatorName)
		require.Equal(t, []string{"user-2", "user-3"}, event.AttendeeIDs)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT e.id, e.title`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(eventRowColumns))

		repo := NewEventRepository(db)
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("title filter with pagination", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events e`).
			WithArgs("meetup").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
		rows := sqlmock.NewRows(eventRowColumns)
		addEventRow(rows, "ev-1", "Go Meetup")
		addEventRow(rows, "ev-2", "Rust Meetup")
		mock.ExpectQuery(`ORDER BY e.event_datetime ASC\s+LIMIT \$2 OFFSET \$3`).
			WithArgs("meetup", 10, 10).
			WillReturnRows(rows)

		repo := NewEventRepository(db)
		events, total, err := repo.List(ctx, domain.EventFilter{
			Title:  "meetup",
			Page:   domain.PaginationParams{Page: 2, Limit: 10},
			SortBy: domain.SortByDate,
		})
		require.NoError(t, err)
		require.Equal(t, 12, total)
		require.Len(t, events, 2)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("organizer sort descending", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events e`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`ORDER BY u.name DESC`).
			WithArgs(10, 0).
			WillReturnRows(addEventRow(sqlmock.NewRows(eventRowColumns), "ev-1", "Go Meetup"))

		repo := NewEventRepository(db)
		_, _, err = repo.List(ctx, domain.EventFilter{
			Page:     domain.PaginationParams{Page: 1, Limit: 10},
			SortBy:   domain.SortByOrganizer,
			SortDesc: true,
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	title := "Go Meetup 2.0"

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events e SET updated_at = NOW\(\), title = \$1`).
			WithArgs(title, "ev-1").
			WillReturnRows(addEventRow(sqlmock.NewRows(eventRowColumns), "ev-1", title))
		mock.ExpectQuery(`SELECT user_id FROM event_attendees`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

		repo := NewEventRepository(db)
		event, err := repo.Update(ctx, "ev-1", domain.EventPatch{Title: &title})
		require.NoError(t, err)
		require.Equal(t, title, event.Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events e SET`).
			WillReturnRows(sqlmock.NewRows(eventRowColumns))

		repo := NewEventRepository(db)
		_, err = repo.Update(ctx, "missing", domain.EventPatch{Title: &title})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("duplicate title", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events e SET`).
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewEventRepository(db)
		_, err = repo.Update(ctx, "ev-1", domain.EventPatch{Title: &title})
		require.ErrorIs(t, err, domain.ErrDuplicateTitle)
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.Delete(ctx, "ev-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrNotFound)
	})
}

func TestEventRepository_AddAttendee(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO event_attendees`).
			WithArgs("ev-1", "user-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.AddAttendee(ctx, "ev-1", "user-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already registered maps the unique violation", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO event_attendees`).
			WithArgs("ev-1", "user-1").
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewEventRepository(db)
		require.ErrorIs(t, repo.AddAttendee(ctx, "ev-1", "user-1"), domain.ErrAlreadyRegistered)
	})
}
