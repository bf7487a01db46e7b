package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is the full DDL for the service, applied idempotently at startup.
// The composite keys on event_attendees and user_events are what keep the
// denormalized membership lists duplicate-free.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id             TEXT PRIMARY KEY,
		title          TEXT NOT NULL UNIQUE,
		description    TEXT NOT NULL DEFAULT '',
		date           TEXT NOT NULL,
		time           TEXT NOT NULL,
		event_datetime TIMESTAMPTZ NOT NULL,
		location       TEXT NOT NULL DEFAULT '',
		creator_id     TEXT NOT NULL REFERENCES users(id),
		category_id    TEXT NOT NULL DEFAULT '',
		event_code     TEXT NOT NULL DEFAULT '',
		reminder_at    TIMESTAMPTZ NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS event_attendees (
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		user_id  TEXT NOT NULL REFERENCES users(id),
		added_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (event_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_events (
		user_id  TEXT NOT NULL REFERENCES users(id),
		event_id TEXT NOT NULL,
		added_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, event_id)
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id           TEXT PRIMARY KEY,
		event_id     TEXT NOT NULL,
		user_id      TEXT NOT NULL,
		code         TEXT NOT NULL,
		status       TEXT NOT NULL,
		purchased_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS tickets_event_user_idx ON tickets (event_id, user_id)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		email       TEXT NOT NULL,
		event_id    TEXT NOT NULL,
		event_title TEXT NOT NULL,
		remind_at   TIMESTAMPTZ NOT NULL,
		status      TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS notifications_status_idx ON notifications (status, remind_at)`,
}

// EnsureSchema creates all tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
