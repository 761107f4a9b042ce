package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is the full DDL for the application. Every statement is idempotent
// so Migrate can run unconditionally at startup.
//
// The CHECK on free_seats and the composite primary key on enrollments are
// load-bearing: they are the final authority for the non-negative seat
// counter and for duplicate-enrollment prevention under concurrency. The
// application treats violations as expected outcomes, not bugs.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'USER',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS games (
	id          BIGSERIAL PRIMARY KEY,
	title       TEXT NOT NULL,
	genre       TEXT NOT NULL,
	platforms   JSONB NOT NULL DEFAULT '[]',
	description TEXT NOT NULL DEFAULT '',
	image       TEXT NOT NULL DEFAULT 'default.png',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS events (
	id          BIGSERIAL PRIMARY KEY,
	title       TEXT NOT NULL,
	type        TEXT NOT NULL,
	date        TEXT NOT NULL,
	time        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	image       TEXT NOT NULL DEFAULT 'default.png',
	free_seats  INTEGER NOT NULL CHECK (free_seats >= 0),
	created_by  BIGINT NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS enrollments (
	user_id    BIGINT NOT NULL REFERENCES users(id),
	event_id   BIGINT NOT NULL REFERENCES events(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, event_id)
);
`

// Migrate applies the schema. Safe to call on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
