// Package repository implements all database queries for the GameFest
// backend. It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrSoldOut is returned when an event has no free seats left.
var ErrSoldOut = errors.New("event has no free seats")

// ErrAlreadyEnrolled is returned when a user tries to sign up for an event
// they already hold an enrollment for.
var ErrAlreadyEnrolled = errors.New("already enrolled in this event")

// ErrEmailTaken is returned when registering with an email that already has
// an account.
var ErrEmailTaken = errors.New("email already registered")

// Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
