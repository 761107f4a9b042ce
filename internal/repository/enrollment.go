package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnrollmentRepository owns the enrollment ledger and the transactions that
// pair ledger mutations with the event seat counter.
//
// Concurrency model: correctness does not rely on application-level locking.
// Two database constraints carry it:
//
//   - the conditional decrement (`free_seats > 0` in the UPDATE's WHERE)
//     acts as a compare-and-swap on the seat counter, so concurrent signups
//     can never drive it negative;
//   - the (user_id, event_id) primary key on enrollments is the final
//     authority for duplicate prevention — the read-before-insert check is
//     only a fast path, since the check and the insert are not atomic with
//     each other.
//
// Both mutations of a signup or withdrawal commit together or not at all;
// a seat is never consumed without a ledger row, or vice versa.
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// IsEnrolled reports whether the user currently holds an enrollment for the
// event. Used as a fast path before signup; never authoritative.
func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, userID, eventID int64) (bool, error) {
	var enrolled bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID,
	).Scan(&enrolled)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return enrolled, nil
}

// Signup atomically consumes one seat and records the enrollment.
//
// Returns ErrSoldOut when the event has no free seats, ErrNotFound when the
// event does not exist, and ErrAlreadyEnrolled when the ledger insert hits
// the uniqueness constraint (a concurrent or repeated signup). In every
// failure case the transaction is rolled back whole — the seat decrement is
// never observable without its ledger row.
func (r *EnrollmentRepository) Signup(ctx context.Context, userID, eventID int64) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Ensure the transaction is always resolved.
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Conditional decrement: succeeds only while seats remain. This is the
	// concurrency linchpin — no read-then-write window on the counter.
	ct, err := tx.Exec(ctx,
		`UPDATE events SET free_seats = free_seats - 1 WHERE id = $1 AND free_seats > 0`,
		eventID,
	)
	if err != nil {
		return fmt.Errorf("decrement free seats: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Either the event is full or it does not exist at all.
		var exists bool
		if scanErr := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID,
		).Scan(&exists); scanErr != nil {
			err = fmt.Errorf("check event exists: %w", scanErr)
			return err
		}
		if !exists {
			err = ErrNotFound
			return err
		}
		err = ErrSoldOut
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO enrollments (user_id, event_id) VALUES ($1, $2)`,
		userID, eventID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race against another signup by the same user. The
			// rollback also undoes the seat decrement above.
			err = ErrAlreadyEnrolled
			return err
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Withdraw deletes the enrollment and returns the seat. Withdrawing from an
// event the user is not enrolled in is a no-op success: the delete affects
// zero rows and the counter is left untouched, so no seat is ever "owed
// back" for an enrollment that never existed.
//
// The returned bool reports whether an enrollment was actually removed.
func (r *EnrollmentRepository) Withdraw(ctx context.Context, userID, eventID int64) (removed bool, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	ct, err := tx.Exec(ctx,
		`DELETE FROM enrollments WHERE user_id = $1 AND event_id = $2`,
		userID, eventID,
	)
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	removed = ct.RowsAffected() > 0

	if removed {
		// Uncapped against original capacity, matching the historical
		// behavior this service replaces. Within one transaction the
		// increment is always paired with a real ledger deletion, so it
		// cannot overshoot on its own.
		_, err = tx.Exec(ctx,
			`UPDATE events SET free_seats = free_seats + 1 WHERE id = $1`,
			eventID,
		)
		if err != nil {
			return false, fmt.Errorf("increment free seats: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return removed, nil
}
