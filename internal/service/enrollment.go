// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gamefest/backend/internal/repository"
)

// EnrollmentStore is the transactional contract the coordinator depends on.
// Implementations must pair the seat-counter mutation and the ledger
// mutation atomically: both land or neither does.
type EnrollmentStore interface {
	IsEnrolled(ctx context.Context, userID, eventID int64) (bool, error)
	Signup(ctx context.Context, userID, eventID int64) error
	Withdraw(ctx context.Context, userID, eventID int64) (removed bool, err error)
}

// EnrollmentService coordinates event signups and withdrawals. It owns the
// transaction boundary semantics (duplicate fast path, error
// classification) while the store owns the atomicity itself.
type EnrollmentService struct {
	enrollments EnrollmentStore
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(enrollments EnrollmentStore) *EnrollmentService {
	return &EnrollmentService{enrollments: enrollments}
}

// Signup enrolls the user in the event, consuming one seat.
//
// Outcomes: nil on success; repository.ErrAlreadyEnrolled when the user
// already holds the enrollment; repository.ErrSoldOut when no seats remain;
// repository.ErrNotFound when the event does not exist. Any other error is a
// storage failure — the store guarantees full rollback before it surfaces.
// No outcome is retried here; conflicts are terminal for the caller.
func (s *EnrollmentService) Signup(ctx context.Context, userID, eventID int64) error {
	// Fast path. The ledger's uniqueness constraint remains the final
	// authority; this just avoids burning a transaction on the common
	// double-click case.
	enrolled, err := s.enrollments.IsEnrolled(ctx, userID, eventID)
	if err != nil {
		return fmt.Errorf("signup precheck: %w", err)
	}
	if enrolled {
		return repository.ErrAlreadyEnrolled
	}

	err = s.enrollments.Signup(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrSoldOut) ||
			errors.Is(err, repository.ErrAlreadyEnrolled) ||
			errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("signup: %w", err)
	}

	slog.Info("user enrolled", "user_id", userID, "event_id", eventID)
	return nil
}

// Withdraw removes the user's enrollment and returns the seat. Withdrawing
// when not enrolled is a success no-op, so the operation is idempotent.
func (s *EnrollmentService) Withdraw(ctx context.Context, userID, eventID int64) error {
	removed, err := s.enrollments.Withdraw(ctx, userID, eventID)
	if err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	if removed {
		slog.Info("user withdrew", "user_id", userID, "event_id", eventID)
	}
	return nil
}
