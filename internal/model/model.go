// Package model defines the core domain types for the GameFest backend.
package model

import "time"

// Roles a user account can hold. Only admins may create events.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is a registered account. PasswordHash is a bcrypt hash and is never
// serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user may perform admin-only operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is the per-request authenticated caller, extracted from the
// session cookie and threaded through context. It is the only session state
// the rest of the application sees.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

// Game is a catalog entry. Platforms is stored as a JSONB array.
type Game struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Genre       string    `json:"genre"`
	Platforms   []string  `json:"platforms"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
}

// Event is a fair activity with a finite number of seats. FreeSeats is
// mutated only by the enrollment transaction and never goes negative.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	FreeSeats   int       `json:"freeSeats"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Enrollment is one row of the ledger pairing a user with an event. The
// (UserID, EventID) pair is unique.
type Enrollment struct {
	UserID    int64     `json:"user_id"`
	EventID   int64     `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ─── Request payloads ─────────────────────────────────────────────────────────

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the payload for opening a session.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateEventRequest is the payload for creating a new event. Date and Time
// are ISO formatted so lexicographic ordering matches chronological ordering.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Type        string `json:"type" validate:"required,max=50"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required,datetime=15:04"`
	Description string `json:"description"`
	Image       string `json:"image"`
	FreeSeats   int    `json:"freeSeats" validate:"min=0"`
}

// EventFilter narrows and paginates the event listing. Page is 1-based.
type EventFilter struct {
	Page          int
	Type          string
	Date          string
	OnlyAvailable bool
}

// EventPageSize is the fixed number of events per listing page, matching the
// frontend's three-by-three card grid.
const EventPageSize = 9

// GameFilter holds optional substring filters for the game catalog.
type GameFilter struct {
	Title    string
	Genre    string
	Platform string
}

// ─── Response payloads ────────────────────────────────────────────────────────

// MessageResponse is the standard JSON success envelope.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionResponse describes the authenticated caller, returned by login and
// by GET /users/me.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
	Role          string `json:"role"`
}
