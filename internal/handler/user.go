package handler

import (
	"log/slog"
	"net/http"

	"github.com/gamefest/backend/internal/model"
	"github.com/gamefest/backend/internal/service"
)

// UserHandler serves the current user's profile and enrollments.
type UserHandler struct {
	events *service.EventService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(events *service.EventService) *UserHandler {
	return &UserHandler{events: events}
}

// Me handles GET /users/me
// Lets the frontend re-establish who is signed in after a page refresh.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())
	writeJSON(w, http.StatusOK, model.SessionResponse{
		Authenticated: true,
		Username:      identity.Username,
		Role:          identity.Role,
	})
}

// MyEvents handles GET /users/me/events
// Returns the events the caller is enrolled in, ordered by date.
func (h *UserHandler) MyEvents(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	events, err := h.events.ListUserEvents(r.Context(), identity.UserID)
	if err != nil {
		slog.Error("list user events failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list your events")
		return
	}

	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}
