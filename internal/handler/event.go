package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gamefest/backend/internal/model"
	"github.com/gamefest/backend/internal/repository"
	"github.com/gamefest/backend/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// EventHandler holds the HTTP handlers for the event catalog and for
// enrollment signup/withdrawal.
type EventHandler struct {
	events      *service.EventService
	enrollments *service.EnrollmentService
	uploadDir   string
}

// NewEventHandler constructs an EventHandler. Uploaded event images are
// stored under uploadDir and served statically by the router.
func NewEventHandler(events *service.EventService, enrollments *service.EnrollmentService, uploadDir string) *EventHandler {
	return &EventHandler{events: events, enrollments: enrollments, uploadDir: uploadDir}
}

func eventID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// ListEvents handles GET /events?page=&type=&date=&onlyAvailable=
// Returns one nine-event page matching the combined filters.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.EventFilter{
		Page: 1,
		Date: q.Get("date"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if t := q.Get("type"); t != "" && t != "all" {
		filter.Type = t
	}
	if v := q.Get("onlyAvailable"); v == "1" || v == "true" {
		filter.OnlyAvailable = true
	}

	events, err := h.events.ListEvents(r.Context(), filter)
	if err != nil {
		slog.Error("list events failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	event, err := h.events.GetEvent(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		slog.Error("get event failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// CreateEvent handles POST /events (admin only, enforced by middleware).
// Accepts either a JSON body or a multipart form carrying an image file.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	var req model.CreateEventRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		parsed, err := h.parseEventForm(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req = parsed
	} else {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	event, err := h.events.CreateEvent(r.Context(), req, identity.UserID)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("create event failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create event")
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// parseEventForm reads a multipart submission, storing the optional image
// file and returning the filename in the request's Image field.
func (h *EventHandler) parseEventForm(r *http.Request) (model.CreateEventRequest, error) {
	var req model.CreateEventRequest

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		return req, errors.New("invalid multipart form")
	}

	req.Title = r.FormValue("title")
	req.Type = r.FormValue("type")
	req.Date = r.FormValue("date")
	req.Time = r.FormValue("time")
	req.Description = r.FormValue("description")

	if v := r.FormValue("freeSeats"); v != "" {
		seats, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("freeSeats must be an integer")
		}
		req.FreeSeats = seats
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		name, saveErr := h.saveImage(file, header)
		if saveErr != nil {
			return req, saveErr
		}
		req.Image = name
	}

	return req, nil
}

// saveImage stores an uploaded file under the upload dir with a random
// filename, keeping the original extension. Content is not inspected.
func (h *EventHandler) saveImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", errors.New("could not store image")
	}

	name := uuid.New().String() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return "", errors.New("could not store image")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", errors.New("could not store image")
	}
	return name, nil
}

// Signup handles POST /events/{id}/signup
// A POST with ?action=delete is treated as a withdrawal, for clients that
// cannot send DELETE.
func (h *EventHandler) Signup(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	id, err := eventID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	if r.URL.Query().Get("action") == "delete" {
		h.withdraw(w, r, identity.UserID, id)
		return
	}

	if err := h.enrollments.Signup(r.Context(), identity.UserID, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyEnrolled):
			writeError(w, http.StatusConflict, "already enrolled in this event")
		case errors.Is(err, repository.ErrSoldOut):
			writeError(w, http.StatusBadRequest, "no free seats left")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "event not found")
		default:
			slog.Error("signup failed", "error", err, "user_id", identity.UserID, "event_id", id)
			writeError(w, http.StatusInternalServerError, "could not complete signup")
		}
		return
	}

	writeMessage(w, http.StatusCreated, "enrolled")
}

// Withdraw handles DELETE /events/{id}/signup
func (h *EventHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	id, err := eventID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	h.withdraw(w, r, identity.UserID, id)
}

func (h *EventHandler) withdraw(w http.ResponseWriter, r *http.Request, userID, eventID int64) {
	if err := h.enrollments.Withdraw(r.Context(), userID, eventID); err != nil {
		slog.Error("withdraw failed", "error", err, "user_id", userID, "event_id", eventID)
		writeError(w, http.StatusInternalServerError, "could not withdraw")
		return
	}
	writeMessage(w, http.StatusOK, "withdrawn")
}
