package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gamefest/backend/internal/model"
	"github.com/gamefest/backend/internal/repository"
	"github.com/gamefest/backend/internal/service"
)

// AuthHandler holds the HTTP handlers for registration, login and logout.
type AuthHandler struct {
	svc      *service.AuthService
	sessions *Sessions
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *service.AuthService, sessions *Sessions) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sessions}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if _, err := h.svc.Register(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email already registered")
		default:
			if isValidationError(err) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.Error("register failed", "error", err)
			writeError(w, http.StatusInternalServerError, "could not register")
		}
		return
	}

	writeMessage(w, http.StatusCreated, "registered")
}

// Login handles POST /auth/login
// Distinct statuses for unknown email (404) and wrong password (401) match
// what the frontend shows the user.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "wrong password")
		default:
			if isValidationError(err) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "could not log in")
		}
		return
	}

	if err := h.sessions.SignIn(w, r, user); err != nil {
		slog.Error("save session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not log in")
		return
	}

	writeJSON(w, http.StatusOK, model.SessionResponse{
		Authenticated: true,
		Username:      user.Username,
		Role:          user.Role,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		slog.Error("clear session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not log out")
		return
	}
	writeMessage(w, http.StatusOK, "session closed")
}
