package handler

import (
	"net/http"

	"github.com/gamefest/backend/internal/model"
	"github.com/gorilla/sessions"
)

const sessionName = "gamefest_session"

// Sessions wraps the cookie store holding the authenticated identity.
// Handlers never touch the store directly; identity flows through request
// context via the auth middleware.
type Sessions struct {
	store *sessions.CookieStore
}

// NewSessions constructs a cookie-backed session manager.
func NewSessions(secret string) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// SignIn records the user in the session cookie.
func (s *Sessions) SignIn(w http.ResponseWriter, r *http.Request, user *model.User) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Values["user_id"] = user.ID
	sess.Values["username"] = user.Username
	sess.Values["role"] = user.Role
	return sess.Save(r, w)
}

// Clear destroys the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Options.MaxAge = -1
	clear(sess.Values)
	return sess.Save(r, w)
}

// identity reads the caller's identity out of the session cookie, if any.
func (s *Sessions) identity(r *http.Request) (*model.Identity, bool) {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		// Tampered or stale cookie; treat as anonymous.
		return nil, false
	}

	userID, ok := sess.Values["user_id"].(int64)
	if !ok {
		return nil, false
	}
	username, _ := sess.Values["username"].(string)
	role, _ := sess.Values["role"].(string)

	return &model.Identity{UserID: userID, Username: username, Role: role}, true
}
