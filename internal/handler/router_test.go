package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gamefest/backend/internal/handler"
	"github.com/gamefest/backend/internal/model"
	"github.com/gamefest/backend/internal/repository"
	"github.com/gamefest/backend/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

// fakeState is shared in-memory storage behind the per-interface fakes. Its
// enrollment methods keep the same atomicity contract as the real
// repository: counter and ledger change together under one lock.
type fakeState struct {
	mu          sync.Mutex
	users       map[string]*model.User
	nextUserID  int64
	events      map[int64]*model.Event
	nextEventID int64
	ledger      map[[2]int64]bool
	games       []model.Game
}

func newFakeState() *fakeState {
	return &fakeState{
		users:  make(map[string]*model.User),
		events: make(map[int64]*model.Event),
		ledger: make(map[[2]int64]bool),
	}
}

// addUser seeds an account directly, bypassing the registration endpoint.
func (s *fakeState) addUser(t *testing.T, username, email, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	u := &model.User{
		ID:           s.nextUserID,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[email] = u
	return u
}

func (s *fakeState) addEvent(e model.Event) *model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEventID++
	e.ID = s.nextEventID
	s.events[e.ID] = &e
	return &e
}

type fakeUsers struct{ s *fakeState }

func (f *fakeUsers) Create(_ context.Context, username, email, passwordHash string) (*model.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, exists := f.s.users[email]; exists {
		return nil, repository.ErrEmailTaken
	}
	f.s.nextUserID++
	u := &model.User{
		ID:           f.s.nextUserID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         model.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	f.s.users[email] = u
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type fakeEvents struct{ s *fakeState }

func (f *fakeEvents) Create(_ context.Context, req model.CreateEventRequest, createdBy int64) (*model.Event, error) {
	image := req.Image
	if image == "" {
		image = "default.png"
	}
	return f.s.addEvent(model.Event{
		Title:       req.Title,
		Type:        req.Type,
		Date:        req.Date,
		Time:        req.Time,
		Description: req.Description,
		Image:       image,
		FreeSeats:   req.FreeSeats,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}), nil
}

func (f *fakeEvents) List(_ context.Context, filter model.EventFilter) ([]model.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var out []model.Event
	for _, e := range f.s.events {
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.Date != "" && e.Date != filter.Date {
			continue
		}
		if filter.OnlyAvailable && e.FreeSeats == 0 {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})

	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * model.EventPageSize
	if start >= len(out) {
		return nil, nil
	}
	end := min(start+model.EventPageSize, len(out))
	return out[start:end], nil
}

func (f *fakeEvents) GetByID(_ context.Context, id int64) (*model.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	e, ok := f.s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEvents) ListByUser(_ context.Context, userID int64) ([]model.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []model.Event
	for _, e := range f.s.events {
		if f.s.ledger[[2]int64{userID, e.ID}] {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

type fakeEnrollments struct{ s *fakeState }

func (f *fakeEnrollments) IsEnrolled(_ context.Context, userID, eventID int64) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.ledger[[2]int64{userID, eventID}], nil
}

func (f *fakeEnrollments) Signup(_ context.Context, userID, eventID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	e, ok := f.s.events[eventID]
	if !ok {
		return repository.ErrNotFound
	}
	if e.FreeSeats == 0 {
		return repository.ErrSoldOut
	}
	key := [2]int64{userID, eventID}
	if f.s.ledger[key] {
		return repository.ErrAlreadyEnrolled
	}
	e.FreeSeats--
	f.s.ledger[key] = true
	return nil
}

func (f *fakeEnrollments) Withdraw(_ context.Context, userID, eventID int64) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	key := [2]int64{userID, eventID}
	if !f.s.ledger[key] {
		return false, nil
	}
	delete(f.s.ledger, key)
	if e, ok := f.s.events[eventID]; ok {
		e.FreeSeats++
	}
	return true, nil
}

type fakeGames struct{ s *fakeState }

func (f *fakeGames) List(_ context.Context, filter model.GameFilter) ([]model.Game, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	contains := func(haystack, needle string) bool {
		return needle == "" || strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}

	var out []model.Game
	for _, g := range f.s.games {
		if !contains(g.Title, filter.Title) || !contains(g.Genre, filter.Genre) {
			continue
		}
		if filter.Platform != "" && !contains(strings.Join(g.Platforms, ","), filter.Platform) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// testServer runs the full router over the fakes, with a cookie-jar client
// so session flows behave like a browser.
type testServer struct {
	*httptest.Server
	state  *fakeState
	client *http.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	state := newFakeState()

	eventSvc := service.NewEventService(&fakeEvents{s: state})
	enrollSvc := service.NewEnrollmentService(&fakeEnrollments{s: state})
	authSvc := service.NewAuthService(&fakeUsers{s: state})
	gameSvc := service.NewGameService(&fakeGames{s: state})

	sessions := handler.NewSessions(testSessionSecret)
	authHandler := handler.NewAuthHandler(authSvc, sessions)
	eventHandler := handler.NewEventHandler(eventSvc, enrollSvc, t.TempDir())
	gameHandler := handler.NewGameHandler(gameSvc)
	userHandler := handler.NewUserHandler(eventSvc)

	r := chi.NewRouter()
	r.Use(handler.CORS)
	r.Use(sessions.WithIdentity)

	r.Get("/health", handler.HealthCheck)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})
	r.Get("/games", gameHandler.ListGames)
	r.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.ListEvents)
		r.Get("/{id}", eventHandler.GetEvent)
		r.With(handler.RequireUser, handler.RequireAdmin).Post("/", eventHandler.CreateEvent)
		r.Route("/{id}/signup", func(r chi.Router) {
			r.Use(handler.RequireUser)
			r.Post("/", eventHandler.Signup)
			r.Delete("/", eventHandler.Withdraw)
		})
	})
	r.Route("/users/me", func(r chi.Router) {
		r.Use(handler.RequireUser)
		r.Get("/", userHandler.Me)
		r.Get("/events", userHandler.MyEvents)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{
		Server: srv,
		state:  state,
		client: newClient(t),
	}
}

// newClient returns an HTTP client with its own cookie jar, i.e. its own
// browser session.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// login authenticates through the real endpoint so the cookie jar picks up
// the session cookie.
func (ts *testServer) login(t *testing.T, email, password string) {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/auth/login", model.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
