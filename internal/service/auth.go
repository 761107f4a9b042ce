package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gamefest/backend/internal/model"
	"github.com/gamefest/backend/internal/repository"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a login password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the account persistence the auth service depends on.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService handles account registration and credential verification.
// Session management is the HTTP layer's concern.
type AuthService struct {
	users    UserStore
	validate *validator.Validate
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserStore) *AuthService {
	return &AuthService{
		users:    users,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register creates a new USER account with a bcrypt-hashed password.
// Returns repository.ErrEmailTaken when the email already has an account.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid registration: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Username, req.Email, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns the account. Returns
// repository.ErrNotFound for an unknown email and ErrInvalidCredentials for
// a wrong password, so the handler can keep the distinct status codes the
// frontend expects.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid login: %w", err)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
