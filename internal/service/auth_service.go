package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"jobportal/internal/models"
	"jobportal/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Re-exported domain errors for auth flows.
var (
	ErrInvalidCredentials = models.ErrInvalidCredentials
	ErrUsernameExists     = models.ErrUsernameExists
)

// AuthService handles user auth logic
type AuthService struct {
	users repository.Credentials
}

func NewAuthService(repo repository.Credentials) *AuthService {
	return &AuthService{users: repo}
}

// Register hashes the password and creates a user with the given role.
// The role always comes from the calling entry point, never from the client.
func (s *AuthService) Register(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	username = normalizeUsername(username)
	if username == "" {
		return nil, fmt.Errorf("username is empty: %w", models.ErrInvalidInput)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, models.ErrInvalidInput)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	u := models.User{Username: username, PasswordHash: hash, Role: role}
	id, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	return &u, nil
}

// Authenticate resolves the user and verifies the password. Unknown users and
// wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (models.Principal, error) {
	u, err := s.users.GetByUsername(ctx, normalizeUsername(username))
	if err != nil {
		return models.Principal{}, err
	}
	if u == nil {
		// burn the same time as a real comparison
		_ = verifyPassword(dummyHash(), password)
		return models.Principal{}, ErrInvalidCredentials
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return models.Principal{}, ErrInvalidCredentials
	}

	return models.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}

func normalizeUsername(s string) string {
	return strings.TrimSpace(s)
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password is empty: %w", models.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("hash password: %w", models.ErrInvalidInput)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

var dummyHash = sync.OnceValue(func() string {
	h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return string(h)
})
