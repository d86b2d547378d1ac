package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"jobportal/internal/models"
)

// mockCredentials is a lightweight in-test mock for repository.Credentials.
type mockCredentials struct {
	CreateFn        func(u models.User) (int64, error)
	GetByUsernameFn func(username string) (*models.User, error)

	created  []models.User
	getCalls []string
}

func (m *mockCredentials) Create(_ context.Context, u models.User) (int64, error) {
	m.created = append(m.created, u)
	return m.CreateFn(u)
}

func (m *mockCredentials) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.getCalls = append(m.getCalls, username)
	return m.GetByUsernameFn(username)
}

// --- Register ---

func TestAuthService_Register_HashesPasswordAndKeepsRole(t *testing.T) {
	mock := &mockCredentials{
		CreateFn: func(u models.User) (int64, error) { return 42, nil },
	}
	svc := NewAuthService(mock)

	u, err := svc.Register(context.Background(), " alice ", "s3cr3t", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if u.ID != 42 || u.Username != "alice" || u.Role != models.RoleAdmin {
		t.Fatalf("unexpected user: %+v", u)
	}

	if len(mock.created) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(mock.created))
	}
	stored := mock.created[0]
	if stored.PasswordHash == "s3cr3t" {
		t.Errorf("expected hashed password not equal to raw password")
	}
	if err := verifyPassword(stored.PasswordHash, "s3cr3t"); err != nil {
		t.Errorf("stored hash does not verify with original password: %v", err)
	}
}

func TestAuthService_Register_RejectsInput(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		role     models.Role
	}{
		{name: "blank password", username: "bob", password: "   ", role: models.RoleUser},
		{name: "blank username", username: "  ", password: "pw", role: models.RoleUser},
		{name: "unknown role", username: "bob", password: "pw", role: models.Role("ROOT")},
		{name: "password too long", username: "bob", password: strings.Repeat("x", 80), role: models.RoleUser},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockCredentials{
				CreateFn: func(models.User) (int64, error) {
					t.Fatal("Create should not be called")
					return 0, nil
				},
			}
			_, err := NewAuthService(mock).Register(context.Background(), tc.username, tc.password, tc.role)
			if !errors.Is(err, models.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_DuplicatePropagates(t *testing.T) {
	mock := &mockCredentials{
		CreateFn: func(models.User) (int64, error) {
			return 0, ErrUsernameExists
		},
	}
	_, err := NewAuthService(mock).Register(context.Background(), "carl", "pass123", models.RoleUser)
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

// --- Authenticate ---

func TestAuthService_Authenticate_Success(t *testing.T) {
	hash, err := hashPassword("letmein")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	mock := &mockCredentials{
		GetByUsernameFn: func(username string) (*models.User, error) {
			return &models.User{ID: 7, Username: username, PasswordHash: hash, Role: models.RoleUser}, nil
		},
	}

	p, err := NewAuthService(mock).Authenticate(context.Background(), "diana", "letmein")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	want := models.Principal{UserID: 7, Username: "diana", Role: models.RoleUser}
	if p != want {
		t.Fatalf("principal = %+v; want %+v", p, want)
	}
	if len(mock.getCalls) != 1 {
		t.Fatalf("expected 1 GetByUsername call, got %d", len(mock.getCalls))
	}
}

func TestAuthService_Authenticate_FailuresAreIndistinguishable(t *testing.T) {
	hash, err := hashPassword("correct")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	mock := &mockCredentials{
		GetByUsernameFn: func(username string) (*models.User, error) {
			if username == "eve" {
				return &models.User{ID: 1, Username: "eve", PasswordHash: hash, Role: models.RoleUser}, nil
			}
			return nil, nil
		},
	}
	svc := NewAuthService(mock)

	_, errUnknown := svc.Authenticate(context.Background(), "ghost", "correct")
	_, errWrong := svc.Authenticate(context.Background(), "eve", "wrong")

	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", errUnknown, errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("failure messages differ: %q vs %q", errUnknown, errWrong)
	}
}

func TestAuthService_Authenticate_RepoError(t *testing.T) {
	mock := &mockCredentials{
		GetByUsernameFn: func(string) (*models.User, error) {
			return nil, errors.New("query failed")
		},
	}
	_, err := NewAuthService(mock).Authenticate(context.Background(), "john", "pw")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
