package users

import (
	"context"
	"errors"
	"testing"

	"github.com/bingelist/bingelist/internal/auth"
	"github.com/bingelist/bingelist/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t)
	authService, err := auth.NewService(db.Conn(), "test-secret")
	if err != nil {
		t.Fatalf("failed to create auth service: %v", err)
	}

	return NewService(NewRepo(db.Conn()), authService, testutil.NewTestLogger())
}

func TestService_Register(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	user, token, err := service.Register(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == 0 {
		t.Error("expected non-zero user ID")
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}
	if token == "" {
		t.Error("expected non-empty token")
	}
	if user.PasswordHash == "hunter2" {
		t.Error("password stored in plaintext")
	}
}

func TestService_Register_DuplicateUsername(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	if _, _, err := service.Register(ctx, "alice", "hunter2"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, _, err := service.Register(ctx, "alice", "different")
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("Register() error = %v, want %v", err, ErrUsernameExists)
	}
}

func TestService_Register_EmptyPassword(t *testing.T) {
	service := newTestService(t)

	_, _, err := service.Register(context.Background(), "alice", "")
	if !errors.Is(err, auth.ErrPasswordRequired) {
		t.Errorf("Register() error = %v, want %v", err, auth.ErrPasswordRequired)
	}
}

func TestService_Login(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	registered, _, err := service.Register(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, token, err := service.Login(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("user ID = %d, want %d", user.ID, registered.ID)
	}
	if token == "" {
		t.Error("expected non-empty token")
	}
}

func TestService_Login_WrongPassword(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	if _, _, err := service.Register(ctx, "alice", "hunter2"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, _, err := service.Login(ctx, "alice", "wrong")
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want %v", err, auth.ErrInvalidCredentials)
	}
}

func TestService_Login_UnknownUser(t *testing.T) {
	service := newTestService(t)

	_, _, err := service.Login(context.Background(), "nobody", "hunter2")
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want %v", err, auth.ErrInvalidCredentials)
	}
}

func TestService_Profile(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	registered, _, err := service.Register(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := service.Profile(ctx, registered.ID)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}
}
