package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bingelist/bingelist/internal/testutil"
)

func TestService_TokenRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	service, err := NewService(db.Conn(), "test-secret")
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	token, err := service.GenerateToken(42, "alice")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want %q", claims.Username, "alice")
	}
}

func TestService_ValidateToken_WrongSecret(t *testing.T) {
	db := testutil.NewTestDB(t)
	service, err := NewService(db.Conn(), "test-secret")
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	other, err := NewService(db.Conn(), "other-secret")
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	token, err := other.GenerateToken(1, "alice")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := service.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken() error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestService_ValidateToken_Expired(t *testing.T) {
	db := testutil.NewTestDB(t)
	service, err := NewService(db.Conn(), "test-secret")
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	claims := &Claims{
		UserID:   1,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := service.ValidateToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("ValidateToken() error = %v, want %v", err, ErrTokenExpired)
	}
}

func TestService_GeneratedSecretPersists(t *testing.T) {
	db := testutil.NewTestDB(t)

	first, err := NewService(db.Conn(), "")
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	token, err := first.GenerateToken(1, "alice")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	// A second service on the same database must load the same secret
	second, err := NewService(db.Conn(), "")
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if _, err := second.ValidateToken(token); err != nil {
		t.Errorf("ValidateToken() with reloaded secret error = %v", err)
	}
}

func TestHashAndValidatePassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash equals plaintext")
	}

	if err := ValidatePassword(hash, "hunter2"); err != nil {
		t.Errorf("ValidatePassword() error = %v", err)
	}
	if err := ValidatePassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("ValidatePassword() error = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); !errors.Is(err, ErrPasswordRequired) {
		t.Errorf("HashPassword() error = %v, want %v", err, ErrPasswordRequired)
	}
}
