package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bingelist/bingelist/internal/auth"
)

// Service implements account registration and login.
type Service struct {
	repo   *Repo
	auth   *auth.Service
	logger zerolog.Logger
}

// NewService creates a user service.
func NewService(repo *Repo, authService *auth.Service, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		auth:   authService,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

// Register creates a new account and returns the user with a signed token.
func (s *Service) Register(ctx context.Context, username, password string) (*User, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user, err := s.repo.Create(ctx, username, hash)
	if err != nil {
		return nil, "", err
	}

	token, err := s.auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info().
		Int64("userId", user.ID).
		Str("username", user.Username).
		Msg("User registered")

	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", auth.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := auth.ValidatePassword(user.PasswordHash, password); err != nil {
		return nil, "", auth.ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Profile returns the account for an authenticated user.
func (s *Service) Profile(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}
