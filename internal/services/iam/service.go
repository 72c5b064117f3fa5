// Package iam implements account registration, login, and token issuance.
package iam

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/studydeck/deckapi/internal/auth"
	"github.com/studydeck/deckapi/internal/db/models"
	"github.com/studydeck/deckapi/internal/repository"
)

var (
	// ErrInvalidCredentials covers unknown usernames, wrong passwords, and
	// disabled accounts alike so login responses never reveal which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken indicates a registration conflict.
	ErrUsernameTaken = errors.New("username already taken")
)

// Service wires user accounts to token issuance.
type Service struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewService creates an IAM service.
func NewService(users repository.UserRepository, tokens *auth.TokenManager, bcryptCost int) *Service {
	return &Service{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a new account with the USER role.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	return s.CreateUser(ctx, username, password, models.RoleUser)
}

// CreateUser creates an account with an explicit role. Used by Register and
// by the admin bootstrap CLI.
func (s *Service) CreateUser(ctx context.Context, username, password, role string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("role outside the allowed set: %q", role)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if user.DisabledAt != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// GetUser retrieves an account by ID.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
