package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/louals/production-api/internal/logging"
	"github.com/louals/production-api/internal/models"
	"github.com/louals/production-api/internal/repository"
)

var (
	// ErrEmailTaken is returned when signing up with an email that
	// already belongs to a user, whether caught by the pre-check or by
	// the storage constraint.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, so a failed signin never reveals whether the account
	// exists.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService implements the signup and signin flows.
type AuthService interface {
	Register(ctx context.Context, name, email, password, role string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	log      logging.Logger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(userRepo repository.UserRepository, hasher PasswordHasher, log logging.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		log:      log,
	}
}

// Register creates a new user. The lookup is only an early exit; the
// repository's unique constraint decides duplicates under concurrency.
func (s *authService) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("signup lookup failed: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("signup insert failed: %w", err)
	}

	s.log.Info(ctx, "user created", "email", user.Email, "role", user.Role)
	return user, nil
}

// Authenticate verifies email/password and returns the matching user.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("signin lookup failed: %w", err)
	}

	match, err := s.hasher.Compare(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
