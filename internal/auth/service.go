// Package auth implements email/password accounts and bearer token issuance.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/internal/middleware"
)

// MinPasswordLength is enforced on signup.
const MinPasswordLength = 6

// ErrInvalidCredentials is returned by Login for any email/password mismatch.
var ErrInvalidCredentials = &domain.Error{Kind: domain.ErrUnauthorized, Msg: "Invalid email or password"}

// Service issues tokens for registered users.
type Service struct {
	users  domain.UserRepository
	secret string
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(users domain.UserRepository, secret string, ttl time.Duration) *Service {
	return &Service{
		users:  users,
		secret: secret,
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
}

// Signup registers a new account and returns an access token for it.
func (s *Service) Signup(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(email)
	if len(password) < MinPasswordLength {
		return "", nil, domain.Invalid(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", nil, domain.Invalid("Email already registered")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.Create(ctx, email, string(hash))
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return "", nil, domain.Invalid("Email already registered")
		}
		return "", nil, err
	}
	token, err := middleware.IssueToken(s.secret, user.ID, s.ttl, s.now())
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

// Login verifies credentials and returns a fresh access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := middleware.IssueToken(s.secret, user.ID, s.ttl, s.now())
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

// Me loads the account behind an authenticated user id. Unknown users are unauthorized.
func (s *Service) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.Error{Kind: domain.ErrUnauthorized, Msg: "User not found"}
		}
		return nil, err
	}
	return user, nil
}
