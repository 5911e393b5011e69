package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/internal/auth"
	"backend/internal/domain"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords so callers cannot tell which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash keeps login timing comparable when the username does not exist:
// the bcrypt comparison runs either way.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func (s *Service) Register(ctx context.Context, username, password, role string, customerID *int64) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, fmt.Errorf("%w: username is required", repository.ErrInvalid)
	}
	if password == "" {
		return domain.User{}, fmt.Errorf("%w: password is required", repository.ErrInvalid)
	}
	role = strings.TrimSpace(role)
	if role == "" {
		role = "user"
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.store.CreateUser(ctx, repository.UserCreateInput{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CustomerID:   customerID,
	})
}

// PatchUser updates a user's role, customer link, or password. A new
// password is hashed here; the stores only ever see the hash.
func (s *Service) PatchUser(ctx context.Context, id int64, password, role *string, customerID *int64) (*domain.User, error) {
	input := repository.UserPatchInput{CustomerID: customerID}
	if password != nil {
		if *password == "" {
			return nil, fmt.Errorf("%w: password cannot be empty", repository.ErrInvalid)
		}
		hash, err := auth.HashPassword(*password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		input.PasswordHash = &hash
	}
	if role != nil {
		trimmed := strings.TrimSpace(*role)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: role cannot be empty", repository.ErrInvalid)
		}
		input.Role = &trimmed
	}
	return s.store.PatchUser(ctx, id, input)
}

// Login verifies credentials and opens a session. Unknown username and
// wrong password both come back as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string, ttl time.Duration) (*domain.User, *domain.Session, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.CheckPasswordHash(password, dummyHash)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now()
	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, nil, err
	}
	return user, &session, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	err := s.store.DeleteSession(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		// Already gone; logout is idempotent.
		return nil
	}
	return err
}

// SessionUser resolves a session ID to its user, rejecting expired or
// revoked sessions.
func (s *Service) SessionUser(ctx context.Context, sessionID string) (*domain.User, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		_ = s.store.DeleteSession(ctx, sessionID)
		return nil, ErrInvalidCredentials
	}
	return s.store.GetUser(ctx, session.UserID)
}

// EnsureDefaultAdmin creates an initial admin account when the user table
// is empty. The password comes from configuration; with none set the
// account is created with a random one and the operator must reset it.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, password string) error {
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if password == "" {
		password = uuid.NewString()
	}
	if _, err := s.Register(ctx, "admin", password, "admin", nil); err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}
	return nil
}
