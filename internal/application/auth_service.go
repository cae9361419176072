package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/bookme/internal/persistence"
)

// AuthService verifies HTTP Basic credentials against the user store and
// seeds accounts at startup.
type AuthService struct {
	users       persistence.UserRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewAuthService constructs an auth service with the provided dependencies.
func NewAuthService(users persistence.UserRepository, idGenerator func() string, now func() time.Time) *AuthService {
	return NewAuthServiceWithLogger(users, idGenerator, now, nil)
}

// NewAuthServiceWithLogger constructs an auth service with a specified logger.
func NewAuthServiceWithLogger(users persistence.UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AuthService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{users: users, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Authenticate verifies a username and password pair. Unknown usernames and
// wrong passwords both map to ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (Principal, error) {
	if s == nil {
		return Principal{}, fmt.Errorf("AuthService is nil")
	}

	logger := s.loggerWith(ctx, "Authenticate", "username", username)

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			logger.InfoContext(ctx, "authentication rejected", "error_kind", ErrorKind(ErrInvalidCredentials))
			return Principal{}, ErrInvalidCredentials
		}
		logger.ErrorContext(ctx, "failed to authenticate", "error", err, "error_kind", ErrorKind(err))
		return Principal{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.InfoContext(ctx, "authentication rejected", "error_kind", ErrorKind(ErrInvalidCredentials))
		return Principal{}, ErrInvalidCredentials
	}

	return Principal{
		Username: user.Username,
		IsAdmin:  user.Role == persistence.RoleAdmin,
	}, nil
}

// EnsureUser creates an account when the username is not taken yet. An
// existing account is returned unchanged, so seeding at startup is
// idempotent.
func (s *AuthService) EnsureUser(ctx context.Context, username, password, role string) (persistence.User, error) {
	if s == nil {
		return persistence.User{}, fmt.Errorf("AuthService is nil")
	}

	logger := s.loggerWith(ctx, "EnsureUser", "username", username)

	existing, err := s.users.GetUserByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		logger.ErrorContext(ctx, "failed to look up user", "error", err, "error_kind", ErrorKind(err))
		return persistence.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorContext(ctx, "failed to hash password", "error", err)
		return persistence.User{}, fmt.Errorf("hash password: %w", err)
	}

	createdAt := s.now()
	user := persistence.User{
		ID:           s.idGenerator(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			return s.users.GetUserByUsername(ctx, username)
		}
		logger.ErrorContext(ctx, "failed to create user", "error", err, "error_kind", ErrorKind(err))
		return persistence.User{}, err
	}

	logger.With("user_id", created.ID, "role", role).InfoContext(ctx, "user created")
	return created, nil
}
