package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/bookme/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite.
type UserRepository struct {
	storage *Storage
}

// NewUserRepository creates a SQLite-backed user repository.
func NewUserRepository(storage *Storage) *UserRepository {
	return &UserRepository{storage: storage}
}

const userColumns = "id, username, password_hash, role, created_at, updated_at"

// CreateUser inserts a new user. A duplicate username surfaces as
// ErrDuplicate.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) (persistence.User, error) {
	if user.ID == "" {
		return persistence.User{}, persistence.ErrConstraintViolation
	}

	_, err := r.storage.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.CreatedAt.UTC().Format(time.RFC3339),
		user.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return persistence.User{}, mapError(err)
	}

	return user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (persistence.User, error) {
	row := r.storage.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)

	var user persistence.User
	var createdAt, updatedAt string

	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, mapError(err)
	}

	if user.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.User{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if user.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.User{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}

	return user, nil
}
