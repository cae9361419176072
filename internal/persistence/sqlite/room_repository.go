package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/bookme/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	storage *Storage
}

// NewRoomRepository creates a SQLite-backed room repository.
func NewRoomRepository(storage *Storage) *RoomRepository {
	return &RoomRepository{storage: storage}
}

const roomColumns = "id, name, location, capacity, created_at, updated_at"

// CreateRoom inserts a new room. A duplicate name surfaces as ErrDuplicate.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) (persistence.Room, error) {
	if room.ID == "" {
		return persistence.Room{}, persistence.ErrConstraintViolation
	}

	_, err := r.storage.db.ExecContext(ctx,
		"INSERT INTO rooms ("+roomColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		room.ID,
		room.Name,
		room.Location,
		room.Capacity,
		room.CreatedAt.UTC().Format(time.RFC3339),
		room.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return persistence.Room{}, mapError(err)
	}

	return room, nil
}

// UpdateRoom updates an existing room in place.
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) (persistence.Room, error) {
	result, err := r.storage.db.ExecContext(ctx,
		"UPDATE rooms SET name = ?, location = ?, capacity = ?, updated_at = ? WHERE id = ?",
		room.Name,
		room.Location,
		room.Capacity,
		room.UpdatedAt.UTC().Format(time.RFC3339),
		room.ID,
	)
	if err != nil {
		return persistence.Room{}, mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.Room{}, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.Room{}, persistence.ErrNotFound
	}

	return room, nil
}

// GetRoom retrieves a room by id.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	row := r.storage.db.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id = ?", id)
	return scanRoom(row)
}

// GetRoomByName retrieves a room by its unique name.
func (r *RoomRepository) GetRoomByName(ctx context.Context, name string) (persistence.Room, error) {
	row := r.storage.db.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE name = ?", name)
	return scanRoom(row)
}

// ListRooms returns all rooms ordered by name then id.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.storage.db.QueryContext(ctx, "SELECT "+roomColumns+" FROM rooms ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return rooms, nil
}

// DeleteRoom removes a room and, through the schema's ON DELETE CASCADE,
// every booking tied to it. Deleting an absent room returns ErrNotFound so
// the caller decides how to treat it.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	result, err := r.storage.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var room persistence.Room
	var createdAt, updatedAt string

	err := row.Scan(&room.ID, &room.Name, &room.Location, &room.Capacity, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Room{}, persistence.ErrNotFound
		}
		return persistence.Room{}, mapError(err)
	}

	if room.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Room{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if room.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Room{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}

	return room, nil
}
