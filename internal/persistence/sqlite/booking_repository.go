package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/bookme/internal/booking"
	"github.com/example/bookme/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
//
// The overlap query and the guarded write run inside one transaction, and the
// storage layer holds a single connection, so a conflict check can never be
// invalidated by a concurrent insert between check and write.
type BookingRepository struct {
	storage *Storage
}

// NewBookingRepository creates a SQLite-backed booking repository.
func NewBookingRepository(storage *Storage) *BookingRepository {
	return &BookingRepository{storage: storage}
}

const bookingColumns = "id, room_id, title, description, start_date, end_date, start_time, end_time, participants, repeat_pattern, creator, created_at, updated_at"

// Overlap shortlist per the booking store contract: same room, intersecting
// time ranges (half-open), intersecting date ranges (inclusive).
const overlapQuery = `SELECT ` + bookingColumns + ` FROM bookings
	WHERE room_id = ?
	AND ? > start_time AND ? < end_time
	AND ? >= start_date AND ? <= end_date
	AND id <> ?
	ORDER BY created_at ASC, id ASC`

// CreateBooking inserts a booking after running the guard over the room's
// overlapping bookings. The guard error aborts the insert untouched.
func (r *BookingRepository) CreateBooking(ctx context.Context, b persistence.Booking, guard persistence.ConflictGuard) (persistence.Booking, error) {
	if b.ID == "" {
		return persistence.Booking{}, persistence.ErrConstraintViolation
	}

	err := r.storage.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := runGuard(tx, b, guard); err != nil {
			return err
		}

		_, err := tx.Exec(
			"INSERT INTO bookings ("+bookingColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			b.ID,
			b.RoomID,
			b.Title,
			nullableString(b.Description),
			b.StartDate.String(),
			b.EndDate.String(),
			b.StartTime.String(),
			b.EndTime.String(),
			b.Participants,
			nullableString(b.RepeatPattern),
			b.Creator,
			b.CreatedAt.UTC().Format(time.RFC3339),
			b.UpdatedAt.UTC().Format(time.RFC3339),
		)
		return mapError(err)
	})
	if err != nil {
		return persistence.Booking{}, err
	}

	return b, nil
}

// UpdateBooking rewrites a booking after running the guard. The stored row is
// excluded from the guard's shortlist by id, so an update never conflicts
// with itself.
func (r *BookingRepository) UpdateBooking(ctx context.Context, b persistence.Booking, guard persistence.ConflictGuard) (persistence.Booking, error) {
	err := r.storage.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := runGuard(tx, b, guard); err != nil {
			return err
		}

		result, err := tx.Exec(
			`UPDATE bookings SET room_id = ?, title = ?, description = ?, start_date = ?, end_date = ?,
				start_time = ?, end_time = ?, participants = ?, repeat_pattern = ?, updated_at = ?
				WHERE id = ?`,
			b.RoomID,
			b.Title,
			nullableString(b.Description),
			b.StartDate.String(),
			b.EndDate.String(),
			b.StartTime.String(),
			b.EndTime.String(),
			b.Participants,
			nullableString(b.RepeatPattern),
			b.UpdatedAt.UTC().Format(time.RFC3339),
			b.ID,
		)
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
	})
	if err != nil {
		return persistence.Booking{}, err
	}

	return b, nil
}

// GetBooking retrieves a booking by id.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	row := r.storage.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)
	return scanBooking(row)
}

// ListBookings returns all bookings ordered by creation time then id.
func (r *BookingRepository) ListBookings(ctx context.Context) ([]persistence.Booking, error) {
	rows, err := r.storage.db.QueryContext(ctx, "SELECT "+bookingColumns+" FROM bookings ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListBookingsForRoom returns the bookings tied to a room.
func (r *BookingRepository) ListBookingsForRoom(ctx context.Context, roomID string) ([]persistence.Booking, error) {
	rows, err := r.storage.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE room_id = ? ORDER BY created_at ASC, id ASC", roomID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// DeleteBooking removes a booking by id. Deleting an absent booking returns
// ErrNotFound so the caller decides how to treat it.
func (r *BookingRepository) DeleteBooking(ctx context.Context, id string) error {
	result, err := r.storage.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
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

func runGuard(tx *sql.Tx, b persistence.Booking, guard persistence.ConflictGuard) error {
	if guard == nil {
		return nil
	}

	rows, err := tx.Query(overlapQuery,
		b.RoomID,
		b.EndTime.String(),
		b.StartTime.String(),
		b.EndDate.String(),
		b.StartDate.String(),
		b.ID,
	)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	overlapping, err := collectBookings(rows)
	if err != nil {
		return err
	}

	return guard(overlapping)
}

func collectBookings(rows *sql.Rows) ([]persistence.Booking, error) {
	var bookings []persistence.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return bookings, nil
}

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var b persistence.Booking
	var description, repeatPattern sql.NullString
	var startDate, endDate, startTime, endTime, createdAt, updatedAt string

	err := row.Scan(
		&b.ID,
		&b.RoomID,
		&b.Title,
		&description,
		&startDate,
		&endDate,
		&startTime,
		&endTime,
		&b.Participants,
		&repeatPattern,
		&b.Creator,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Booking{}, persistence.ErrNotFound
		}
		return persistence.Booking{}, mapError(err)
	}

	if description.Valid {
		b.Description = &description.String
	}
	if repeatPattern.Valid {
		b.RepeatPattern = &repeatPattern.String
	}

	if b.StartDate, err = booking.ParseDate(startDate); err != nil {
		return persistence.Booking{}, fmt.Errorf("sqlite: parse start_date: %w", err)
	}
	if b.EndDate, err = booking.ParseDate(endDate); err != nil {
		return persistence.Booking{}, fmt.Errorf("sqlite: parse end_date: %w", err)
	}
	if b.StartTime, err = booking.ParseTimeOfDay(startTime); err != nil {
		return persistence.Booking{}, fmt.Errorf("sqlite: parse start_time: %w", err)
	}
	if b.EndTime, err = booking.ParseTimeOfDay(endTime); err != nil {
		return persistence.Booking{}, fmt.Errorf("sqlite: parse end_time: %w", err)
	}
	if b.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if b.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}

	return b, nil
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
