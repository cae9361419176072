package persistence

import "context"

// RoomRepository exposes CRUD operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	UpdateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	GetRoomByName(ctx context.Context, name string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// ConflictGuard inspects the bookings in the candidate's room whose date
// range and time range both intersect the candidate's. Returning an error
// aborts the write; the repository evaluates the guard and the write inside
// one transaction so concurrent candidates cannot both pass.
type ConflictGuard func(overlapping []Booking) error

// BookingRepository stores bookings and owns the overlap query that feeds
// conflict detection. A nil guard skips the overlap query entirely.
type BookingRepository interface {
	CreateBooking(ctx context.Context, b Booking, guard ConflictGuard) (Booking, error)
	UpdateBooking(ctx context.Context, b Booking, guard ConflictGuard) (Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context) ([]Booking, error)
	ListBookingsForRoom(ctx context.Context, roomID string) ([]Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

// UserRepository stores the accounts used for HTTP Basic authentication.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
}
