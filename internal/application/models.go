package application

import (
	"time"

	"github.com/example/bookme/internal/booking"
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	Username string
	IsAdmin  bool
}

// Accepted room locations.
const (
	LocationThessaloniki = "Thessaloniki"
	LocationCologne      = "Cologne"
)

// BookingInput captures caller provided booking fields. Pointer fields are
// nil when the caller omitted them, which validation reports per field.
type BookingInput struct {
	RoomName      string
	Title         *string
	Description   *string
	StartDate     *booking.Date
	EndDate       *booking.Date
	StartTime     *booking.TimeOfDay
	EndTime       *booking.TimeOfDay
	Participants  *int
	RepeatPattern *string
}

// Booking represents a persisted booking with its room name resolved.
type Booking struct {
	ID            string
	RoomID        string
	RoomName      string
	Title         string
	Description   *string
	StartDate     booking.Date
	EndDate       booking.Date
	StartTime     booking.TimeOfDay
	EndTime       booking.TimeOfDay
	Participants  int
	RepeatPattern *string
	Creator       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateBookingParams wraps the data required to create a booking.
type CreateBookingParams struct {
	Principal Principal
	Input     BookingInput
}

// UpdateBookingParams wraps the data required to update an existing booking.
type UpdateBookingParams struct {
	Principal Principal
	BookingID string
	Input     BookingInput
}

// RoomInput captures caller provided room fields. Pointer fields are nil
// when the caller omitted them.
type RoomInput struct {
	Name     *string
	Location *string
	Capacity *int
}

// Room represents a meeting room catalog entry.
type Room struct {
	ID        string
	Name      string
	Location  string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Principal Principal
	Input     RoomInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	Principal Principal
	RoomID    string
	Input     RoomInput
}
