package persistence

import (
	"time"

	"github.com/example/bookme/internal/booking"
)

// Room represents a meeting room catalog entry.
type Room struct {
	ID        string
	Name      string
	Location  string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Booking represents a stored room booking. The room is referenced by id and
// the creator by username.
type Booking struct {
	ID            string
	RoomID        string
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

// User represents an account that can authenticate against the service.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Roles assignable to users. Every user holds the employee role; admins
// additionally hold RoleAdmin.
const (
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)
