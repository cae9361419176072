package testfixtures

import (
	"testing"
	"time"

	"github.com/example/bookme/internal/booking"
	"github.com/example/bookme/internal/persistence"
)

// ReferenceTime is the instant fixtures and deterministic clocks start from.
func ReferenceTime() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

// Date parses an ISO date or fails the test.
func Date(tb testing.TB, value string) booking.Date {
	tb.Helper()
	d, err := booking.ParseDate(value)
	if err != nil {
		tb.Fatalf("parse date %q: %v", value, err)
	}
	return d
}

// TimeOfDay parses a wall clock value or fails the test.
func TimeOfDay(tb testing.TB, value string) booking.TimeOfDay {
	tb.Helper()
	tod, err := booking.ParseTimeOfDay(value)
	if err != nil {
		tb.Fatalf("parse time %q: %v", value, err)
	}
	return tod
}

// Room returns a meeting room catalog entry with sensible defaults.
func Room(id, name string) persistence.Room {
	return persistence.Room{
		ID:        id,
		Name:      name,
		Location:  "Thessaloniki",
		Capacity:  50,
		CreatedAt: ReferenceTime(),
		UpdatedAt: ReferenceTime(),
	}
}

// Booking returns a single day booking in the given room.
func Booking(tb testing.TB, id, roomID, creator string) persistence.Booking {
	tb.Helper()
	return persistence.Booking{
		ID:           id,
		RoomID:       roomID,
		Title:        "Standup",
		StartDate:    Date(tb, "2003-03-01"),
		EndDate:      Date(tb, "2003-03-01"),
		StartTime:    TimeOfDay(tb, "09:00:00"),
		EndTime:      TimeOfDay(tb, "10:00:00"),
		Participants: 10,
		Creator:      creator,
		CreatedAt:    ReferenceTime(),
		UpdatedAt:    ReferenceTime(),
	}
}
