package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/bookme/internal/booking"
	"github.com/example/bookme/internal/persistence"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	storage, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })

	if err := storage.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate storage: %v", err)
	}
	return storage
}

var fixtureTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testDate(t *testing.T, value string) booking.Date {
	t.Helper()
	d, err := booking.ParseDate(value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return d
}

func testTime(t *testing.T, value string) booking.TimeOfDay {
	t.Helper()
	tod, err := booking.ParseTimeOfDay(value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return tod
}

func testRoom(id, name string) persistence.Room {
	return persistence.Room{
		ID:        id,
		Name:      name,
		Location:  "Thessaloniki",
		Capacity:  50,
		CreatedAt: fixtureTime,
		UpdatedAt: fixtureTime,
	}
}

func testBooking(t *testing.T, id, roomID string) persistence.Booking {
	t.Helper()
	return persistence.Booking{
		ID:           id,
		RoomID:       roomID,
		Title:        "Standup",
		StartDate:    testDate(t, "2003-03-01"),
		EndDate:      testDate(t, "2003-03-01"),
		StartTime:    testTime(t, "09:00:00"),
		EndTime:      testTime(t, "10:00:00"),
		Participants: 10,
		Creator:      "alice",
		CreatedAt:    fixtureTime,
		UpdatedAt:    fixtureTime,
	}
}

func mustCreateRoom(t *testing.T, storage *Storage, room persistence.Room) {
	t.Helper()
	if _, err := NewRoomRepository(storage).CreateRoom(context.Background(), room); err != nil {
		t.Fatalf("create room: %v", err)
	}
}

func mustCreateBooking(t *testing.T, storage *Storage, b persistence.Booking) {
	t.Helper()
	if _, err := NewBookingRepository(storage).CreateBooking(context.Background(), b, nil); err != nil {
		t.Fatalf("create booking: %v", err)
	}
}
