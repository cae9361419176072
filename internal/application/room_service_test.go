package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/bookme/internal/persistence"
)

func newTestRoomService(rooms *stubRoomRepository, bookings *stubBookingRepository) *RoomService {
	return NewRoomService(rooms, bookings, sequenceIDs("room"), func() time.Time { return testClock })
}

func validRoomInput() RoomInput {
	return RoomInput{Name: strPtr("Room 3"), Location: strPtr("Cologne"), Capacity: intPtr(12)}
}

func TestCreateRoomRequiresAdmin(t *testing.T) {
	rooms := fixtureRoomRepo()
	service := newTestRoomService(rooms, &stubBookingRepository{})

	_, err := service.CreateRoom(context.Background(), CreateRoomParams{
		Principal: Principal{Username: "alice"},
		Input:     validRoomInput(),
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(rooms.created) != 0 {
		t.Error("expected no room to be created")
	}
}

func TestCreateRoomPersists(t *testing.T) {
	rooms := fixtureRoomRepo()
	service := newTestRoomService(rooms, &stubBookingRepository{})

	result, err := service.CreateRoom(context.Background(), CreateRoomParams{
		Principal: Principal{Username: "root", IsAdmin: true},
		Input:     validRoomInput(),
	})
	if err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}
	if result.ID != "room-1" {
		t.Errorf("expected generated id room-1, got %q", result.ID)
	}
	if result.Name != "Room 3" || result.Location != "Cologne" || result.Capacity != 12 {
		t.Errorf("unexpected room: %+v", result)
	}
}

func TestCreateRoomDuplicateName(t *testing.T) {
	rooms := fixtureRoomRepo()
	rooms.createErr = persistence.ErrDuplicate
	service := newTestRoomService(rooms, &stubBookingRepository{})

	input := validRoomInput()
	input.Name = strPtr("Room 1")

	_, err := service.CreateRoom(context.Background(), CreateRoomParams{
		Principal: Principal{Username: "root", IsAdmin: true},
		Input:     input,
	})

	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	want := "Meeting room with name 'Room 1' already exists"
	if conflictErr.Message != want {
		t.Errorf("expected message %q, got %q", want, conflictErr.Message)
	}
}

func TestUpdateRoomRejectsCapacityBelowBooking(t *testing.T) {
	rooms := fixtureRoomRepo()
	existing := fixtureBooking(t, "booking-1", "alice")
	existing.Title = "All hands"
	existing.Participants = 40
	bookings := &stubBookingRepository{stored: []persistence.Booking{existing}}
	service := newTestRoomService(rooms, bookings)

	input := RoomInput{Name: strPtr("Room 1"), Location: strPtr("Thessaloniki"), Capacity: intPtr(30)}

	_, err := service.UpdateRoom(context.Background(), UpdateRoomParams{
		Principal: Principal{Username: "root", IsAdmin: true},
		RoomID:    "room-1",
		Input:     input,
	})

	var invalidErr *InvalidInputError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	want := "Room could not be updated because booking with title 'All hands' has more participants (40) than new capacity (30)"
	if invalidErr.Message != want {
		t.Errorf("expected message %q, got %q", want, invalidErr.Message)
	}
	if len(rooms.updated) != 0 {
		t.Error("expected room to stay unchanged")
	}
}

func TestUpdateRoomAllowsCapacityAtBookingSize(t *testing.T) {
	rooms := fixtureRoomRepo()
	existing := fixtureBooking(t, "booking-1", "alice")
	existing.Participants = 30
	bookings := &stubBookingRepository{stored: []persistence.Booking{existing}}
	service := newTestRoomService(rooms, bookings)

	input := RoomInput{Name: strPtr("Room 1"), Location: strPtr("Thessaloniki"), Capacity: intPtr(30)}

	result, err := service.UpdateRoom(context.Background(), UpdateRoomParams{
		Principal: Principal{Username: "root", IsAdmin: true},
		RoomID:    "room-1",
		Input:     input,
	})
	if err != nil {
		t.Fatalf("UpdateRoom returned error: %v", err)
	}
	if result.Capacity != 30 {
		t.Errorf("expected capacity 30, got %d", result.Capacity)
	}
}

func TestUpdateRoomRequiresAdmin(t *testing.T) {
	service := newTestRoomService(fixtureRoomRepo(), &stubBookingRepository{})

	_, err := service.UpdateRoom(context.Background(), UpdateRoomParams{
		Principal: Principal{Username: "alice"},
		RoomID:    "room-1",
		Input:     validRoomInput(),
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUpdateRoomNotFound(t *testing.T) {
	service := newTestRoomService(fixtureRoomRepo(), &stubBookingRepository{})

	_, err := service.UpdateRoom(context.Background(), UpdateRoomParams{
		Principal: Principal{Username: "root", IsAdmin: true},
		RoomID:    "missing",
		Input:     validRoomInput(),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRoomRequiresAdmin(t *testing.T) {
	rooms := fixtureRoomRepo()
	service := newTestRoomService(rooms, &stubBookingRepository{})

	err := service.DeleteRoom(context.Background(), Principal{Username: "alice"}, "room-1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(rooms.deleted) != 0 {
		t.Error("expected room to survive unauthorized delete")
	}
}

func TestDeleteRoomIsIdempotent(t *testing.T) {
	rooms := fixtureRoomRepo()
	service := newTestRoomService(rooms, &stubBookingRepository{})

	if err := service.DeleteRoom(context.Background(), Principal{Username: "root", IsAdmin: true}, "missing"); err != nil {
		t.Fatalf("DeleteRoom returned error: %v", err)
	}

	if err := service.DeleteRoom(context.Background(), Principal{Username: "root", IsAdmin: true}, "room-1"); err != nil {
		t.Fatalf("DeleteRoom returned error: %v", err)
	}
	if len(rooms.deleted) != 1 {
		t.Fatalf("expected one delete, got %d", len(rooms.deleted))
	}
}

func TestListRoomsAllowsAnyUser(t *testing.T) {
	service := newTestRoomService(fixtureRoomRepo(), &stubBookingRepository{})

	results, err := service.ListRooms(context.Background(), Principal{Username: "alice"})
	if err != nil {
		t.Fatalf("ListRooms returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(results))
	}
}

func TestGetRoom(t *testing.T) {
	service := newTestRoomService(fixtureRoomRepo(), &stubBookingRepository{})

	result, err := service.GetRoom(context.Background(), Principal{Username: "alice"}, "room-1")
	if err != nil {
		t.Fatalf("GetRoom returned error: %v", err)
	}
	if result.Name != "Room 1" {
		t.Errorf("expected Room 1, got %q", result.Name)
	}

	if _, err := service.GetRoom(context.Background(), Principal{Username: "alice"}, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
