package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/bookme/internal/persistence"
)

// RoomService orchestrates validation, authorization, and persistence for
// the meeting room catalog. All mutations are restricted to administrators.
type RoomService struct {
	rooms       persistence.RoomRepository
	bookings    persistence.BookingRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(rooms persistence.RoomRepository, bookings persistence.BookingRepository, idGenerator func() string, now func() time.Time) *RoomService {
	return NewRoomServiceWithLogger(rooms, bookings, idGenerator, now, nil)
}

// NewRoomServiceWithLogger constructs a room service with a specified logger.
func NewRoomServiceWithLogger(rooms persistence.RoomRepository, bookings persistence.BookingRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{
		rooms:       rooms,
		bookings:    bookings,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom validates input and persists a new room for administrators.
func (s *RoomService) CreateRoom(ctx context.Context, params CreateRoomParams) (result Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoom",
		"principal", params.Principal.Username,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", result.ID).InfoContext(ctx, "room created")
	}()

	if err = AuthorizeRoomMutation(params.Principal); err != nil {
		return
	}

	if err = ValidateRoom(params.Input); err != nil {
		return
	}

	createdAt := s.now()
	room := persistence.Room{
		ID:        s.idGenerator(),
		Name:      *params.Input.Name,
		Location:  *params.Input.Location,
		Capacity:  *params.Input.Capacity,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	var persisted persistence.Room
	persisted, err = s.rooms.CreateRoom(ctx, room)
	if err != nil {
		err = mapRoomRepoError(err, room.Name)
		return
	}

	result = toRoom(persisted)
	return
}

// UpdateRoom validates input and rewrites an existing room for
// administrators. Shrinking the capacity below an existing booking's
// participant count is rejected.
func (s *RoomService) UpdateRoom(ctx context.Context, params UpdateRoomParams) (result Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRoom",
		"principal", params.Principal.Username,
		"room_id", params.RoomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room updated")
	}()

	if err = AuthorizeRoomMutation(params.Principal); err != nil {
		return
	}

	var existing persistence.Room
	existing, err = s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		err = mapRoomRepoError(err, "")
		return
	}

	if err = ValidateRoom(params.Input); err != nil {
		return
	}

	if *params.Input.Capacity < existing.Capacity {
		var roomBookings []persistence.Booking
		roomBookings, err = s.bookings.ListBookingsForRoom(ctx, existing.ID)
		if err != nil {
			return
		}
		for _, b := range roomBookings {
			if b.Participants > *params.Input.Capacity {
				err = invalidInputf("Room could not be updated because booking with title '%s' has more participants (%d) than new capacity (%d)",
					b.Title, b.Participants, *params.Input.Capacity)
				return
			}
		}
	}

	updated := existing
	updated.Name = *params.Input.Name
	updated.Location = *params.Input.Location
	updated.Capacity = *params.Input.Capacity
	updated.UpdatedAt = s.now()

	var persisted persistence.Room
	persisted, err = s.rooms.UpdateRoom(ctx, updated)
	if err != nil {
		err = mapRoomRepoError(err, updated.Name)
		return
	}

	result = toRoom(persisted)
	return
}

// GetRoom retrieves a room by id for any authenticated user.
func (s *RoomService) GetRoom(ctx context.Context, principal Principal, roomID string) (result Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "GetRoom",
		"principal", principal.Username,
		"room_id", roomID,
	)

	var stored persistence.Room
	stored, err = s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		err = mapRoomRepoError(err, "")
		logger.ErrorContext(ctx, "failed to get room", "error", err, "error_kind", ErrorKind(err))
		return
	}

	result = toRoom(stored)
	return
}

// ListRooms returns the catalog of rooms for any authenticated user.
func (s *RoomService) ListRooms(ctx context.Context, principal Principal) (results []Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ListRooms",
		"principal", principal.Username,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list rooms", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(results)).InfoContext(ctx, "rooms listed")
	}()

	var stored []persistence.Room
	stored, err = s.rooms.ListRooms(ctx)
	if err != nil {
		return
	}

	results = make([]Room, 0, len(stored))
	for _, room := range stored {
		results = append(results, toRoom(room))
	}
	return
}

// DeleteRoom removes a room for administrators. The room's bookings are
// removed with it. Deleting an absent room succeeds so the operation stays
// idempotent.
func (s *RoomService) DeleteRoom(ctx context.Context, principal Principal, roomID string) error {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteRoom",
		"principal", principal.Username,
		"room_id", roomID,
	)

	if err := AuthorizeRoomMutation(principal); err != nil {
		logger.ErrorContext(ctx, "failed to delete room", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.rooms.DeleteRoom(ctx, roomID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			logger.InfoContext(ctx, "room already absent")
			return nil
		}
		logger.ErrorContext(ctx, "failed to delete room", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "room deleted")
	return nil
}

func toRoom(room persistence.Room) Room {
	return Room{
		ID:        room.ID,
		Name:      room.Name,
		Location:  room.Location,
		Capacity:  room.Capacity,
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
}

func mapRoomRepoError(err error, roomName string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return &ConflictError{Message: fmt.Sprintf("Meeting room with name '%s' already exists", roomName)}
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		return invalidInputf("Capacity cannot be less than 0")
	}
	return err
}
