package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/bookme/internal/booking"
	"github.com/example/bookme/internal/persistence"
)

// BookingService orchestrates validation, authorization, conflict detection,
// and persistence for bookings.
type BookingService struct {
	bookings    persistence.BookingRepository
	rooms       persistence.RoomRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService constructs a booking service with the provided dependencies.
func NewBookingService(bookings persistence.BookingRepository, rooms persistence.RoomRepository, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(bookings, rooms, idGenerator, now, nil)
}

// NewBookingServiceWithLogger constructs a booking service with a specified logger.
func NewBookingServiceWithLogger(bookings persistence.BookingRepository, rooms persistence.RoomRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		rooms:       rooms,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// CreateBooking validates input, detects conflicts, and persists a new
// booking on behalf of the principal.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (result Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateBooking",
		"principal", params.Principal.Username,
		"room_name", params.Input.RoomName,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", result.ID).InfoContext(ctx, "booking created")
	}()

	var room persistence.Room
	room, err = ValidateBooking(ctx, params.Input, s.rooms)
	if err != nil {
		return
	}

	createdAt := s.now()
	candidate := persistence.Booking{
		ID:            s.idGenerator(),
		RoomID:        room.ID,
		Title:         *params.Input.Title,
		Description:   params.Input.Description,
		StartDate:     *params.Input.StartDate,
		EndDate:       *params.Input.EndDate,
		StartTime:     *params.Input.StartTime,
		EndTime:       *params.Input.EndTime,
		Participants:  *params.Input.Participants,
		RepeatPattern: params.Input.RepeatPattern,
		Creator:       params.Principal.Username,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	var persisted persistence.Booking
	persisted, err = s.bookings.CreateBooking(ctx, candidate, s.conflictGuard(candidate, room.Name))
	if err != nil {
		err = mapBookingRepoError(err)
		return
	}

	result = toBooking(persisted, room.Name)
	return
}

// UpdateBooking validates input and rewrites an existing booking. Only the
// booking's creator and administrators may update it. The conflict check
// runs only when the room or the schedule fields changed, so touching the
// title or description can never be rejected as a conflict.
func (s *BookingService) UpdateBooking(ctx context.Context, params UpdateBookingParams) (result Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateBooking",
		"principal", params.Principal.Username,
		"booking_id", params.BookingID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking updated")
	}()

	var existing persistence.Booking
	existing, err = s.bookings.GetBooking(ctx, params.BookingID)
	if err != nil {
		err = mapBookingRepoError(err)
		return
	}

	if err = AuthorizeBookingMutation(params.Principal, existing); err != nil {
		return
	}

	var room persistence.Room
	room, err = ValidateBooking(ctx, params.Input, s.rooms)
	if err != nil {
		return
	}

	updated := existing
	updated.RoomID = room.ID
	updated.Title = *params.Input.Title
	updated.Description = params.Input.Description
	updated.StartDate = *params.Input.StartDate
	updated.EndDate = *params.Input.EndDate
	updated.StartTime = *params.Input.StartTime
	updated.EndTime = *params.Input.EndTime
	updated.Participants = *params.Input.Participants
	updated.RepeatPattern = params.Input.RepeatPattern
	updated.UpdatedAt = s.now()

	var guard persistence.ConflictGuard
	if scheduleChanged(existing, updated) {
		guard = s.conflictGuard(updated, room.Name)
	}

	var persisted persistence.Booking
	persisted, err = s.bookings.UpdateBooking(ctx, updated, guard)
	if err != nil {
		err = mapBookingRepoError(err)
		return
	}

	result = toBooking(persisted, room.Name)
	return
}

// GetBooking retrieves a booking by id for any authenticated user.
func (s *BookingService) GetBooking(ctx context.Context, principal Principal, bookingID string) (result Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "GetBooking",
		"principal", principal.Username,
		"booking_id", bookingID,
	)

	var stored persistence.Booking
	stored, err = s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		err = mapBookingRepoError(err)
		logger.ErrorContext(ctx, "failed to get booking", "error", err, "error_kind", ErrorKind(err))
		return
	}

	var room persistence.Room
	room, err = s.rooms.GetRoom(ctx, stored.RoomID)
	if err != nil {
		err = mapBookingRepoError(err)
		logger.ErrorContext(ctx, "failed to resolve booking room", "error", err, "error_kind", ErrorKind(err))
		return
	}

	result = toBooking(stored, room.Name)
	return
}

// ListBookings returns all bookings with room names resolved.
func (s *BookingService) ListBookings(ctx context.Context, principal Principal) (results []Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ListBookings",
		"principal", principal.Username,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list bookings", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(results)).InfoContext(ctx, "bookings listed")
	}()

	var stored []persistence.Booking
	stored, err = s.bookings.ListBookings(ctx)
	if err != nil {
		return
	}

	var rooms []persistence.Room
	rooms, err = s.rooms.ListRooms(ctx)
	if err != nil {
		return
	}
	namesByID := make(map[string]string, len(rooms))
	for _, room := range rooms {
		namesByID[room.ID] = room.Name
	}

	results = make([]Booking, 0, len(stored))
	for _, b := range stored {
		results = append(results, toBooking(b, namesByID[b.RoomID]))
	}
	return
}

// DeleteBooking removes a booking. Deleting an absent booking succeeds so
// the operation stays idempotent. Only the creator and administrators may
// delete an existing booking.
func (s *BookingService) DeleteBooking(ctx context.Context, principal Principal, bookingID string) error {
	if s == nil {
		return fmt.Errorf("BookingService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteBooking",
		"principal", principal.Username,
		"booking_id", bookingID,
	)

	existing, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			logger.InfoContext(ctx, "booking already absent")
			return nil
		}
		logger.ErrorContext(ctx, "failed to delete booking", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := AuthorizeBookingMutation(principal, existing); err != nil {
		logger.ErrorContext(ctx, "failed to delete booking", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.bookings.DeleteBooking(ctx, bookingID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil
		}
		logger.ErrorContext(ctx, "failed to delete booking", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "booking deleted")
	return nil
}

// conflictGuard adapts the domain conflict resolver into a guard the
// repository evaluates inside its write transaction.
func (s *BookingService) conflictGuard(candidate persistence.Booking, roomName string) persistence.ConflictGuard {
	domainCandidate := toDomainBooking(candidate, roomName)
	return func(overlapping []persistence.Booking) error {
		existing := make([]booking.Booking, 0, len(overlapping))
		for _, b := range overlapping {
			existing = append(existing, toDomainBooking(b, roomName))
		}
		if conflict := booking.FindConflict(existing, domainCandidate); conflict != nil {
			return &ConflictError{Message: fmt.Sprintf("Meeting room with name %s is already booked for the same time", conflict.RoomName)}
		}
		return nil
	}
}

func scheduleChanged(existing, updated persistence.Booking) bool {
	if existing.RoomID != updated.RoomID {
		return true
	}
	if !existing.StartDate.Equal(updated.StartDate) || !existing.EndDate.Equal(updated.EndDate) {
		return true
	}
	if !existing.StartTime.Equal(updated.StartTime) || !existing.EndTime.Equal(updated.EndTime) {
		return true
	}
	return false
}

func toDomainBooking(b persistence.Booking, roomName string) booking.Booking {
	return booking.Booking{
		ID:            b.ID,
		RoomName:      roomName,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		RepeatPattern: b.RepeatPattern,
	}
}

func toBooking(b persistence.Booking, roomName string) Booking {
	return Booking{
		ID:            b.ID,
		RoomID:        b.RoomID,
		RoomName:      roomName,
		Title:         b.Title,
		Description:   b.Description,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Participants:  b.Participants,
		RepeatPattern: b.RepeatPattern,
		Creator:       b.Creator,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func mapBookingRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		return conflictErr
	}
	return err
}
