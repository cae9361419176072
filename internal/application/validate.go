package application

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/example/bookme/internal/booking"
	"github.com/example/bookme/internal/persistence"
)

// RoomLookup resolves room names during booking validation.
type RoomLookup interface {
	GetRoomByName(ctx context.Context, name string) (persistence.Room, error)
}

const maxNameLength = 100

// ValidateBooking checks a booking input against the validation rules in
// order and returns the room the booking refers to. The first failing rule
// wins and its message is returned untouched.
func ValidateBooking(ctx context.Context, input BookingInput, rooms RoomLookup) (persistence.Room, error) {
	if input.RoomName == "" {
		return persistence.Room{}, invalidInputf("Booking meeting room is required")
	}

	room, err := rooms.GetRoomByName(ctx, input.RoomName)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Room{}, invalidInputf("Meeting room with name '%s' does not exist", input.RoomName)
		}
		return persistence.Room{}, err
	}

	if input.Title == nil {
		return persistence.Room{}, invalidInputf("Booking title is required")
	}
	if input.StartDate == nil {
		return persistence.Room{}, invalidInputf("Booking start date is required")
	}
	if input.EndDate == nil {
		return persistence.Room{}, invalidInputf("Booking end date is required")
	}
	if input.StartTime == nil {
		return persistence.Room{}, invalidInputf("Booking start time is required")
	}
	if input.EndTime == nil {
		return persistence.Room{}, invalidInputf("Booking end time is required")
	}
	if input.Participants == nil {
		return persistence.Room{}, invalidInputf("Booking participants is required")
	}

	if utf8.RuneCountInString(*input.Title) > maxNameLength {
		return persistence.Room{}, invalidInputf("Booking title cannot be more than 100 characters")
	}
	if input.StartDate.After(*input.EndDate) {
		return persistence.Room{}, invalidInputf("Booking start date must be before booking end date")
	}
	if !input.StartTime.Before(*input.EndTime) {
		return persistence.Room{}, invalidInputf("Booking start time must be before booking end time")
	}
	if *input.Participants < 0 {
		return persistence.Room{}, invalidInputf("Participants cannot be less than 0")
	}
	if *input.Participants > room.Capacity {
		return persistence.Room{}, invalidInputf("Number of participants in booking exceeds meeting room capacity")
	}
	if !booking.ValidRepeatPattern(input.RepeatPattern) {
		return persistence.Room{}, invalidInputf("Repeat option must either be null, 'every day', or 'every same day of the week'")
	}
	if input.RepeatPattern == nil && !input.StartDate.Equal(*input.EndDate) {
		return persistence.Room{}, invalidInputf("If booking does not repeat, start date should be same as end date")
	}

	return room, nil
}

// ValidateRoom checks a room input against the validation rules in order.
func ValidateRoom(input RoomInput) error {
	if input.Name == nil {
		return invalidInputf("Room name is required")
	}
	if input.Location == nil {
		return invalidInputf("Room location is required")
	}
	if input.Capacity == nil {
		return invalidInputf("Room capacity is required")
	}

	if utf8.RuneCountInString(*input.Name) > maxNameLength {
		return invalidInputf("Name cannot be more than 100 characters")
	}
	if *input.Location != LocationThessaloniki && *input.Location != LocationCologne {
		return invalidInputf("Location must be either 'Thessaloniki' or 'Cologne'")
	}
	if *input.Capacity < 0 {
		return invalidInputf("Capacity cannot be less than 0")
	}

	return nil
}
