package application

import "github.com/example/bookme/internal/persistence"

// AuthorizeBookingMutation allows a booking mutation for the booking's
// creator and for administrators.
func AuthorizeBookingMutation(principal Principal, b persistence.Booking) error {
	if principal.IsAdmin {
		return nil
	}
	if principal.Username == b.Creator {
		return nil
	}
	return ErrUnauthorized
}

// AuthorizeRoomMutation allows room catalog mutations for administrators
// only.
func AuthorizeRoomMutation(principal Principal) error {
	if principal.IsAdmin {
		return nil
	}
	return ErrUnauthorized
}
