package booking

// Booking carries the fields the conflict resolver needs from a stored or
// candidate booking.
type Booking struct {
	ID            string
	RoomName      string
	StartDate     Date
	EndDate       Date
	StartTime     TimeOfDay
	EndTime       TimeOfDay
	RepeatPattern *string
}

// Conflict identifies an existing booking whose effective occurrence set
// intersects the candidate's in the same room.
type Conflict struct {
	RoomName      string
	WithBookingID string
}

// FindConflict decides whether the candidate genuinely conflicts with any of
// the supplied bookings. Callers must pre-filter the bookings to those in the
// candidate's room whose date range and time range both intersect the
// candidate's; the resolver only applies repeat-pattern semantics on top of
// that shortlist. The first conflicting booking wins.
//
// "every day" on either side always conflicts, because the booking recurs on
// every date in its range. "every same day of the week" on either side
// conflicts only when both start dates fall on the same weekday. Two
// non-repeating bookings that reached this point already overlap on both
// axes, so they always conflict.
func FindConflict(existing []Booking, candidate Booking) *Conflict {
	weekday := candidate.StartDate.Weekday()

	for _, other := range existing {
		if patternIs(candidate.RepeatPattern, RepeatEveryDay) || patternIs(other.RepeatPattern, RepeatEveryDay) {
			return &Conflict{RoomName: candidate.RoomName, WithBookingID: other.ID}
		}
		if candidate.RepeatPattern != nil || other.RepeatPattern != nil {
			if weekday == other.StartDate.Weekday() {
				return &Conflict{RoomName: candidate.RoomName, WithBookingID: other.ID}
			}
			continue
		}
		return &Conflict{RoomName: candidate.RoomName, WithBookingID: other.ID}
	}

	return nil
}

// DatesOverlap reports whether the two bookings' date ranges intersect.
// Ranges are inclusive on both ends.
func DatesOverlap(a, b Booking) bool {
	return !a.EndDate.Before(b.StartDate) && !b.EndDate.Before(a.StartDate)
}

// TimesOverlap reports whether the two bookings' time ranges intersect.
// Ranges are half-open, so bookings that merely touch do not overlap.
func TimesOverlap(a, b Booking) bool {
	return a.EndTime.After(b.StartTime) && b.EndTime.After(a.StartTime)
}

// Overlaps reports whether the bookings intersect on both the date axis and
// the time axis, the precondition FindConflict expects of its shortlist.
func Overlaps(a, b Booking) bool {
	return DatesOverlap(a, b) && TimesOverlap(a, b)
}

func patternIs(pattern *string, value string) bool {
	return pattern != nil && *pattern == value
}
