package booking

import (
	"fmt"
	"time"
)

// Repeat pattern values accepted on a booking. A nil pattern means the
// booking occupies a single day and does not recur.
const (
	RepeatEveryDay      = "every day"
	RepeatSameDayOfWeek = "every same day of the week"
)

// ValidRepeatPattern reports whether the supplied pattern is one of the
// accepted values. A nil pattern is valid.
func ValidRepeatPattern(pattern *string) bool {
	if pattern == nil {
		return true
	}
	return *pattern == RepeatEveryDay || *pattern == RepeatSameDayOfWeek
}

// Date is a calendar day without time-of-day or zone information.
type Date struct {
	t time.Time
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return Date{}, fmt.Errorf("booking: invalid date %q: %w", value, err)
	}
	return Date{t: t}, nil
}

// NewDate constructs a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// After reports whether d falls after other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// Equal reports whether d and other are the same calendar day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// Weekday returns the day of the week d falls on.
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool { return d.t.IsZero() }

// String formats the date as YYYY-MM-DD.
func (d Date) String() string { return d.t.Format("2006-01-02") }

// TimeOfDay is a clock time within a day with second precision.
type TimeOfDay struct {
	seconds int
}

// ParseTimeOfDay parses a clock time in HH:MM:SS or HH:MM form.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	var h, m, s int
	if n, err := fmt.Sscanf(value, "%d:%d:%d", &h, &m, &s); err != nil || n != 3 {
		s = 0
		if n, err := fmt.Sscanf(value, "%d:%d", &h, &m); err != nil || n != 2 {
			return TimeOfDay{}, fmt.Errorf("booking: invalid time %q", value)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return TimeOfDay{}, fmt.Errorf("booking: invalid time %q", value)
	}
	return TimeOfDay{seconds: h*3600 + m*60 + s}, nil
}

// NewTimeOfDay constructs a TimeOfDay from hour, minute, and second.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay{seconds: hour*3600 + minute*60 + second}
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool { return t.seconds < other.seconds }

// After reports whether t is strictly later than other.
func (t TimeOfDay) After(other TimeOfDay) bool { return t.seconds > other.seconds }

// Equal reports whether t and other are the same instant within the day.
func (t TimeOfDay) Equal(other TimeOfDay) bool { return t.seconds == other.seconds }

// String formats the time as HH:MM:SS.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.seconds/3600, t.seconds/60%60, t.seconds%60)
}
