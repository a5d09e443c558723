package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time measured from midnight.
type TimeOfDay time.Duration

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// TimeOfDayOf extracts the UTC time of day from t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	t = t.UTC()
	return TimeOfDay(t.Sub(DateOf(t)))
}

// ParseTimeOfDay accepts "15:04" or "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay(t.Sub(DateOf(t))), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

const fullDay = 24 * time.Hour

// Normalize wraps t into [00:00, 24:00), e.g. an arrival after midnight.
func (t TimeOfDay) Normalize() TimeOfDay {
	d := time.Duration(t) % fullDay
	if d < 0 {
		d += fullDay
	}
	return TimeOfDay(d)
}

func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t)
}

func (t TimeOfDay) String() string {
	d := time.Duration(t)
	return fmt.Sprintf("%02d:%02d", int(d.Hours())%24, int(d.Minutes())%60)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// DateOf truncates t to midnight UTC of its calendar date in UTC.
// Use it for instants such as the clock.
func DateOf(t time.Time) time.Time {
	return CalendarDate(t.UTC())
}

// CalendarDate keeps the year, month and day as written in t's own zone.
// Journey dates are calendar dates, not instants.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
