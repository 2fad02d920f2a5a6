package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a wall-clock time with minute precision. The wire and
// database format is "HH:MM" in 24-hour notation.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// NewTimeOfDay validates the hour/minute pair.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("hour out of range: %d", hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("minute out of range: %d", minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseTimeOfDay parses "HH:MM" (also accepting "H:MM"). The whole
// string must be the time; trailing text is rejected.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || !allDigits(hh) || !allDigits(mm) || len(hh) > 2 || len(mm) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q", s)
	}
	hour, _ := strconv.Atoi(hh)
	minute, _ := strconv.Atoi(mm)
	return NewTimeOfDay(hour, minute)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Minutes returns minutes since midnight. All interval comparisons run
// over this value.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// AddHour returns the time one hour later. Crossing midnight is an
// error: class blocks never span days.
func (t TimeOfDay) AddHour() (TimeOfDay, error) {
	if t.Hour+1 >= 24 {
		return TimeOfDay{}, fmt.Errorf("time %s plus one hour crosses midnight", t.String())
	}
	return TimeOfDay{Hour: t.Hour + 1, Minute: t.Minute}, nil
}

// AddMinutes returns the time n minutes later. Same midnight rule as
// AddHour.
func (t TimeOfDay) AddMinutes(n int) (TimeOfDay, error) {
	total := t.Minutes() + n
	if total >= 24*60 || total < 0 {
		return TimeOfDay{}, fmt.Errorf("time %s plus %d minutes out of range", t.String(), n)
	}
	return TimeOfDay{Hour: total / 60, Minute: total % 60}, nil
}

// String renders the canonical "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Format12h renders "H:MM AM/PM" with no leading zero on the hour, the
// way the timetable rows are labelled.
func (t TimeOfDay) Format12h() string {
	period := "AM"
	if t.Hour >= 12 {
		period = "PM"
	}
	hour12 := t.Hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour12, t.Minute, period)
}

// MarshalJSON implements json.Marshaler.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner. Accepts "HH:MM" and "HH:MM:SS" (the
// latter is what Postgres TIME columns hand back).
func (t *TimeOfDay) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}

	// Postgres TIME values arrive with seconds; the seconds tolerance
	// stays here, never on the JSON boundary.
	if parts := strings.SplitN(raw, ":", 3); len(parts) == 3 && len(parts[2]) == 2 && allDigits(parts[2]) {
		raw = parts[0] + ":" + parts[1]
	}

	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
