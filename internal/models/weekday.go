package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Weekday is one of the five school days. The wire and database format
// is the Spanish day name, which is what the frontend sends and what the
// timetable columns are labelled with.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

var weekdayNames = [...]string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes"}

// Weekdays lists the school days in calendar order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}
}

// ParseWeekday resolves a Spanish day name. Matching ignores case and
// accents, so "miercoles" and "MIÉRCOLES" both resolve to Wednesday.
func ParseWeekday(s string) (Weekday, error) {
	key := normalizeDay(s)
	for i, name := range weekdayNames {
		if normalizeDay(name) == key {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("invalid day %q", s)
}

func normalizeDay(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u")
	return replacer.Replace(s)
}

// String returns the Spanish day name.
func (d Weekday) String() string {
	if d < Monday || d > Friday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Valid reports whether d is one of the five school days.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Friday
}

// MarshalJSON implements json.Marshaler.
func (d Weekday) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Weekday) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseWeekday(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Weekday) Value() (driver.Value, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Weekday) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Weekday", src)
	}

	parsed, err := ParseWeekday(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
