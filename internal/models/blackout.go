package models

// Blackout is an institutional period in which no class may be placed.
// Blackouts apply on every school day to every course and teacher.
type Blackout struct {
	Name  string
	Start TimeOfDay
	End   TimeOfDay
}

// The two fixed blackouts of the school day.
var (
	BreakBlackout = Blackout{Name: "Descanso", Start: TimeOfDay{Hour: 9}, End: TimeOfDay{Hour: 9, Minute: 30}}
	LunchBlackout = Blackout{Name: "Almuerzo", Start: TimeOfDay{Hour: 12}, End: TimeOfDay{Hour: 13}}
)

// Blackouts returns the institutional blackout calendar in day order.
func Blackouts() []Blackout {
	return []Blackout{BreakBlackout, LunchBlackout}
}

// Overlaps reports whether the half-open interval [start, end) crosses
// the blackout. Touching the boundary is not an overlap, so a class
// ending exactly at 09:00 is fine.
func (b Blackout) Overlaps(start, end TimeOfDay) bool {
	return start.Minutes() < b.End.Minutes() && b.Start.Minutes() < end.Minutes()
}

// InBlackout reports whether [start, end) overlaps any blackout and
// returns the first one hit.
func InBlackout(start, end TimeOfDay) (Blackout, bool) {
	for _, b := range Blackouts() {
		if b.Overlaps(start, end) {
			return b, true
		}
	}
	return Blackout{}, false
}
