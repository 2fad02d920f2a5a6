package models

// TimetableGrid is the weekly view of one course's or one teacher's
// schedule, shaped the way the timetable screen renders it: one row per
// distinct start time plus the two institutional rows, one cell per
// school day.
type TimetableGrid struct {
	For  string         `json:"for"`
	Name string         `json:"name"`
	Rows []TimetableRow `json:"rows"`
}

// TimetableRow is one time band of the grid.
type TimetableRow struct {
	Start TimeOfDay       `json:"start"`
	End   TimeOfDay       `json:"end"`
	Label string          `json:"label"`
	Cells []TimetableCell `json:"cells"`
}

// TimetableCell is one (row, day) slot.
type TimetableCell struct {
	Day     Weekday `json:"day"`
	Text    string  `json:"text"`
	BlockID string  `json:"blockId,omitempty"`
}
