package models

import "time"

// AvailabilityWindow is a teacher's declared availability on one school
// day. The morning and afternoon pairs are independently optional, but
// a pair is always complete: both ends present or both absent.
type AvailabilityWindow struct {
	ID        string     `db:"id" json:"id"`
	TeacherID string     `db:"teacher_id" json:"teacherId"`
	Day       Weekday    `db:"day" json:"day"`
	AMStart   *TimeOfDay `db:"am_start" json:"amStart,omitempty"`
	AMEnd     *TimeOfDay `db:"am_end" json:"amEnd,omitempty"`
	PMStart   *TimeOfDay `db:"pm_start" json:"pmStart,omitempty"`
	PMEnd     *TimeOfDay `db:"pm_end" json:"pmEnd,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

// HasAM reports whether the morning pair is declared.
func (w AvailabilityWindow) HasAM() bool {
	return w.AMStart != nil && w.AMEnd != nil
}

// HasPM reports whether the afternoon pair is declared.
func (w AvailabilityWindow) HasPM() bool {
	return w.PMStart != nil && w.PMEnd != nil
}

// Empty reports whether the window declares no availability at all. An
// empty window is treated the same as a missing record.
func (w AvailabilityWindow) Empty() bool {
	return !w.HasAM() && !w.HasPM()
}

// Contains reports whether [start, end) fits entirely inside the
// morning pair or entirely inside the afternoon pair. Straddling the
// midday gap does not count.
func (w AvailabilityWindow) Contains(start, end TimeOfDay) bool {
	if w.HasAM() && start.Minutes() >= w.AMStart.Minutes() && end.Minutes() <= w.AMEnd.Minutes() {
		return true
	}
	if w.HasPM() && start.Minutes() >= w.PMStart.Minutes() && end.Minutes() <= w.PMEnd.Minutes() {
		return true
	}
	return false
}

// AvailabilityRequest is the client payload for registering or updating
// a teacher's availability on a day.
type AvailabilityRequest struct {
	TeacherID string  `json:"teacherId" validate:"required"`
	Day       string  `json:"day" validate:"required"`
	AMStart   *string `json:"amStart,omitempty"`
	AMEnd     *string `json:"amEnd,omitempty"`
	PMStart   *string `json:"pmStart,omitempty"`
	PMEnd     *string `json:"pmEnd,omitempty"`
}
