package models

import "time"

// ScheduleBlock is one placed class: a course meets a teacher for a
// subject during a fixed one-hour slot on a school day. EndTime is
// always StartTime plus one hour and is computed server-side.
type ScheduleBlock struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"courseId"`
	TeacherID string    `db:"teacher_id" json:"teacherId"`
	SubjectID string    `db:"subject_id" json:"subjectId"`
	Day       Weekday   `db:"day" json:"day"`
	StartTime TimeOfDay `db:"start_time" json:"startTime"`
	EndTime   TimeOfDay `db:"end_time" json:"endTime"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Overlaps reports whether two blocks on the same day share any time,
// using the half-open interval test. Blocks on different days never
// overlap.
func (s ScheduleBlock) Overlaps(other ScheduleBlock) bool {
	if s.Day != other.Day {
		return false
	}
	return s.StartTime.Minutes() < other.EndTime.Minutes() &&
		other.StartTime.Minutes() < s.EndTime.Minutes()
}

// ScheduleBlockRequest is the client payload for creating or replacing
// a block. EndTime is absent on purpose.
type ScheduleBlockRequest struct {
	CourseID  string `json:"courseId" validate:"required"`
	TeacherID string `json:"teacherId" validate:"required"`
	SubjectID string `json:"subjectId" validate:"required"`
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
}

// ScheduleFilter narrows block listings.
type ScheduleFilter struct {
	CourseID  string
	TeacherID string
	Day       *Weekday
}

// PlacementConflictError reports why a candidate block was refused.
// Reason matches one of the placement error codes; Conflict carries the
// occupying block when the refusal came from an overlap.
type PlacementConflictError struct {
	Reason   string
	Message  string
	Conflict *ScheduleBlock
}

func (e *PlacementConflictError) Error() string {
	return e.Message
}
