package models

import "time"

// Teacher owns the second timetable a block appears on. The subject
// reference mirrors the staffing model: one subject per teacher.
type Teacher struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	SubjectID string    `db:"subject_id" json:"subjectId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// TeacherRequest is the payload for creating or updating a teacher.
type TeacherRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=120"`
	Email     string `json:"email" validate:"required,email"`
	SubjectID string `json:"subjectId" validate:"required"`
}
