package models

import "time"

// Course is a student group ("Sexto A", "Séptimo B") that owns one of
// the two timetables a block appears on.
type Course struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// CourseRequest is the payload for creating or renaming a course.
type CourseRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}
