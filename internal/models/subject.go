package models

import "time"

// Subject is a taught discipline. Each teacher is associated with one
// subject, which is how the scheduling screen filters teacher pickers.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// SubjectRequest is the payload for creating or renaming a subject.
type SubjectRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}
