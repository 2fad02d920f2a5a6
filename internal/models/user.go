package models

import "time"

// UserRole represents the available roles for the RBAC system. The
// names come straight from the school's organisational chart.
type UserRole string

const (
	RoleCoordinator  UserRole = "COORDINADOR"
	RoleAreaDirector UserRole = "DIRECTOR_DE_AREA"
	RoleTeacherUser  UserRole = "DOCENTE"
	RoleStudent      UserRole = "ESTUDIANTE"
)

// CanManageSchedules reports whether the role may mutate timetables and
// rosters. Students and teachers only read.
func (r UserRole) CanManageSchedules() bool {
	return r == RoleCoordinator || r == RoleAreaDirector
}

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"fullName"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}
