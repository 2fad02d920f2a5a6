package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/martinstiben/SGH-portal/internal/models"
)

const teacherColumns = "id, name, email, subject_id, created_at, updated_at"

// TeacherRepository provides persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository creates a new teacher repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns teachers, optionally filtered by subject.
func (r *TeacherRepository) List(ctx context.Context, subjectID string) ([]models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers", teacherColumns)
	var args []interface{}
	if subjectID != "" {
		query += " WHERE subject_id = $1"
		args = append(args, subjectID)
	}
	query += " ORDER BY name ASC"

	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID loads a teacher by id.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE id = $1", teacherColumns)
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindByIDs loads several teachers at once for name resolution.
func (r *TeacherRepository) FindByIDs(ctx context.Context, ids []string) (map[string]models.Teacher, error) {
	result := make(map[string]models.Teacher, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM teachers WHERE id IN (?)", teacherColumns), ids)
	if err != nil {
		return nil, fmt.Errorf("build teachers in query: %w", err)
	}
	query = r.db.Rebind(query)

	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, fmt.Errorf("find teachers by ids: %w", err)
	}
	for _, t := range teachers {
		result[t.ID] = t
	}
	return result, nil
}

// Create stores a new teacher.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now

	const query = `INSERT INTO teachers (id, name, email, subject_id, created_at, updated_at) VALUES (:id, :name, :email, :subject_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update replaces a teacher's mutable fields.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()

	const query = `UPDATE teachers SET name = :name, email = :email, subject_id = :subject_id, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, teacher)
	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a teacher.
func (r *TeacherRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM teachers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
