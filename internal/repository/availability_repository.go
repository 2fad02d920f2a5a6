package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/martinstiben/SGH-portal/internal/models"
)

const availabilityColumns = "id, teacher_id, day, am_start, am_end, pm_start, pm_end, created_at, updated_at"

// AvailabilityRepository provides persistence for teacher availability
// windows, one row per (teacher, day).
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// FindByTeacherDay loads the window for one teacher on one day. Returns
// (nil, nil) when no record exists: the caller treats that as no
// availability, not as a failure.
func (r *AvailabilityRepository) FindByTeacherDay(ctx context.Context, teacherID string, day models.Weekday) (*models.AvailabilityWindow, error) {
	query := fmt.Sprintf("SELECT %s FROM teacher_availability WHERE teacher_id = $1 AND day = $2", availabilityColumns)
	var window models.AvailabilityWindow
	if err := r.db.GetContext(ctx, &window, query, teacherID, day.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find availability by teacher/day: %w", err)
	}
	return &window, nil
}

// ListByTeacher returns all declared windows for a teacher in day order.
func (r *AvailabilityRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityWindow, error) {
	query := fmt.Sprintf(`SELECT %s FROM teacher_availability WHERE teacher_id = $1 ORDER BY CASE day WHEN 'Lunes' THEN 1 WHEN 'Martes' THEN 2 WHEN 'Miércoles' THEN 3 WHEN 'Jueves' THEN 4 ELSE 5 END`, availabilityColumns)
	var windows []models.AvailabilityWindow
	if err := r.db.SelectContext(ctx, &windows, query, teacherID); err != nil {
		return nil, fmt.Errorf("list availability by teacher: %w", err)
	}
	return windows, nil
}

// Upsert stores the window keyed by (teacher, day), last write wins.
func (r *AvailabilityRepository) Upsert(ctx context.Context, window *models.AvailabilityWindow) error {
	if window.ID == "" {
		window.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if window.CreatedAt.IsZero() {
		window.CreatedAt = now
	}
	window.UpdatedAt = now

	const query = `INSERT INTO teacher_availability (id, teacher_id, day, am_start, am_end, pm_start, pm_end, created_at, updated_at)
		VALUES (:id, :teacher_id, :day, :am_start, :am_end, :pm_start, :pm_end, :created_at, :updated_at)
		ON CONFLICT (teacher_id, day) DO UPDATE SET am_start = EXCLUDED.am_start, am_end = EXCLUDED.am_end, pm_start = EXCLUDED.pm_start, pm_end = EXCLUDED.pm_end, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, window); err != nil {
		return fmt.Errorf("upsert availability: %w", err)
	}
	return nil
}

// Delete removes the window for one teacher on one day.
func (r *AvailabilityRepository) Delete(ctx context.Context, teacherID string, day models.Weekday) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM teacher_availability WHERE teacher_id = $1 AND day = $2", teacherID, day.String())
	if err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
