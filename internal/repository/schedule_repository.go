package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/martinstiben/SGH-portal/internal/models"
)

const scheduleColumns = "id, course_id, teacher_id, subject_id, day, start_time, end_time, created_at, updated_at"

// ScheduleRepository provides persistence for class blocks.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns blocks matching the filter ordered by day and start time.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleBlock, error) {
	base := "FROM schedule_blocks WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.Day != nil {
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)+1))
		args = append(args, filter.Day.String())
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY day ASC, start_time ASC", scheduleColumns, base)
	var blocks []models.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, query, args...); err != nil {
		return nil, fmt.Errorf("list schedule blocks: %w", err)
	}
	return blocks, nil
}

// FindByID loads a block by id. Returns sql.ErrNoRows when absent.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_blocks WHERE id = $1", scheduleColumns)
	var block models.ScheduleBlock
	if err := r.db.GetContext(ctx, &block, query, id); err != nil {
		return nil, err
	}
	return &block, nil
}

// ListByCourseDay returns the course's blocks on one day, the working
// set for course conflict checks.
func (r *ScheduleRepository) ListByCourseDay(ctx context.Context, courseID string, day models.Weekday) ([]models.ScheduleBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_blocks WHERE course_id = $1 AND day = $2 ORDER BY start_time ASC", scheduleColumns)
	var blocks []models.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, query, courseID, day.String()); err != nil {
		return nil, fmt.Errorf("list blocks by course/day: %w", err)
	}
	return blocks, nil
}

// ListByTeacherDay returns the teacher's blocks on one day.
func (r *ScheduleRepository) ListByTeacherDay(ctx context.Context, teacherID string, day models.Weekday) ([]models.ScheduleBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_blocks WHERE teacher_id = $1 AND day = $2 ORDER BY start_time ASC", scheduleColumns)
	var blocks []models.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, query, teacherID, day.String()); err != nil {
		return nil, fmt.Errorf("list blocks by teacher/day: %w", err)
	}
	return blocks, nil
}

// ListByCourse returns every block on the course timetable.
func (r *ScheduleRepository) ListByCourse(ctx context.Context, courseID string) ([]models.ScheduleBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_blocks WHERE course_id = $1 ORDER BY day ASC, start_time ASC", scheduleColumns)
	var blocks []models.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, query, courseID); err != nil {
		return nil, fmt.Errorf("list blocks by course: %w", err)
	}
	return blocks, nil
}

// ListByTeacher returns every block on the teacher timetable.
func (r *ScheduleRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.ScheduleBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_blocks WHERE teacher_id = $1 ORDER BY day ASC, start_time ASC", scheduleColumns)
	var blocks []models.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, query, teacherID); err != nil {
		return nil, fmt.Errorf("list blocks by teacher: %w", err)
	}
	return blocks, nil
}

// Create stores a new block, assigning an id when absent.
func (r *ScheduleRepository) Create(ctx context.Context, block *models.ScheduleBlock) error {
	if block.ID == "" {
		block.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if block.CreatedAt.IsZero() {
		block.CreatedAt = now
	}
	block.UpdatedAt = now

	const query = `INSERT INTO schedule_blocks (id, course_id, teacher_id, subject_id, day, start_time, end_time, created_at, updated_at) VALUES (:id, :course_id, :teacher_id, :subject_id, :day, :start_time, :end_time, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, block); err != nil {
		return fmt.Errorf("create schedule block: %w", err)
	}
	return nil
}

// Update replaces a block in full.
func (r *ScheduleRepository) Update(ctx context.Context, block *models.ScheduleBlock) error {
	block.UpdatedAt = time.Now().UTC()

	const query = `UPDATE schedule_blocks SET course_id = :course_id, teacher_id = :teacher_id, subject_id = :subject_id, day = :day, start_time = :start_time, end_time = :end_time, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, block)
	if err != nil {
		return fmt.Errorf("update schedule block: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a block. Both derived timetables forget it at once
// since they are views over the same table.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM schedule_blocks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete schedule block: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// BulkCreate inserts many blocks within one transaction, used by the
// generation worker.
func (r *ScheduleRepository) BulkCreate(ctx context.Context, blocks []models.ScheduleBlock) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create blocks: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	const query = `INSERT INTO schedule_blocks (id, course_id, teacher_id, subject_id, day, start_time, end_time, created_at, updated_at) VALUES (:id, :course_id, :teacher_id, :subject_id, :day, :start_time, :end_time, :created_at, :updated_at)`
	for i := range blocks {
		payload := blocks[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now
		if _, err = tx.NamedExecContext(ctx, query, payload); err != nil {
			return fmt.Errorf("bulk insert block: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create blocks: %w", err)
	}
	return nil
}
