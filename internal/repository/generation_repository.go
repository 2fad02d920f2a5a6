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

const generationColumns = "id, executed_by, status, total_generated, message, period_start, period_end, dry_run, force, executed_at, finished_at"

// GenerationRepository persists bulk generation run history.
type GenerationRepository struct {
	db *sqlx.DB
}

// NewGenerationRepository creates a new generation repository.
func NewGenerationRepository(db *sqlx.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Create records a new run, normally in PENDING state.
func (r *GenerationRepository) Create(ctx context.Context, run *models.GenerationRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.ExecutedAt.IsZero() {
		run.ExecutedAt = time.Now().UTC()
	}
	if run.Status == "" {
		run.Status = models.GenerationPending
	}

	const query = `INSERT INTO generation_runs (id, executed_by, status, total_generated, message, period_start, period_end, dry_run, force, executed_at) VALUES (:id, :executed_by, :status, :total_generated, :message, :period_start, :period_end, :dry_run, :force, :executed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("create generation run: %w", err)
	}
	return nil
}

// UpdateStatus transitions a run and stores the outcome.
func (r *GenerationRepository) UpdateStatus(ctx context.Context, id string, status models.GenerationStatus, totalGenerated int, message string) error {
	var finished interface{}
	if status == models.GenerationSuccess || status == models.GenerationFailed {
		finished = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE generation_runs SET status = $1, total_generated = $2, message = $3, finished_at = $4 WHERE id = $5",
		status, totalGenerated, message, finished, id)
	if err != nil {
		return fmt.Errorf("update generation run: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// History lists runs, newest first.
func (r *GenerationRepository) History(ctx context.Context, limit int) ([]models.GenerationRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf("SELECT %s FROM generation_runs ORDER BY executed_at DESC LIMIT %d", generationColumns, limit)
	var runs []models.GenerationRun
	if err := r.db.SelectContext(ctx, &runs, query); err != nil {
		return nil, fmt.Errorf("list generation runs: %w", err)
	}
	return runs, nil
}
