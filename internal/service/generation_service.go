package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/martinstiben/SGH-portal/internal/models"
	appErrors "github.com/martinstiben/SGH-portal/pkg/errors"
	"github.com/martinstiben/SGH-portal/pkg/jobs"
)

// Generator is the delegated bulk timetable producer. The service never
// solves timetables itself; an external collaborator does, and this
// interface is its seam.
type Generator interface {
	Generate(ctx context.Context, run models.GenerationRun) (int, error)
}

type generationRepository interface {
	Create(ctx context.Context, run *models.GenerationRun) error
	UpdateStatus(ctx context.Context, id string, status models.GenerationStatus, totalGenerated int, message string) error
	History(ctx context.Context, limit int) ([]models.GenerationRun, error)
}

type runQueue interface {
	Enqueue(job jobs.Job) error
}

// GenerationService records generation runs and executes them on the
// background queue.
type GenerationService struct {
	repo      generationRepository
	generator Generator
	queue     runQueue
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewGenerationService instantiates GenerationService.
func NewGenerationService(repo generationRepository, generator Generator, queue runQueue, metrics *MetricsService, logger *zap.Logger) *GenerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationService{repo: repo, generator: generator, queue: queue, metrics: metrics, logger: logger}
}

// AttachQueue wires the run queue after construction. The queue needs
// HandleJob at build time, so the two are connected in this order.
func (s *GenerationService) AttachQueue(queue runQueue) {
	s.queue = queue
}

// Trigger records a PENDING run and enqueues it. executedBy is the
// authenticated caller, passed down explicitly.
func (s *GenerationService) Trigger(ctx context.Context, executedBy string, req models.GenerationRequest) (*models.GenerationRun, error) {
	if s.generator == nil || s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "schedule generation is not enabled")
	}
	if req.PeriodStart != nil && req.PeriodEnd != nil && req.PeriodEnd.Before(*req.PeriodStart) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "period end precedes period start")
	}

	run := &models.GenerationRun{
		ExecutedBy:  executedBy,
		Status:      models.GenerationPending,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		DryRun:      req.DryRun,
		Force:       req.Force,
	}
	if err := s.repo.Create(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record generation run")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: run.ID, Type: "schedule_generation", Payload: *run}); err != nil {
		_ = s.repo.UpdateStatus(ctx, run.ID, models.GenerationFailed, 0, "could not enqueue run")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue generation run")
	}

	if s.metrics != nil {
		s.metrics.QueueDepthDelta(1)
	}
	s.logger.Info("generation run queued", zap.String("run_id", run.ID), zap.String("executed_by", executedBy))
	return run, nil
}

// History lists past runs, newest first.
func (s *GenerationService) History(ctx context.Context, limit int) ([]models.GenerationRun, error) {
	runs, err := s.repo.History(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list generation history")
	}
	return runs, nil
}

// HandleJob is the queue handler: it transitions the run through
// RUNNING into SUCCESS or FAILED.
func (s *GenerationService) HandleJob(ctx context.Context, job jobs.Job) error {
	run, ok := job.Payload.(models.GenerationRun)
	if !ok {
		return fmt.Errorf("unexpected payload type %T for job %s", job.Payload, job.ID)
	}
	defer func() {
		if s.metrics != nil {
			s.metrics.QueueDepthDelta(-1)
		}
	}()

	if err := s.repo.UpdateStatus(ctx, run.ID, models.GenerationRunning, 0, ""); err != nil {
		return err
	}

	total, err := s.generator.Generate(ctx, run)
	if err != nil {
		s.logger.Error("generation run failed", zap.String("run_id", run.ID), zap.Error(err))
		if updateErr := s.repo.UpdateStatus(ctx, run.ID, models.GenerationFailed, total, err.Error()); updateErr != nil {
			return updateErr
		}
		return nil
	}

	message := fmt.Sprintf("generated %d blocks", total)
	if run.DryRun {
		message = fmt.Sprintf("dry run, %d blocks would be generated", total)
	}
	if err := s.repo.UpdateStatus(ctx, run.ID, models.GenerationSuccess, total, message); err != nil {
		return err
	}

	s.logger.Info("generation run finished", zap.String("run_id", run.ID), zap.Int("total", total))
	return nil
}
