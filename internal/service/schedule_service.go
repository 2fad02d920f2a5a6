package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/martinstiben/SGH-portal/internal/models"
	appErrors "github.com/martinstiben/SGH-portal/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleBlock, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleBlock, error)
	ListByCourseDay(ctx context.Context, courseID string, day models.Weekday) ([]models.ScheduleBlock, error)
	ListByTeacherDay(ctx context.Context, teacherID string, day models.Weekday) ([]models.ScheduleBlock, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.ScheduleBlock, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ScheduleBlock, error)
	Create(ctx context.Context, block *models.ScheduleBlock) error
	Update(ctx context.Context, block *models.ScheduleBlock) error
	Delete(ctx context.Context, id string) error
}

type availabilityReader interface {
	FindByTeacherDay(ctx context.Context, teacherID string, day models.Weekday) (*models.AvailabilityWindow, error)
}

type gridInvalidator interface {
	InvalidateTimetables(ctx context.Context, courseID, teacherID string)
}

// ScheduleService validates and persists class block placements. Every
// mutation runs the full placement check against the current snapshot
// of both timetables before touching storage.
type ScheduleService struct {
	repo         scheduleRepository
	availability availabilityReader
	invalidator  gridInvalidator
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewScheduleService instantiates ScheduleService. The invalidator and
// metrics may be nil.
func NewScheduleService(repo scheduleRepository, availability availabilityReader, invalidator gridInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		repo:         repo,
		availability: availability,
		invalidator:  invalidator,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
	}
}

// List returns blocks matching the filter.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleBlock, error) {
	blocks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule blocks")
	}
	return blocks, nil
}

// ListByCourse returns the course timetable.
func (s *ScheduleService) ListByCourse(ctx context.Context, courseID string) ([]models.ScheduleBlock, error) {
	blocks, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course timetable")
	}
	return blocks, nil
}

// ListByTeacher returns the teacher timetable.
func (s *ScheduleService) ListByTeacher(ctx context.Context, teacherID string) ([]models.ScheduleBlock, error) {
	blocks, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher timetable")
	}
	return blocks, nil
}

// Get loads one block.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ScheduleBlock, error) {
	block, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule block not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule block")
	}
	return block, nil
}

// Create validates the candidate placement and stores the block.
func (s *ScheduleService) Create(ctx context.Context, req models.ScheduleBlockRequest) (*models.ScheduleBlock, error) {
	block, err := s.validatePlacement(ctx, req, "")
	s.recordPlacement(err)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, block); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule block")
	}

	s.invalidate(ctx, block)
	s.logger.Info("schedule block created",
		zap.String("block_id", block.ID),
		zap.String("course_id", block.CourseID),
		zap.String("teacher_id", block.TeacherID),
		zap.String("day", block.Day.String()),
		zap.String("start", block.StartTime.String()),
	)
	return block, nil
}

// Update revalidates the placement, ignoring the edited block itself in
// the conflict scan, and replaces the block in full.
func (s *ScheduleService) Update(ctx context.Context, id string, req models.ScheduleBlockRequest) (*models.ScheduleBlock, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	block, err := s.validatePlacement(ctx, req, id)
	s.recordPlacement(err)
	if err != nil {
		return nil, err
	}
	block.ID = id
	block.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, block); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule block not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule block")
	}

	s.invalidate(ctx, existing)
	s.invalidate(ctx, block)
	return block, nil
}

// Delete removes a block from both timetables.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule block not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule block")
	}

	s.invalidate(ctx, existing)
	return nil
}

// validatePlacement runs the full admission sequence and returns the
// block ready for persistence. ignoreID excludes the edited block from
// the conflict scans; empty on create.
//
// The order is fixed: required fields, blackout calendar, teacher
// availability, course timetable, teacher timetable. The first failure
// wins.
func (s *ScheduleService) validatePlacement(ctx context.Context, req models.ScheduleBlockRequest, ignoreID string) (*models.ScheduleBlock, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, placementError(appErrors.ErrIncompleteInput, nil)
	}

	day, err := models.ParseWeekday(req.Day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid day %q", req.Day))
	}

	start, err := models.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid start time %q", req.StartTime))
	}

	end, err := start.AddHour()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "class cannot start this late")
	}

	if blackout, hit := models.InBlackout(start, end); hit {
		s.logger.Debug("placement rejected by blackout", zap.String("blackout", blackout.Name), zap.String("start", start.String()))
		return nil, placementError(appErrors.ErrBlackoutConflict, nil)
	}

	window, err := s.availability.FindByTeacherDay(ctx, req.TeacherID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher availability")
	}
	if window == nil || window.Empty() {
		return nil, placementError(appErrors.ErrNoAvailabilityDay, nil)
	}
	if !window.Contains(start, end) {
		return nil, placementError(appErrors.ErrOutsideAvailability, nil)
	}

	candidate := models.ScheduleBlock{
		CourseID:  req.CourseID,
		TeacherID: req.TeacherID,
		SubjectID: req.SubjectID,
		Day:       day,
		StartTime: start,
		EndTime:   end,
	}

	courseBlocks, err := s.repo.ListByCourseDay(ctx, req.CourseID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to scan course timetable")
	}
	if conflict := firstOverlap(candidate, courseBlocks, ignoreID); conflict != nil {
		return nil, placementError(appErrors.ErrCourseSlotOccupied, conflict)
	}

	teacherBlocks, err := s.repo.ListByTeacherDay(ctx, req.TeacherID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to scan teacher timetable")
	}
	if conflict := firstOverlap(candidate, teacherBlocks, ignoreID); conflict != nil {
		return nil, placementError(appErrors.ErrTeacherDoubleBooked, conflict)
	}

	return &candidate, nil
}

func firstOverlap(candidate models.ScheduleBlock, blocks []models.ScheduleBlock, ignoreID string) *models.ScheduleBlock {
	for i := range blocks {
		if ignoreID != "" && blocks[i].ID == ignoreID {
			continue
		}
		if candidate.Overlaps(blocks[i]) {
			return &blocks[i]
		}
	}
	return nil
}

func placementError(sentinel *appErrors.Error, conflict *models.ScheduleBlock) error {
	domain := &models.PlacementConflictError{
		Reason:   sentinel.Code,
		Message:  sentinel.Message,
		Conflict: conflict,
	}
	return appErrors.Wrap(domain, sentinel.Code, sentinel.Status, sentinel.Message)
}

// recordPlacement counts the verdict of one placement attempt.
// Infrastructure and parse failures are not verdicts and stay out of
// the counter.
func (s *ScheduleService) recordPlacement(err error) {
	if s.metrics == nil {
		return
	}
	if err == nil {
		s.metrics.RecordPlacement("accepted")
		return
	}
	var conflict *models.PlacementConflictError
	if errors.As(err, &conflict) {
		s.metrics.RecordPlacement(conflict.Reason)
	}
}

func (s *ScheduleService) invalidate(ctx context.Context, block *models.ScheduleBlock) {
	if s.invalidator == nil || block == nil {
		return
	}
	s.invalidator.InvalidateTimetables(ctx, block.CourseID, block.TeacherID)
}
