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

type availabilityRepository interface {
	FindByTeacherDay(ctx context.Context, teacherID string, day models.Weekday) (*models.AvailabilityWindow, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityWindow, error)
	Upsert(ctx context.Context, window *models.AvailabilityWindow) error
	Delete(ctx context.Context, teacherID string, day models.Weekday) error
}

// AvailabilityService manages teacher availability declarations.
type AvailabilityService struct {
	repo      availabilityRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService instantiates AvailabilityService.
func NewAvailabilityService(repo availabilityRepository, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, validator: validate, logger: logger}
}

// ListByTeacher returns all declared windows for a teacher.
func (s *AvailabilityService) ListByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityWindow, error) {
	windows, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability")
	}
	return windows, nil
}

// Register declares or replaces the window for (teacher, day). The
// upsert makes register and update the same operation underneath; the
// two endpoints exist for API compatibility.
func (s *AvailabilityService) Register(ctx context.Context, req models.AvailabilityRequest) (*models.AvailabilityWindow, error) {
	window, err := s.buildWindow(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, window); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store availability")
	}

	s.logger.Info("availability registered",
		zap.String("teacher_id", window.TeacherID),
		zap.String("day", window.Day.String()),
	)
	return window, nil
}

// Delete removes the window for (teacher, day).
func (s *AvailabilityService) Delete(ctx context.Context, teacherID, dayName string) error {
	day, err := models.ParseWeekday(dayName)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid day %q", dayName))
	}

	if err := s.repo.Delete(ctx, teacherID, day); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "no availability declared for that day")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete availability")
	}
	return nil
}

// buildWindow validates the payload shape: each pair complete or
// absent, start strictly before end, and at least one pair declared.
func (s *AvailabilityService) buildWindow(req models.AvailabilityRequest) (*models.AvailabilityWindow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "teacher and day are required")
	}

	day, err := models.ParseWeekday(req.Day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid day %q", req.Day))
	}

	amStart, amEnd, err := parsePair("morning", req.AMStart, req.AMEnd)
	if err != nil {
		return nil, err
	}
	pmStart, pmEnd, err := parsePair("afternoon", req.PMStart, req.PMEnd)
	if err != nil {
		return nil, err
	}

	if amStart == nil && pmStart == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one availability window is required")
	}

	return &models.AvailabilityWindow{
		TeacherID: req.TeacherID,
		Day:       day,
		AMStart:   amStart,
		AMEnd:     amEnd,
		PMStart:   pmStart,
		PMEnd:     pmEnd,
	}, nil
}

func parsePair(label string, rawStart, rawEnd *string) (*models.TimeOfDay, *models.TimeOfDay, error) {
	if rawStart == nil && rawEnd == nil {
		return nil, nil, nil
	}
	if rawStart == nil || rawEnd == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s window needs both start and end", label))
	}

	start, err := models.ParseTimeOfDay(*rawStart)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid %s start", label))
	}
	end, err := models.ParseTimeOfDay(*rawEnd)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid %s end", label))
	}
	if !start.Before(end) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s window start must precede its end", label))
	}

	return &start, &end, nil
}
