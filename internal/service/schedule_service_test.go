package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinstiben/SGH-portal/internal/models"
	appErrors "github.com/martinstiben/SGH-portal/pkg/errors"
)

type fakeScheduleRepo struct {
	blocks  []models.ScheduleBlock
	created []models.ScheduleBlock
	updated []models.ScheduleBlock
	deleted []string
	nextID  int
}

func (f *fakeScheduleRepo) List(_ context.Context, filter models.ScheduleFilter) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	for _, b := range f.blocks {
		if filter.CourseID != "" && b.CourseID != filter.CourseID {
			continue
		}
		if filter.TeacherID != "" && b.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Day != nil && b.Day != *filter.Day {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeScheduleRepo) FindByID(_ context.Context, id string) (*models.ScheduleBlock, error) {
	for i := range f.blocks {
		if f.blocks[i].ID == id {
			b := f.blocks[i]
			return &b, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeScheduleRepo) ListByCourseDay(_ context.Context, courseID string, day models.Weekday) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	for _, b := range f.blocks {
		if b.CourseID == courseID && b.Day == day {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) ListByTeacherDay(_ context.Context, teacherID string, day models.Weekday) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	for _, b := range f.blocks {
		if b.TeacherID == teacherID && b.Day == day {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) ListByCourse(_ context.Context, courseID string) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	for _, b := range f.blocks {
		if b.CourseID == courseID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) ListByTeacher(_ context.Context, teacherID string) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	for _, b := range f.blocks {
		if b.TeacherID == teacherID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) Create(_ context.Context, block *models.ScheduleBlock) error {
	if block.ID == "" {
		f.nextID++
		block.ID = "blk-new"
	}
	f.created = append(f.created, *block)
	f.blocks = append(f.blocks, *block)
	return nil
}

func (f *fakeScheduleRepo) Update(_ context.Context, block *models.ScheduleBlock) error {
	for i := range f.blocks {
		if f.blocks[i].ID == block.ID {
			f.blocks[i] = *block
			f.updated = append(f.updated, *block)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeScheduleRepo) Delete(_ context.Context, id string) error {
	for i := range f.blocks {
		if f.blocks[i].ID == id {
			f.blocks = append(f.blocks[:i], f.blocks[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeAvailabilityReader struct {
	windows map[string]*models.AvailabilityWindow
}

func availKey(teacherID string, day models.Weekday) string {
	return teacherID + "|" + day.String()
}

func (f *fakeAvailabilityReader) FindByTeacherDay(_ context.Context, teacherID string, day models.Weekday) (*models.AvailabilityWindow, error) {
	return f.windows[availKey(teacherID, day)], nil
}

func fullDayWindow(teacherID string, day models.Weekday) *models.AvailabilityWindow {
	am := models.TimeOfDay{Hour: 7}
	amEnd := models.TimeOfDay{Hour: 12}
	pm := models.TimeOfDay{Hour: 13}
	pmEnd := models.TimeOfDay{Hour: 18}
	return &models.AvailabilityWindow{
		TeacherID: teacherID,
		Day:       day,
		AMStart:   &am,
		AMEnd:     &amEnd,
		PMStart:   &pm,
		PMEnd:     &pmEnd,
	}
}

func placedBlock(id, courseID, teacherID string, day models.Weekday, startHour int) models.ScheduleBlock {
	return models.ScheduleBlock{
		ID:        id,
		CourseID:  courseID,
		TeacherID: teacherID,
		SubjectID: "subject-1",
		Day:       day,
		StartTime: models.TimeOfDay{Hour: startHour},
		EndTime:   models.TimeOfDay{Hour: startHour + 1},
	}
}

func newScheduleFixture(blocks ...models.ScheduleBlock) (*ScheduleService, *fakeScheduleRepo, *fakeAvailabilityReader) {
	repo := &fakeScheduleRepo{blocks: blocks}
	avail := &fakeAvailabilityReader{windows: map[string]*models.AvailabilityWindow{}}
	svc := NewScheduleService(repo, avail, nil, nil, nil, nil)
	return svc, repo, avail
}

func requireRejection(t *testing.T, err error, sentinel *appErrors.Error) {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, sentinel.Code, appErr.Code)
	assert.Equal(t, sentinel.Status, appErr.Status)

	var conflict *models.PlacementConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, sentinel.Code, conflict.Reason)
}

func TestScheduleServiceCreateValid(t *testing.T) {
	svc, repo, avail := newScheduleFixture()
	avail.windows[availKey("teacher-1", models.Monday)] = fullDayWindow("teacher-1", models.Monday)

	block, err := svc.Create(context.Background(), models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Lunes",
		StartTime: "10:00",
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, models.TimeOfDay{Hour: 11}, block.EndTime, "end time is always start plus one hour")
	assert.Equal(t, models.Monday, block.Day)
}

func TestScheduleServiceCreateIncomplete(t *testing.T) {
	svc, repo, _ := newScheduleFixture()

	_, err := svc.Create(context.Background(), models.ScheduleBlockRequest{
		CourseID: "course-1",
		Day:      "Lunes",
	})
	requireRejection(t, err, appErrors.ErrIncompleteInput)
	assert.Empty(t, repo.created)
}

func TestScheduleServiceCreateBlackout(t *testing.T) {
	svc, _, avail := newScheduleFixture()
	avail.windows[availKey("teacher-1", models.Monday)] = fullDayWindow("teacher-1", models.Monday)

	cases := []string{"08:45", "09:00", "09:15", "11:30", "12:00", "12:30"}
	for _, start := range cases {
		t.Run(start, func(t *testing.T) {
			_, err := svc.Create(context.Background(), models.ScheduleBlockRequest{
				CourseID:  "course-1",
				TeacherID: "teacher-1",
				SubjectID: "subject-1",
				Day:       "Lunes",
				StartTime: start,
			})
			requireRejection(t, err, appErrors.ErrBlackoutConflict)
		})
	}
}

func TestScheduleServiceBlackoutWinsOverAvailability(t *testing.T) {
	// The teacher has no availability record at all, but the blackout
	// check runs first, so the rejection reason is the blackout.
	svc, _, _ := newScheduleFixture()

	_, err := svc.Create(context.Background(), models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Martes",
		StartTime: "08:45",
	})
	requireRejection(t, err, appErrors.ErrBlackoutConflict)
}

func TestScheduleServiceCreateNoAvailabilityDay(t *testing.T) {
	svc, _, avail := newScheduleFixture()
	avail.windows[availKey("teacher-1", models.Monday)] = fullDayWindow("teacher-1", models.Monday)

	_, err := svc.Create(context.Background(), models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Martes",
		StartTime: "10:00",
	})
	requireRejection(t, err, appErrors.ErrNoAvailabilityDay)
}

func TestScheduleServiceCreateOutsideAvailability(t *testing.T) {
	svc, _, avail := newScheduleFixture()
	am := models.TimeOfDay{Hour: 8}
	amEnd := models.TimeOfDay{Hour: 10}
	avail.windows[availKey("teacher-1", models.Monday)] = &models.AvailabilityWindow{
		TeacherID: "teacher-1",
		Day:       models.Monday,
		AMStart:   &am,
		AMEnd:     &amEnd,
	}

	// 09:35-10:35 pokes past the 10:00 window end. Containment is
	// total, so partial overlap is not enough.
	_, err := svc.Create(context.Background(), models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Lunes",
		StartTime: "09:35",
	})
	requireRejection(t, err, appErrors.ErrOutsideAvailability)

	// Fully inside the same window passes the availability check.
	block, err := svc.Create(context.Background(), models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Lunes",
		StartTime: "08:00",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TimeOfDay{Hour: 9}, block.EndTime)
}

func TestScheduleServiceCreateCourseSlotOccupied(t *testing.T) {
	// Another teacher already holds the course at that hour.
	svc, _, avail := newScheduleFixture(
		placedBlock("blk-1", "course-1", "teacher-2", models.Monday, 10),
	)
	avail.windows[availKey("teacher-1", models.Monday)] = fullDayWindow("teacher-1", models.Monday)

	_, err := svc.Create(context.Background(), models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Lunes",
		StartTime: "10:00",
	})
	requireRejection(t, err, appErrors.ErrCourseSlotOccupied)

	var conflict *models.PlacementConflictError
	require.True(t, errors.As(err, &conflict))
	require.NotNil(t, conflict.Conflict)
	assert.Equal(t, "blk-1", conflict.Conflict.ID)
}

func TestScheduleServiceCreateTeacherDoubleBooked(t *testing.T) {
	// The teacher already teaches a different course at that hour.
	svc, _, avail := newScheduleFixture(
		placedBlock("blk-1", "course-2", "teacher-1", models.Monday, 10),
	)
	avail.windows[availKey("teacher-1", models.Monday)] = fullDayWindow("teacher-1", models.Monday)

	_, err := svc.Create(context.Background(), models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Lunes",
		StartTime: "10:00",
	})
	requireRejection(t, err, appErrors.ErrTeacherDoubleBooked)
}

func TestScheduleServiceAdjacentBlocksDoNotConflict(t *testing.T) {
	svc, repo, avail := newScheduleFixture(
		placedBlock("blk-1", "course-1", "teacher-1", models.Monday, 10),
	)
	avail.windows[availKey("teacher-1", models.Monday)] = fullDayWindow("teacher-1", models.Monday)

	// 11:00-12:00 touches 10:00-11:00 at the boundary only.
	_, err := svc.Create(context.Background(), models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Lunes",
		StartTime: "11:00",
	})
	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
}

func TestScheduleServiceUpdateExcludesSelf(t *testing.T) {
	svc, repo, avail := newScheduleFixture(
		placedBlock("blk-1", "course-1", "teacher-1", models.Monday, 10),
	)
	avail.windows[availKey("teacher-1", models.Monday)] = fullDayWindow("teacher-1", models.Monday)

	// Re-submitting the block with its own slot must not collide with
	// itself.
	block, err := svc.Update(context.Background(), "blk-1", models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Lunes",
		StartTime: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "blk-1", block.ID)
	require.Len(t, repo.updated, 1)
}

func TestScheduleServiceUpdateStillConflictsWithOthers(t *testing.T) {
	svc, _, avail := newScheduleFixture(
		placedBlock("blk-1", "course-1", "teacher-1", models.Monday, 10),
		placedBlock("blk-2", "course-1", "teacher-2", models.Monday, 14),
	)
	avail.windows[availKey("teacher-1", models.Monday)] = fullDayWindow("teacher-1", models.Monday)

	_, err := svc.Update(context.Background(), "blk-1", models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Lunes",
		StartTime: "14:00",
	})
	requireRejection(t, err, appErrors.ErrCourseSlotOccupied)
}

func TestScheduleServiceUpdateMissing(t *testing.T) {
	svc, _, avail := newScheduleFixture()
	avail.windows[availKey("teacher-1", models.Monday)] = fullDayWindow("teacher-1", models.Monday)

	_, err := svc.Update(context.Background(), "ghost", models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Lunes",
		StartTime: "10:00",
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestScheduleServiceValidationIsDeterministic(t *testing.T) {
	svc, _, avail := newScheduleFixture(
		placedBlock("blk-1", "course-1", "teacher-1", models.Monday, 10),
	)
	avail.windows[availKey("teacher-1", models.Monday)] = fullDayWindow("teacher-1", models.Monday)

	req := models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Lunes",
		StartTime: "10:30",
	}

	// Same snapshot, same request: always the same verdict.
	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), req)
		requireRejection(t, err, appErrors.ErrCourseSlotOccupied)
	}
}

func TestScheduleServiceLateStartRejected(t *testing.T) {
	svc, _, avail := newScheduleFixture()
	avail.windows[availKey("teacher-1", models.Monday)] = fullDayWindow("teacher-1", models.Monday)

	_, err := svc.Create(context.Background(), models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Lunes",
		StartTime: "23:30",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestScheduleServiceDelete(t *testing.T) {
	svc, repo, _ := newScheduleFixture(
		placedBlock("blk-1", "course-1", "teacher-1", models.Monday, 10),
	)

	require.NoError(t, svc.Delete(context.Background(), "blk-1"))
	assert.Equal(t, []string{"blk-1"}, repo.deleted)

	err := svc.Delete(context.Background(), "blk-1")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
