package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinstiben/SGH-portal/internal/models"
	appErrors "github.com/martinstiben/SGH-portal/pkg/errors"
)

type fakeCourseReader struct {
	courses map[string]models.Course
}

func (f *fakeCourseReader) FindByID(_ context.Context, id string) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCourseReader) FindByIDs(_ context.Context, ids []string) (map[string]models.Course, error) {
	out := make(map[string]models.Course)
	for _, id := range ids {
		if c, ok := f.courses[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

type fakeTeacherReader struct {
	teachers map[string]models.Teacher
}

func (f *fakeTeacherReader) FindByID(_ context.Context, id string) (*models.Teacher, error) {
	if t, ok := f.teachers[id]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTeacherReader) FindByIDs(_ context.Context, ids []string) (map[string]models.Teacher, error) {
	out := make(map[string]models.Teacher)
	for _, id := range ids {
		if t, ok := f.teachers[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

type fakeSubjectReader struct {
	subjects map[string]models.Subject
}

func (f *fakeSubjectReader) FindByIDs(_ context.Context, ids []string) (map[string]models.Subject, error) {
	out := make(map[string]models.Subject)
	for _, id := range ids {
		if s, ok := f.subjects[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func newGridFixture(blocks ...models.ScheduleBlock) *GridService {
	repo := &fakeScheduleRepo{blocks: blocks}
	courses := &fakeCourseReader{courses: map[string]models.Course{
		"course-1": {ID: "course-1", Name: "Sexto A"},
	}}
	teachers := &fakeTeacherReader{teachers: map[string]models.Teacher{
		"teacher-1": {ID: "teacher-1", Name: "Laura Pérez"},
	}}
	subjects := &fakeSubjectReader{subjects: map[string]models.Subject{
		"subject-1": {ID: "subject-1", Name: "Matemáticas"},
	}}
	return NewGridService(repo, courses, teachers, subjects, nil, nil)
}

func TestGridServiceEmptyTimetableStillHasInstitutionalRows(t *testing.T) {
	svc := newGridFixture()

	grid, err := svc.BuildCourseGrid(context.Background(), "course-1")
	require.NoError(t, err)
	require.Len(t, grid.Rows, 2, "break and lunch rows are always present")

	breakRow := grid.Rows[0]
	assert.Equal(t, "9:00 AM - 9:30 AM", breakRow.Label, "the break row is only 30 minutes")
	for _, cell := range breakRow.Cells {
		assert.Equal(t, "Descanso", cell.Text)
	}

	lunchRow := grid.Rows[1]
	assert.Equal(t, "12:00 PM - 1:00 PM", lunchRow.Label)
	for _, cell := range lunchRow.Cells {
		assert.Equal(t, "Almuerzo", cell.Text)
	}
}

func TestGridServiceBuildCourseGrid(t *testing.T) {
	svc := newGridFixture(
		placedBlock("blk-1", "course-1", "teacher-1", models.Monday, 10),
		placedBlock("blk-2", "course-1", "teacher-1", models.Wednesday, 14),
	)

	grid, err := svc.BuildCourseGrid(context.Background(), "course-1")
	require.NoError(t, err)
	assert.Equal(t, "Sexto A", grid.Name)
	require.Len(t, grid.Rows, 4)

	labels := make([]string, 0, len(grid.Rows))
	for _, row := range grid.Rows {
		labels = append(labels, row.Label)
	}
	assert.Equal(t, []string{
		"9:00 AM - 9:30 AM",
		"10:00 AM - 11:00 AM",
		"12:00 PM - 1:00 PM",
		"2:00 PM - 3:00 PM",
	}, labels, "rows ordered by start time with institutional rows merged in")

	tenAM := grid.Rows[1]
	require.Len(t, tenAM.Cells, 5)
	assert.Equal(t, "Laura Pérez/Matemáticas", tenAM.Cells[0].Text, "Monday cell is populated")
	assert.Equal(t, "blk-1", tenAM.Cells[0].BlockID)
	assert.Equal(t, "", tenAM.Cells[1].Text, "Tuesday cell is empty")

	twoPM := grid.Rows[3]
	assert.Equal(t, "Laura Pérez/Matemáticas", twoPM.Cells[2].Text, "Wednesday cell is populated")
}

func TestGridServiceBuildTeacherGrid(t *testing.T) {
	svc := newGridFixture(
		placedBlock("blk-1", "course-1", "teacher-1", models.Friday, 8),
	)

	grid, err := svc.BuildTeacherGrid(context.Background(), "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, "Laura Pérez", grid.Name)

	eightAM := grid.Rows[0]
	assert.Equal(t, "8:00 AM - 9:00 AM", eightAM.Label)
	assert.Equal(t, "Sexto A/Matemáticas", eightAM.Cells[4].Text, "teacher cells show course/subject")
}

func TestGridServiceRoundTripAfterDelete(t *testing.T) {
	repo := &fakeScheduleRepo{blocks: []models.ScheduleBlock{
		placedBlock("blk-1", "course-1", "teacher-1", models.Monday, 10),
	}}
	courses := &fakeCourseReader{courses: map[string]models.Course{"course-1": {ID: "course-1", Name: "Sexto A"}}}
	teachers := &fakeTeacherReader{teachers: map[string]models.Teacher{"teacher-1": {ID: "teacher-1", Name: "Laura Pérez"}}}
	subjects := &fakeSubjectReader{subjects: map[string]models.Subject{"subject-1": {ID: "subject-1", Name: "Matemáticas"}}}
	grids := NewGridService(repo, courses, teachers, subjects, nil, nil)
	schedules := NewScheduleService(repo, &fakeAvailabilityReader{windows: map[string]*models.AvailabilityWindow{}}, nil, nil, nil, nil)

	before, err := grids.BuildTeacherGrid(context.Background(), "teacher-1")
	require.NoError(t, err)
	require.Len(t, before.Rows, 3)

	// Deleting the block removes it from both projections at once.
	require.NoError(t, schedules.Delete(context.Background(), "blk-1"))

	afterTeacher, err := grids.BuildTeacherGrid(context.Background(), "teacher-1")
	require.NoError(t, err)
	assert.Len(t, afterTeacher.Rows, 2)

	afterCourse, err := grids.BuildCourseGrid(context.Background(), "course-1")
	require.NoError(t, err)
	assert.Len(t, afterCourse.Rows, 2)
}

func TestGridServiceUnknownCourse(t *testing.T) {
	svc := newGridFixture()

	_, err := svc.BuildCourseGrid(context.Background(), "ghost")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
