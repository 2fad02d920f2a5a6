package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/martinstiben/SGH-portal/internal/models"
	appErrors "github.com/martinstiben/SGH-portal/pkg/errors"
)

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Course, error)
}

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Teacher, error)
}

type subjectReader interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Subject, error)
}

type gridCache interface {
	GetGrid(ctx context.Context, key string) (*models.TimetableGrid, bool)
	SetGrid(ctx context.Context, key string, grid *models.TimetableGrid)
}

// GridService projects placed blocks into the weekly timetable view.
// The projection is pure over the block set; names are joined in at
// read time.
type GridService struct {
	schedules scheduleRepository
	courses   courseReader
	teachers  teacherReader
	subjects  subjectReader
	cache     gridCache
	logger    *zap.Logger
}

// NewGridService instantiates GridService. The cache may be nil.
func NewGridService(schedules scheduleRepository, courses courseReader, teachers teacherReader, subjects subjectReader, cache gridCache, logger *zap.Logger) *GridService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GridService{
		schedules: schedules,
		courses:   courses,
		teachers:  teachers,
		subjects:  subjects,
		cache:     cache,
		logger:    logger,
	}
}

// BuildCourseGrid renders the weekly grid for one course. Occupied
// cells read "teacher/subject".
func (s *GridService) BuildCourseGrid(ctx context.Context, courseID string) (*models.TimetableGrid, error) {
	cacheKey := fmt.Sprintf("grid:course:%s", courseID)
	if s.cache != nil {
		if grid, ok := s.cache.GetGrid(ctx, cacheKey); ok {
			return grid, nil
		}
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	blocks, err := s.schedules.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course timetable")
	}

	grid, err := s.project(ctx, "course", course.Name, blocks, func(b models.ScheduleBlock, names nameIndex) string {
		return names.teacher(b.TeacherID) + "/" + names.subject(b.SubjectID)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetGrid(ctx, cacheKey, grid)
	}
	return grid, nil
}

// BuildTeacherGrid renders the weekly grid for one teacher. Occupied
// cells read "course/subject".
func (s *GridService) BuildTeacherGrid(ctx context.Context, teacherID string) (*models.TimetableGrid, error) {
	cacheKey := fmt.Sprintf("grid:teacher:%s", teacherID)
	if s.cache != nil {
		if grid, ok := s.cache.GetGrid(ctx, cacheKey); ok {
			return grid, nil
		}
	}

	teacher, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	blocks, err := s.schedules.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher timetable")
	}

	grid, err := s.project(ctx, "teacher", teacher.Name, blocks, func(b models.ScheduleBlock, names nameIndex) string {
		return names.course(b.CourseID) + "/" + names.subject(b.SubjectID)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetGrid(ctx, cacheKey, grid)
	}
	return grid, nil
}

type nameIndex struct {
	courses  map[string]models.Course
	teachers map[string]models.Teacher
	subjects map[string]models.Subject
}

func (n nameIndex) course(id string) string {
	if c, ok := n.courses[id]; ok {
		return c.Name
	}
	return id
}

func (n nameIndex) teacher(id string) string {
	if t, ok := n.teachers[id]; ok {
		return t.Name
	}
	return id
}

func (n nameIndex) subject(id string) string {
	if s, ok := n.subjects[id]; ok {
		return s.Name
	}
	return id
}

func (s *GridService) project(ctx context.Context, kind, name string, blocks []models.ScheduleBlock, cellText func(models.ScheduleBlock, nameIndex) string) (*models.TimetableGrid, error) {
	names, err := s.resolveNames(ctx, blocks)
	if err != nil {
		return nil, err
	}

	rows := rowStarts(blocks)
	grid := &models.TimetableGrid{For: kind, Name: name, Rows: make([]models.TimetableRow, 0, len(rows))}

	for _, start := range rows {
		isBreak := start == models.BreakBlackout.Start
		isLunch := start == models.LunchBlackout.Start

		var end models.TimeOfDay
		if isBreak {
			end, err = start.AddMinutes(30)
		} else {
			end, err = start.AddHour()
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to derive row end")
		}

		row := models.TimetableRow{
			Start: start,
			End:   end,
			Label: start.Format12h() + " - " + end.Format12h(),
			Cells: make([]models.TimetableCell, 0, 5),
		}

		for _, day := range models.Weekdays() {
			cell := models.TimetableCell{Day: day}
			if block, ok := blockAt(blocks, day, start); ok {
				cell.Text = cellText(block, names)
				cell.BlockID = block.ID
			} else if isLunch {
				cell.Text = models.LunchBlackout.Name
			} else if isBreak {
				cell.Text = models.BreakBlackout.Name
			}
			row.Cells = append(row.Cells, cell)
		}

		grid.Rows = append(grid.Rows, row)
	}

	return grid, nil
}

func (s *GridService) resolveNames(ctx context.Context, blocks []models.ScheduleBlock) (nameIndex, error) {
	courseIDs := make(map[string]struct{})
	teacherIDs := make(map[string]struct{})
	subjectIDs := make(map[string]struct{})
	for _, b := range blocks {
		courseIDs[b.CourseID] = struct{}{}
		teacherIDs[b.TeacherID] = struct{}{}
		subjectIDs[b.SubjectID] = struct{}{}
	}

	courses, err := s.courses.FindByIDs(ctx, keys(courseIDs))
	if err != nil {
		return nameIndex{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve course names")
	}
	teachers, err := s.teachers.FindByIDs(ctx, keys(teacherIDs))
	if err != nil {
		return nameIndex{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve teacher names")
	}
	subjects, err := s.subjects.FindByIDs(ctx, keys(subjectIDs))
	if err != nil {
		return nameIndex{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve subject names")
	}

	return nameIndex{courses: courses, teachers: teachers, subjects: subjects}, nil
}

// rowStarts returns the distinct block start times plus the two
// institutional rows, ascending.
func rowStarts(blocks []models.ScheduleBlock) []models.TimeOfDay {
	seen := map[int]models.TimeOfDay{
		models.BreakBlackout.Start.Minutes(): models.BreakBlackout.Start,
		models.LunchBlackout.Start.Minutes(): models.LunchBlackout.Start,
	}
	for _, b := range blocks {
		seen[b.StartTime.Minutes()] = b.StartTime
	}

	starts := make([]models.TimeOfDay, 0, len(seen))
	for _, t := range seen {
		starts = append(starts, t)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Minutes() < starts[j].Minutes() })
	return starts
}

func blockAt(blocks []models.ScheduleBlock, day models.Weekday, start models.TimeOfDay) (models.ScheduleBlock, bool) {
	for _, b := range blocks {
		if b.Day == day && b.StartTime.Minutes() == start.Minutes() {
			return b, true
		}
	}
	return models.ScheduleBlock{}, false
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
