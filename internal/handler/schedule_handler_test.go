package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinstiben/SGH-portal/internal/models"
	"github.com/martinstiben/SGH-portal/internal/service"
	"github.com/martinstiben/SGH-portal/pkg/response"
)

type stubScheduleRepo struct {
	blocks []models.ScheduleBlock
}

func (s *stubScheduleRepo) List(_ context.Context, _ models.ScheduleFilter) ([]models.ScheduleBlock, error) {
	return s.blocks, nil
}

func (s *stubScheduleRepo) FindByID(_ context.Context, id string) (*models.ScheduleBlock, error) {
	for i := range s.blocks {
		if s.blocks[i].ID == id {
			return &s.blocks[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubScheduleRepo) ListByCourseDay(_ context.Context, courseID string, day models.Weekday) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	for _, b := range s.blocks {
		if b.CourseID == courseID && b.Day == day {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubScheduleRepo) ListByTeacherDay(_ context.Context, teacherID string, day models.Weekday) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	for _, b := range s.blocks {
		if b.TeacherID == teacherID && b.Day == day {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubScheduleRepo) ListByCourse(_ context.Context, courseID string) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	for _, b := range s.blocks {
		if b.CourseID == courseID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubScheduleRepo) ListByTeacher(_ context.Context, teacherID string) ([]models.ScheduleBlock, error) {
	var out []models.ScheduleBlock
	for _, b := range s.blocks {
		if b.TeacherID == teacherID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubScheduleRepo) Create(_ context.Context, block *models.ScheduleBlock) error {
	block.ID = "blk-created"
	s.blocks = append(s.blocks, *block)
	return nil
}

func (s *stubScheduleRepo) Update(_ context.Context, block *models.ScheduleBlock) error {
	for i := range s.blocks {
		if s.blocks[i].ID == block.ID {
			s.blocks[i] = *block
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *stubScheduleRepo) Delete(_ context.Context, id string) error {
	for i := range s.blocks {
		if s.blocks[i].ID == id {
			s.blocks = append(s.blocks[:i], s.blocks[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type stubAvailability struct {
	windows map[string]*models.AvailabilityWindow
}

func (s *stubAvailability) FindByTeacherDay(_ context.Context, teacherID string, day models.Weekday) (*models.AvailabilityWindow, error) {
	return s.windows[teacherID+"|"+day.String()], nil
}

func newScheduleHandlerFixture(blocks ...models.ScheduleBlock) (*ScheduleHandler, *stubScheduleRepo) {
	repo := &stubScheduleRepo{blocks: blocks}
	am := models.TimeOfDay{Hour: 7}
	amEnd := models.TimeOfDay{Hour: 12}
	pm := models.TimeOfDay{Hour: 13}
	pmEnd := models.TimeOfDay{Hour: 18}
	avail := &stubAvailability{windows: map[string]*models.AvailabilityWindow{
		"teacher-1|Lunes": {
			TeacherID: "teacher-1",
			Day:       models.Monday,
			AMStart:   &am, AMEnd: &amEnd,
			PMStart: &pm, PMEnd: &pmEnd,
		},
	}}
	svc := service.NewScheduleService(repo, avail, nil, nil, nil, nil)
	return NewScheduleHandler(svc, nil), repo
}

func performJSON(t *testing.T, handler gin.HandlerFunc, method, target string, body interface{}, params ...gin.Param) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params

	handler(c)
	return w
}

func TestScheduleHandlerCreate(t *testing.T) {
	h, repo := newScheduleHandlerFixture()

	w := performJSON(t, h.Create, http.MethodPost, "/schedules", models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Lunes",
		StartTime: "10:00",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.blocks, 1)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)

	var block models.ScheduleBlock
	require.NoError(t, json.Unmarshal(data, &block))
	assert.Equal(t, "blk-created", block.ID)
	assert.Equal(t, models.TimeOfDay{Hour: 11}, block.EndTime)
}

func TestScheduleHandlerCreateConflict(t *testing.T) {
	h, _ := newScheduleHandlerFixture(models.ScheduleBlock{
		ID:        "blk-1",
		CourseID:  "course-1",
		TeacherID: "teacher-2",
		SubjectID: "subject-1",
		Day:       models.Monday,
		StartTime: models.TimeOfDay{Hour: 10},
		EndTime:   models.TimeOfDay{Hour: 11},
	})

	w := performJSON(t, h.Create, http.MethodPost, "/schedules", models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Lunes",
		StartTime: "10:00",
	})

	require.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "COURSE_SLOT_OCCUPIED", envelope.Error.Code)
}

func TestScheduleHandlerCreateBlackout(t *testing.T) {
	h, _ := newScheduleHandlerFixture()

	w := performJSON(t, h.Create, http.MethodPost, "/schedules", models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Lunes",
		StartTime: "12:00",
	})

	require.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "BLACKOUT_CONFLICT", envelope.Error.Code)
}

func TestScheduleHandlerCreateMissingAvailability(t *testing.T) {
	h, _ := newScheduleHandlerFixture()

	w := performJSON(t, h.Create, http.MethodPost, "/schedules", models.ScheduleBlockRequest{
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		Day:       "Viernes",
		StartTime: "10:00",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestScheduleHandlerDeleteMissing(t *testing.T) {
	h, _ := newScheduleHandlerFixture()

	w := performJSON(t, h.Delete, http.MethodDelete, "/schedules/ghost", nil,
		gin.Param{Key: "id", Value: "ghost"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandlerListInvalidDayFilter(t *testing.T) {
	h, _ := newScheduleHandlerFixture()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/schedules?day=Sunday", nil)

	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
