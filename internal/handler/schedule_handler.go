package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/martinstiben/SGH-portal/internal/models"
	"github.com/martinstiben/SGH-portal/internal/service"
	appErrors "github.com/martinstiben/SGH-portal/pkg/errors"
	"github.com/martinstiben/SGH-portal/pkg/response"
)

// ScheduleHandler manages class block endpoints.
type ScheduleHandler struct {
	schedules *service.ScheduleService
	grids     *service.GridService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(schedules *service.ScheduleService, grids *service.GridService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, grids: grids}
}

// List godoc
// @Summary List class blocks
// @Tags Schedules
// @Produce json
// @Param courseId query string false "Filter by course"
// @Param teacherId query string false "Filter by teacher"
// @Param day query string false "Filter by day (Spanish name)"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	var filter models.ScheduleFilter
	filter.CourseID = c.Query("courseId")
	filter.TeacherID = c.Query("teacherId")
	if raw := c.Query("day"); raw != "" {
		day, err := models.ParseWeekday(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid day filter"))
			return
		}
		filter.Day = &day
	}

	blocks, err := h.schedules.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blocks, nil)
}

// ListByCourse godoc
// @Summary List class blocks for one course
// @Tags Schedules
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/by-course/{id} [get]
func (h *ScheduleHandler) ListByCourse(c *gin.Context) {
	blocks, err := h.schedules.ListByCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blocks, nil)
}

// ListByTeacher godoc
// @Summary List class blocks for one teacher
// @Tags Schedules
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/by-teacher/{id} [get]
func (h *ScheduleHandler) ListByTeacher(c *gin.Context) {
	blocks, err := h.schedules.ListByTeacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blocks, nil)
}

// Create godoc
// @Summary Place a class block
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body models.ScheduleBlockRequest true "Candidate block"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req models.ScheduleBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	block, err := h.schedules.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, block)
}

// Update godoc
// @Summary Move or reassign a class block
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Block ID"
// @Param payload body models.ScheduleBlockRequest true "Replacement block"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req models.ScheduleBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	block, err := h.schedules.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, block, nil)
}

// Delete godoc
// @Summary Remove a class block
// @Tags Schedules
// @Param id path string true "Block ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CourseGrid godoc
// @Summary Weekly timetable grid for a course
// @Tags Schedules
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/grid/course/{id} [get]
func (h *ScheduleHandler) CourseGrid(c *gin.Context) {
	grid, err := h.grids.BuildCourseGrid(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// TeacherGrid godoc
// @Summary Weekly timetable grid for a teacher
// @Tags Schedules
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/grid/teacher/{id} [get]
func (h *ScheduleHandler) TeacherGrid(c *gin.Context) {
	grid, err := h.grids.BuildTeacherGrid(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}
