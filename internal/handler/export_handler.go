package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/martinstiben/SGH-portal/internal/service"
	"github.com/martinstiben/SGH-portal/pkg/response"
)

// ExportHandler serves timetable downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// CoursePDF godoc
// @Summary Download a course timetable as PDF
// @Tags Schedules
// @Produce application/pdf
// @Param id path string true "Course ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /schedules/pdf/course/{id} [get]
func (h *ExportHandler) CoursePDF(c *gin.Context) {
	h.serveCourse(c, service.ExportFormatPDF)
}

// CourseCSV godoc
// @Summary Download a course timetable as CSV
// @Tags Schedules
// @Produce text/csv
// @Param id path string true "Course ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /schedules/csv/course/{id} [get]
func (h *ExportHandler) CourseCSV(c *gin.Context) {
	h.serveCourse(c, service.ExportFormatCSV)
}

// TeacherPDF godoc
// @Summary Download a teacher timetable as PDF
// @Tags Schedules
// @Produce application/pdf
// @Param id path string true "Teacher ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /schedules/pdf/teacher/{id} [get]
func (h *ExportHandler) TeacherPDF(c *gin.Context) {
	h.serveTeacher(c, service.ExportFormatPDF)
}

// TeacherCSV godoc
// @Summary Download a teacher timetable as CSV
// @Tags Schedules
// @Produce text/csv
// @Param id path string true "Teacher ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /schedules/csv/teacher/{id} [get]
func (h *ExportHandler) TeacherCSV(c *gin.Context) {
	h.serveTeacher(c, service.ExportFormatCSV)
}

func (h *ExportHandler) serveCourse(c *gin.Context, format string) {
	file, err := h.service.CourseTimetable(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Name, file.ContentType, file.Data)
}

func (h *ExportHandler) serveTeacher(c *gin.Context, format string) {
	file, err := h.service.TeacherTimetable(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Name, file.ContentType, file.Data)
}
