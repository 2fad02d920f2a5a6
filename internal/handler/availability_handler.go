package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/martinstiben/SGH-portal/internal/models"
	"github.com/martinstiben/SGH-portal/internal/service"
	appErrors "github.com/martinstiben/SGH-portal/pkg/errors"
	"github.com/martinstiben/SGH-portal/pkg/response"
)

// AvailabilityHandler manages teacher availability endpoints.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// ListByTeacher godoc
// @Summary List a teacher's availability windows
// @Tags Availability
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /availability/by-teacher/{id} [get]
func (h *AvailabilityHandler) ListByTeacher(c *gin.Context) {
	windows, err := h.service.ListByTeacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, windows, nil)
}

// Register godoc
// @Summary Declare availability for one day
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body models.AvailabilityRequest true "Availability window"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /availability/register [post]
func (h *AvailabilityHandler) Register(c *gin.Context) {
	var req models.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	window, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, window)
}

// Update godoc
// @Summary Replace availability for one day
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body models.AvailabilityRequest true "Availability window"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /availability/update [put]
func (h *AvailabilityHandler) Update(c *gin.Context) {
	var req models.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	// Register is an upsert keyed by (teacher, day); update goes
	// through the same path.
	window, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, window, nil)
}

// Delete godoc
// @Summary Remove availability for one day
// @Tags Availability
// @Param teacherId path string true "Teacher ID"
// @Param day path string true "Day (Spanish name)"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /availability/delete/{teacherId}/{day} [delete]
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("teacherId"), c.Param("day")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
