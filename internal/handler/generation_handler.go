package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/martinstiben/SGH-portal/internal/middleware"
	"github.com/martinstiben/SGH-portal/internal/models"
	"github.com/martinstiben/SGH-portal/internal/service"
	appErrors "github.com/martinstiben/SGH-portal/pkg/errors"
	"github.com/martinstiben/SGH-portal/pkg/response"
)

// GenerationHandler manages delegated bulk generation endpoints.
type GenerationHandler struct {
	service *service.GenerationService
}

// NewGenerationHandler constructs handler.
func NewGenerationHandler(svc *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{service: svc}
}

// Trigger godoc
// @Summary Queue a bulk generation run
// @Tags Generation
// @Accept json
// @Produce json
// @Param payload body models.GenerationRequest false "Run options"
// @Success 202 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *GenerationHandler) Trigger(c *gin.Context) {
	var req models.GenerationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
			return
		}
	}

	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	run, err := h.service.Trigger(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, run)
}

// History godoc
// @Summary List past generation runs
// @Tags Generation
// @Produce json
// @Param limit query int false "Max runs"
// @Success 200 {object} response.Envelope
// @Router /schedules/history [get]
func (h *GenerationHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.service.History(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, nil)
}
