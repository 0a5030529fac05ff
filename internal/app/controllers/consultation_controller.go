package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/consultdesk/internal/app/models/dto"
	"github.com/yigit/consultdesk/internal/app/services"
	"github.com/yigit/consultdesk/internal/middleware"
)

// ConsultationController handles consultation bookings
type ConsultationController struct {
	consultationService *services.ConsultationService
	logger              zerolog.Logger
}

// NewConsultationController creates a new ConsultationController
func NewConsultationController(consultationService *services.ConsultationService, logger zerolog.Logger) *ConsultationController {
	return &ConsultationController{
		consultationService: consultationService,
		logger:              logger,
	}
}

// Create books a consultation for the caller
// @Summary Book a consultation
// @Tags consultations
// @Accept json
// @Produce json
// @Param request body dto.CreateConsultationRequest true "Booking form"
// @Success 200 {object} dto.ActionResult[models.Consultation]
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /consultations [post]
func (c *ConsultationController) Create(ctx *gin.Context) {
	var req dto.CreateConsultationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result := c.consultationService.Create(ctx.Request.Context(), middleware.CallerFrom(ctx), req)
	middleware.RespondAction(ctx, result)
}

// Toggle flips the completion flag of a consultation
// @Summary Toggle completion
// @Tags consultations
// @Accept json
// @Produce json
// @Param id path string true "Consultation ID"
// @Param request body dto.ToggleConsultationBody true "Current state"
// @Success 200 {object} dto.ActionResult[dto.Empty]
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /consultations/{id}/toggle [patch]
func (c *ConsultationController) Toggle(ctx *gin.Context) {
	var body dto.ToggleConsultationBody
	if !middleware.BindJSON(ctx, &body) {
		return
	}

	req := dto.ToggleConsultationRequest{
		ID:         ctx.Param("id"),
		IsComplete: body.IsComplete,
	}
	result := c.consultationService.Toggle(ctx.Request.Context(), middleware.CallerFrom(ctx), req)
	middleware.RespondAction(ctx, result)
}
