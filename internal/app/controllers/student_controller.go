package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/consultdesk/internal/app/models/dto"
	"github.com/yigit/consultdesk/internal/app/services"
	"github.com/yigit/consultdesk/internal/middleware"
)

// StudentController handles student profile operations
type StudentController struct {
	studentService *services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

// CreateRecord stores the caller's student profile
// @Summary Create student record
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Profile"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Missing fields or rejected insert"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Server configuration error"
// @Router /students [post]
func (c *StudentController) CreateRecord(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.studentService.CreateRecord(ctx.Request.Context(), middleware.CallerFrom(ctx), req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.SuccessResponse{Success: true})
}

// Dashboard returns the caller's profile and consultations
// @Summary Dashboard
// @Tags students
// @Produce json
// @Success 200 {object} dto.ActionResult[dto.DashboardResponse]
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /dashboard [get]
func (c *StudentController) Dashboard(ctx *gin.Context) {
	result := c.studentService.Dashboard(ctx.Request.Context(), middleware.CallerFrom(ctx))
	middleware.RespondAction(ctx, result)
}
