// Package controllers handles HTTP request handling
package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/consultdesk/internal/app/models/dto"
	"github.com/yigit/consultdesk/internal/app/services"
	"github.com/yigit/consultdesk/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService  *services.AuthService
	secureCookie bool
	logger       zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, secureCookie bool, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:  authService,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// Login handles password sign-in
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.ActionResult[models.Session]
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result := c.authService.Login(ctx.Request.Context(), req)
	if result.Succeeded() {
		middleware.SetSessionCookie(ctx, result.Data, c.secureCookie)
	}
	middleware.RespondAction(ctx, result)
}

// Signup handles account and student profile creation
// @Summary Sign up
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Signup form"
// @Success 200 {object} dto.ActionResult[models.Session]
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result := c.authService.Signup(ctx.Request.Context(), req)
	if result.Succeeded() {
		// Projects with email confirmation enabled issue no session yet
		middleware.SetSessionCookie(ctx, result.Data, c.secureCookie)
	}
	middleware.RespondAction(ctx, result)
}

// Logout ends the session and clears the cookie
// @Summary Sign out
// @Tags auth
// @Produce json
// @Success 200 {object} dto.ActionResult[dto.Empty]
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	result := c.authService.Logout(ctx.Request.Context(), middleware.CallerFrom(ctx))
	middleware.ClearSessionCookie(ctx, c.secureCookie)
	middleware.RespondAction(ctx, result)
}
