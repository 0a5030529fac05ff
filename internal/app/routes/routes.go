package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/consultdesk/internal/app/controllers"
	"github.com/yigit/consultdesk/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	consultationController *controllers.ConsultationController,
	authMiddleware *middleware.AuthMiddleware,
	authLimiter *middleware.RateLimiter,
) {
	// Every route sees the caller when a valid token is present
	router.Use(authMiddleware.ResolveCaller())

	// Student record endpoint keeps its plain HTTP contract
	router.POST("/api/students", authMiddleware.RequireCaller(), studentController.CreateRecord)

	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authLimiter.Handler(), authController.Login)
		auth.POST("/signup", authLimiter.Handler(), authController.Signup)
		auth.POST("/logout", authController.Logout)
	}

	// Action routes answer unauthenticated calls with a 401 action result
	v1.GET("/dashboard", studentController.Dashboard)

	consultations := v1.Group("/consultations")
	{
		consultations.POST("", consultationController.Create)
		consultations.PATCH("/:id/toggle", consultationController.Toggle)
	}
}
