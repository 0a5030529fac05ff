package bootstrap

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appBackend "github.com/yigit/consultdesk/internal/app/backend"
	appControllers "github.com/yigit/consultdesk/internal/app/controllers"
	appRoutes "github.com/yigit/consultdesk/internal/app/routes"
	appServices "github.com/yigit/consultdesk/internal/app/services"
	"github.com/yigit/consultdesk/internal/config"
	appMiddleware "github.com/yigit/consultdesk/internal/middleware"
	"github.com/yigit/consultdesk/internal/pkg/logger"
	"github.com/yigit/consultdesk/internal/pkg/validation"
)

// MetricsNamespace prefixes every exported metric
const MetricsNamespace = "consultdesk"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Backend                appServices.Backend
	AuthService            *appServices.AuthService
	StudentService         *appServices.StudentService
	ConsultationService    *appServices.ConsultationService
	AuthController         *appControllers.AuthController
	StudentController      *appControllers.StudentController
	ConsultationController *appControllers.ConsultationController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	RateLimiter            *appMiddleware.RateLimiter
	Metrics                *appMiddleware.Metrics
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().
		Str("logLevel", string(logLevel)).
		Str("logFormat", cfg.Logging.Format).
		Str("backend", cfg.Backend.Driver).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupBackend opens the configured external data service
func SetupBackend(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appServices.Backend, error) {
	lgr.Info().Str("driver", cfg.Backend.Driver).Msg("Opening backend...")
	b, err := appBackend.New(ctx, cfg, lgr.With().Str("component", "backend").Logger())
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to open backend")
		return nil, err
	}
	lgr.Info().Msg("Backend ready.")
	return b, nil
}

// BuildDependencies initializes services, controllers and middleware on top of b.
func BuildDependencies(cfg *config.Config, b appServices.Backend, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Backend: b, Logger: lgr}
	v := validation.New(validation.WithLocation(cfg.Location()))

	deps.AuthService = appServices.NewAuthService(b, b, v, lgr.With().Str("component", "auth").Logger())
	deps.StudentService = appServices.NewStudentService(b, b, lgr.With().Str("component", "students").Logger())
	deps.ConsultationService = appServices.NewConsultationService(b, v, lgr.With().Str("component", "consultations").Logger())

	secureCookie := strings.ToLower(cfg.Server.Mode) == "production"
	deps.AuthController = appControllers.NewAuthController(deps.AuthService, secureCookie, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, lgr)
	deps.ConsultationController = appControllers.NewConsultationController(deps.ConsultationService, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)
	deps.RateLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, lgr)
	deps.Metrics = appMiddleware.NewMetrics(MetricsNamespace)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr),
		deps.Metrics.Handler(),
		appMiddleware.CORS(cfg.AllowedOrigins()),
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
	router.GET("/health", healthHandler(deps.Backend))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Expose()))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.ConsultationController,
		deps.AuthMiddleware,
		deps.RateLimiter,
	)

	return router
}

func healthHandler(b appServices.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := b.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
