package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/campus-qa/internal/adapters/http/handlers"
	"github.com/jsamuelsen/campus-qa/internal/adapters/http/middleware"
	"github.com/jsamuelsen/campus-qa/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests when RouterConfig sets none.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig wires handlers and middleware settings into the router.
type RouterConfig struct {
	Logger  *slog.Logger
	AppName string

	// AdminPasswordHash is the bcrypt hash checked by the admin routes.
	AdminPasswordHash string

	Health    *handlers.HealthHandler
	Questions *handlers.QuestionHandler
	Replies   *handlers.ReplyHandler
	Tags      *handlers.TagHandler
	Admin     *handlers.AdminHandler

	// Timeout is the deadline of each /api/v1 request. Zero disables it.
	Timeout time.Duration
}

// SetupRouter installs middleware and routes on engine. Middleware order:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing and HTTP metrics
//  5. Logging (skips /-/)
//
// Route groups:
//   - /-/ health, build info and metrics
//   - /api/v1 the content API; /api/v1/admin requires X-Admin-Password
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.AppName)...)
	engine.Use(middleware.Logging(cfg.Logger))

	if cfg.Health != nil {
		cfg.Health.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	setupAPIRoutes(apiV1, cfg)
}

func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Questions != nil {
		cfg.Questions.RegisterRoutes(rg)
	}

	if cfg.Replies != nil {
		cfg.Replies.RegisterRoutes(rg)
	}

	if cfg.Tags != nil {
		cfg.Tags.RegisterRoutes(rg)
	}

	if cfg.Admin != nil {
		admin := rg.Group("/admin")
		admin.Use(middleware.RequireAdmin(cfg.AdminPasswordHash))
		cfg.Admin.RegisterRoutes(admin)
	}
}

// SetupMinimalRouter installs only recovery, request ids and the health
// routes.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}
