package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campusprep-api/internal/config"
	"github.com/noah-isme/campusprep-api/internal/handler"
	"github.com/noah-isme/campusprep-api/internal/middleware"
	"github.com/noah-isme/campusprep-api/internal/models"
	"github.com/noah-isme/campusprep-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler      *handler.AuthHandler
	InterviewHandler *handler.InterviewHandler
	DashboardHandler *handler.DashboardHandler
	NoteHandler      *handler.NoteHandler
	HealthHandler    fiber.Handler
	JWTMiddleware    fiber.Handler
	AuthLimiter      fiber.Handler
	// UploadDir is served under /uploads when notes are stored on local disk.
	UploadDir string
}

// Register wires the HTTP routes into the fiber application. It panics when no JWT middleware
// is supplied so that protected routes are never mounted without authentication.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	if deps.JWTMiddleware == nil {
		panic("router: jwt middleware is required")
	}

	app.Get("/metrics", observability.MetricsHandler())

	if deps.UploadDir != "" {
		app.Static("/uploads", deps.UploadDir, fiber.Static{Browse: false})
	}

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	health := deps.HealthHandler
	if health == nil {
		health = handler.HealthCheck(cfg, "", nil)
	}
	api.Get("/health", health)

	jwtMiddleware := deps.JWTMiddleware
	limiter := deps.AuthLimiter
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"), limiter, jwtMiddleware)
	}

	if deps.InterviewHandler != nil {
		deps.InterviewHandler.Register(api.Group("/interviews", jwtMiddleware))
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("/dashboard", jwtMiddleware))
	}

	if deps.NoteHandler != nil {
		deps.NoteHandler.Register(api.Group("/notes", jwtMiddleware), middleware.RequireRole(models.RoleAdmin))
	}
}
