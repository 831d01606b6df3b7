package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/authgate/internal/api/http/handlers"
	"github.com/spec-kit/authgate/internal/auth"
	"github.com/spec-kit/authgate/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health           *handlers.HealthHandler
	Auth             *handlers.AuthHandler
	Pages            *handlers.PagesHandler
	Gate             *auth.Gate
	Metrics          *observability.Metrics
	AuthRateLimitMin int
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	limit := authRateLimiter(cfg.AuthRateLimitMin)
	loginPath := cfg.Gate.LoginPath()

	app.Get(loginPath, cfg.Auth.LoginPage)
	app.Post(loginPath, limit, cfg.Auth.Login)
	app.Get("/register", cfg.Auth.RegisterPage)
	app.Post("/register", limit, cfg.Auth.Register)
	app.Post("/signup", limit, cfg.Auth.Register)

	app.Get("/dashboard", cfg.Gate.Handle, cfg.Pages.Dashboard)
	app.Get("/profile", cfg.Gate.Handle, cfg.Pages.Profile)
}
