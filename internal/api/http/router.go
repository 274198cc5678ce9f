package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clientauth/client-auth/internal/api/http/handlers"
	"github.com/clientauth/client-auth/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Clients        *handlers.ClientsHandler
	Tokens         *handlers.TokenHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/clients/register", cfg.Clients.Register)
	authGroup.Post("/token", cfg.Tokens.Issue)
	authGroup.Post("/token/refresh", cfg.Tokens.Refresh)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAnyAuthority(), cfg.Clients.Me)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAuthority(auth.RoleAdmin))
	admin.Get("/clients/:clientId", cfg.Clients.Get)
	admin.Patch("/clients/:clientId/status", cfg.Clients.SetStatus)
	admin.Patch("/clients/:clientId/authority", cfg.Clients.SetAuthority)
}
