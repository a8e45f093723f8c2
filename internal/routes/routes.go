package routes

import (
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/config"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Health       *handlers.HealthHandler
	Reports      *handlers.ReportHandler
	Issues       *handlers.IssueHandler
	Admin        *handlers.AdminHandler
	RemoteConfig *handlers.RemoteConfigHandler
}

func Setup(app *fiber.App, cfg *config.Config, roles middleware.RoleChecker, h Handlers) {
	api := app.Group("/api")

	api.Get("/health", h.Health.Check)
	api.Get("/config", h.RemoteConfig.GetConfig)

	// Auth (public)
	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/password-reset", h.Auth.RequestPasswordReset)
	auth.Post("/password-reset/confirm", h.Auth.ConfirmPasswordReset)

	// JWT is applied per route so the public auth routes above stay open.
	jwt := middleware.JWTProtected(cfg)
	cleaner := middleware.CleanerRequired(roles)

	api.Post("/auth/logout", jwt, h.Auth.Logout)
	api.Get("/auth/me", jwt, h.Auth.Me)

	// Reports
	api.Post("/reports", jwt, h.Reports.Create)
	api.Get("/reports/mine", jwt, h.Reports.ListMine)
	api.Get("/reports/mine/stream", jwt, h.Reports.StreamMine)
	api.Get("/reports/stream", jwt, cleaner, h.Reports.StreamAll)
	api.Get("/reports", jwt, cleaner, h.Reports.ListAll)
	api.Get("/reports/:id", jwt, h.Reports.Get)
	// role is checked inside the service, then again by the write itself
	api.Patch("/reports/:id/status", jwt, h.Reports.UpdateStatus)

	// Photo issues
	api.Post("/issues", jwt, h.Issues.Create)
	api.Get("/issues/mine", jwt, h.Issues.ListMine)

	// Admin
	admin := api.Group("/admin", middleware.AdminJWT(cfg), middleware.AdminRequired(cfg))
	admin.Get("/users", h.Admin.ListUsers)
	admin.Put("/users/:id/role", h.Admin.SetRole)
	admin.Get("/reports/export", h.Admin.ExportReports)
	admin.Put("/config/:key", h.RemoteConfig.SetConfigKey)
	admin.Delete("/config/:key", h.RemoteConfig.DeleteConfigKey)
}
