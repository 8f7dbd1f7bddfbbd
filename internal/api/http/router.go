package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-service/internal/api/http/handlers"
	"github.com/spec-kit/clinic-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Clinics        *handlers.ClinicsHandler
	Patients       *handlers.PatientsHandler
	Examinations   *handlers.ExaminationsHandler
	Reports        *handlers.ReportsHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
	Policy         *auth.Policy
	RateLimiter    *RateLimiter
}

// RegisterRoutes wires HTTP routes. Every /api route below the auth group
// runs authentication first and the role policy second, so a missing token
// is always a 401 and an insufficient role always a 403.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", cfg.RateLimiter.General)

	authGroup := api.Group("/auth", cfg.RateLimiter.Auth)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.Gate(cfg.Policy))
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Post("/refresh", cfg.Auth.Refresh)
	authProtected.Put("/profile", cfg.Auth.UpdateProfile)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.Gate(cfg.Policy))

	clinics := protected.Group("/clinics")
	clinics.Get("/", cfg.Clinics.List)
	clinics.Post("/", cfg.Clinics.Create)
	clinics.Get("/:id", cfg.Clinics.Get)
	clinics.Put("/:id", cfg.Clinics.Update)
	clinics.Delete("/:id", cfg.Clinics.Delete)

	patients := protected.Group("/patients")
	patients.Get("/", cfg.Patients.List)
	patients.Post("/", cfg.Patients.Create)
	patients.Get("/:id", cfg.Patients.Get)
	patients.Put("/:id", cfg.Patients.Update)
	patients.Delete("/:id", cfg.Patients.Delete)
	patients.Put("/:id/health-profile", cfg.Patients.UpdateHealthProfile)
	patients.Get("/:id/examinations", cfg.Patients.ListExaminations)
	patients.Get("/:id/stats", cfg.Patients.Stats)

	exams := protected.Group("/examinations")
	exams.Get("/", cfg.Examinations.List)
	exams.Post("/", cfg.Examinations.Create)
	exams.Get("/:id", cfg.Examinations.Get)
	exams.Put("/:id", cfg.Examinations.Update)
	exams.Post("/:id/ai-analysis", cfg.Examinations.RequestAnalysis)
	exams.Get("/:id/ai-analyses", cfg.Examinations.ListAnalyses)
	exams.Post("/:id/generate-report", cfg.Examinations.GenerateReport)

	reports := protected.Group("/reports")
	reports.Get("/", cfg.Reports.List)
	reports.Get("/:id", cfg.Reports.Get)
	reports.Get("/:id/download", cfg.Reports.Download)
	reports.Post("/:id/finalize", cfg.Reports.Finalize)

	stats := protected.Group("/stats")
	stats.Get("/overview", cfg.Stats.Overview)
	stats.Get("/reports", cfg.Stats.Reports)
	stats.Get("/clinics", cfg.Stats.Clinics)
}
