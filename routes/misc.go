package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hospitalshuttle/shuttle-booking/config"
	"github.com/hospitalshuttle/shuttle-booking/controllers"
	"github.com/hospitalshuttle/shuttle-booking/middleware"
	"github.com/hospitalshuttle/shuttle-booking/models"
)

// SetupHealthRoutes configures the liveness and readiness probes.
func SetupHealthRoutes(app *fiber.App) {
	app.Get("/api/health", controllers.Health)
	app.Get("/api/health/detailed", controllers.HealthDetailed)
	app.Get("/api/health/email", controllers.HealthEmail)
}

// SetupLocationRoutes configures the location lookup endpoints used by the
// booking form dropdowns.
func SetupLocationRoutes(app *fiber.App) {
	locations := app.Group("/api/locations")
	locations.Get("/provinces", controllers.GetProvinces)
	locations.Get("/districts/:province", controllers.GetDistricts)
	locations.Get("/subdistricts/:district", controllers.GetSubdistricts)
	locations.Get("/hospitals", controllers.GetHospitals)
}

// SetupReportRoutes configures the admin statistics and PDF export.
func SetupReportRoutes(app *fiber.App, cfg *config.Config) {
	admin := app.Group("/api/admin",
		middleware.Protected(cfg.JWTSecret),
		middleware.RequireRole(models.RoleAdmin))
	admin.Get("/statistics", controllers.GetStatistics)
	admin.Get("/reports/pdf", controllers.GetPDFReport)
}
