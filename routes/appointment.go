package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hospitalshuttle/shuttle-booking/config"
	"github.com/hospitalshuttle/shuttle-booking/controllers"
	"github.com/hospitalshuttle/shuttle-booking/middleware"
	"github.com/hospitalshuttle/shuttle-booking/models"
)

// SetupAppointmentRoutes configures all booking related routes.
func SetupAppointmentRoutes(app *fiber.App, cfg *config.Config) {
	appointment := app.Group("/api/appointments", middleware.Protected(cfg.JWTSecret))

	appointment.Get("/", controllers.GetAppointments)
	appointment.Get("/user/:userId", controllers.GetUserAppointments)
	appointment.Get("/:id", controllers.GetAppointment)

	appointment.Post("/user/:userId", controllers.CreateAppointmentUser)
	appointment.Post("/staff",
		middleware.RequireRole(models.RoleStaff, models.RoleAdmin),
		controllers.CreateAppointmentStaff)

	appointment.Put("/:id", controllers.UpdateAppointment)
	appointment.Delete("/:id", controllers.DeleteAppointment)

	admin := app.Group("/api/admin/appointments",
		middleware.Protected(cfg.JWTSecret),
		middleware.RequireRole(models.RoleAdmin))
	admin.Put("/:id/status", controllers.UpdateAppointmentStatus)
}
