package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hospitalshuttle/shuttle-booking/config"
	"github.com/hospitalshuttle/shuttle-booking/controllers"
	"github.com/hospitalshuttle/shuttle-booking/middleware"
	"github.com/hospitalshuttle/shuttle-booking/models"
)

// SetupUserRoutes configures user listing, profile and admin management.
func SetupUserRoutes(app *fiber.App, cfg *config.Config) {
	users := app.Group("/api/users", middleware.Protected(cfg.JWTSecret))

	// Riders list for staff booking on behalf of a user
	users.Get("/", middleware.RequireRole(models.RoleStaff, models.RoleAdmin), controllers.GetUsers)

	profile := app.Group("/api/profile", middleware.Protected(cfg.JWTSecret))
	profile.Get("/:id", controllers.GetProfile)
	profile.Put("/:id", controllers.UpdateProfile)

	admin := app.Group("/api/admin/users",
		middleware.Protected(cfg.JWTSecret),
		middleware.RequireRole(models.RoleAdmin))
	admin.Get("/", controllers.GetAllUsers)
	admin.Post("/", controllers.CreateUser)
	admin.Put("/:id", controllers.UpdateUser)
	admin.Delete("/:id", controllers.DeleteUser)
}
