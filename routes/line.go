package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hospitalshuttle/shuttle-booking/config"
	"github.com/hospitalshuttle/shuttle-booking/controllers"
	"github.com/hospitalshuttle/shuttle-booking/middleware"
)

// SetupLineRoutes configures LINE Login and Messaging endpoints. The callback
// and webhook stay public because LINE's servers call them directly.
func SetupLineRoutes(app *fiber.App, cfg *config.Config) {
	line := app.Group("/api/line")

	line.Get("/login-callback", controllers.LineLoginCallback)
	line.Post("/login-callback", controllers.LineLoginCallbackPost)
	line.Post("/webhook", controllers.LineWebhook)
	line.Get("/webhook", controllers.LineWebhookCheck)

	protected := line.Group("", middleware.Protected(cfg.JWTSecret))
	protected.Get("/login-url/:userId", controllers.GetLineLoginURL)
	protected.Get("/status/:userId", controllers.GetLineStatus)
	protected.Post("/disconnect/:userId", controllers.DisconnectLine)
	protected.Post("/test-message/:userId", controllers.SendTestMessage)
	protected.Get("/notifications/:userId", controllers.GetLineNotifications)
}
