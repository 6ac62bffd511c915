package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hospitalshuttle/shuttle-booking/config"
	"github.com/hospitalshuttle/shuttle-booking/controllers"
	"github.com/hospitalshuttle/shuttle-booking/middleware"
)

// SetupAuthRoutes configures registration, OTP verification and login.
func SetupAuthRoutes(app *fiber.App, cfg *config.Config) {
	auth := app.Group("/api/auth")

	// Public routes, rate limited so OTP email cannot be used as a spam relay
	auth.Post("/register", middleware.RateLimit("register", 5, time.Minute), controllers.Register)
	auth.Post("/verify-otp", middleware.RateLimit("verify-otp", 10, time.Minute), controllers.VerifyOTP)
	auth.Post("/login", middleware.RateLimit("login", 10, time.Minute), controllers.Login)
	auth.Post("/refresh", controllers.RefreshToken)
}
