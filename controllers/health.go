package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hospitalshuttle/shuttle-booking/db"
)

// Health is the liveness probe. No database calls so it never blocks.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":   true,
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"message":   "Server is running",
	})
}

// HealthDetailed also pings the database.
func HealthDetailed(c *fiber.Ctx) error {
	sqlDB, err := db.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success":   false,
			"status":    "unhealthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"error":     err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": fiber.Map{
			"database": "connected",
			"api":      "running",
		},
	})
}

// HealthEmail reports whether SMTP delivery is configured.
func HealthEmail(c *fiber.Ctx) error {
	if cfg.SMTPHost == "" || cfg.EmailUser == "" {
		return c.JSON(fiber.Map{
			"success": false,
			"status":  "not_configured",
			"message": "SMTP is not configured",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"status":  "configured",
		"message": "SMTP is configured",
	})
}
