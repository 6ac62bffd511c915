package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/hospitalshuttle/shuttle-booking/config"
	"github.com/hospitalshuttle/shuttle-booking/controllers"
	"github.com/hospitalshuttle/shuttle-booking/cron"
	"github.com/hospitalshuttle/shuttle-booking/db"
	"github.com/hospitalshuttle/shuttle-booking/redis"
	"github.com/hospitalshuttle/shuttle-booking/routes"
	"github.com/hospitalshuttle/shuttle-booking/services"
)

func main() {
	cfg := config.Load()

	db.Init(cfg.DatabaseURL)
	db.Migrate()
	redis.Init(cfg.RedisAddr)

	controllers.Setup(cfg, services.NewLineService(cfg))

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hospital Shuttle Booking API")
	})

	routes.SetupHealthRoutes(app)
	routes.SetupAuthRoutes(app, cfg)
	routes.SetupAppointmentRoutes(app, cfg)
	routes.SetupUserRoutes(app, cfg)
	routes.SetupLineRoutes(app, cfg)
	routes.SetupLocationRoutes(app)
	routes.SetupReportRoutes(app, cfg)

	cron.StartCronJobs()

	log.Printf("Server listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
