package cron

import (
	"log"

	"github.com/hospitalshuttle/shuttle-booking/db"
	"github.com/hospitalshuttle/shuttle-booking/services"
	"github.com/robfig/cron/v3"
)

// StartCronJobs initializes and starts the background scheduler.
func StartCronJobs() {
	c := cron.New()
	// Sweep expired OTP rows every 5 minutes
	_, err := c.AddFunc("*/5 * * * *", cleanupExpiredOTPs)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron scheduler started for OTP cleanup")
}

func cleanupExpiredOTPs() {
	removed, err := services.CleanupExpiredOTPs(db.DB)
	if err != nil {
		log.Printf("OTP cleanup failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("OTP cleanup removed %d expired codes", removed)
	}
}
