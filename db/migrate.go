package db

import (
	"fmt"
	"log"

	"github.com/hospitalshuttle/shuttle-booking/models"
)

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.EmailOTP{},
		&models.LineConnection{},
		&models.LineNotification{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
