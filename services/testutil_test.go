package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/hospitalshuttle/shuttle-booking/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a throwaway in-memory database with the full schema. A single
// connection keeps every query on the same in-memory instance.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbc, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := dbc.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dbc.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.EmailOTP{},
		&models.LineConnection{},
		&models.LineNotification{},
	))
	return dbc
}

func seedUser(t *testing.T, dbc *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := models.User{
		Name:     "Test User",
		Email:    email,
		Password: "hashed",
		RoleID:   role,
		IsActive: true,
	}
	require.NoError(t, dbc.Create(&user).Error)
	return &user
}
