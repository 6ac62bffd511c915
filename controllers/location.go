package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hospitalshuttle/shuttle-booking/db"
	"github.com/hospitalshuttle/shuttle-booking/models"
)

// Location values are free text on appointment rows; lookups return the
// distinct values already in use.

func distinctColumn(c *fiber.Ctx, column string, where string, args ...interface{}) error {
	var values []string
	query := db.DB.Model(&models.Appointment{}).Distinct(column).Order(column)
	if where != "" {
		query = query.Where(where, args...)
	}
	if err := query.Pluck(column, &values).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch locations",
		})
	}
	return c.JSON(values)
}

func GetProvinces(c *fiber.Ctx) error {
	return distinctColumn(c, "province", "")
}

func GetDistricts(c *fiber.Ctx) error {
	return distinctColumn(c, "district", "province = ?", c.Params("province"))
}

func GetSubdistricts(c *fiber.Ctx) error {
	return distinctColumn(c, "subdistrict", "district = ?", c.Params("district"))
}

func GetHospitals(c *fiber.Ctx) error {
	return distinctColumn(c, "hospital", "")
}
