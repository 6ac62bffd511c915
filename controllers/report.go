package controllers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hospitalshuttle/shuttle-booking/db"
	"github.com/hospitalshuttle/shuttle-booking/models"
	"github.com/jung-kurt/gofpdf"
)

func periodCutoff(period string) (string, time.Time) {
	now := time.Now()
	switch period {
	case "day":
		return period, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		return period, now.AddDate(0, 0, -7)
	case "year":
		return period, now.AddDate(-1, 0, 0)
	default:
		return "month", now.AddDate(0, -1, 0)
	}
}

type appointmentStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Cancelled int64 `json:"cancelled"`
}

type userStats struct {
	Total   int64 `json:"total"`
	Regular int64 `json:"regular_users"`
	Staff   int64 `json:"staff_users"`
	Admin   int64 `json:"admin_users"`
}

func collectAppointmentStats(cutoff time.Time) (appointmentStats, error) {
	var stats appointmentStats
	if err := db.DB.Model(&models.Appointment{}).
		Where("created_at >= ?", cutoff).
		Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	for status, dst := range map[models.AppointmentStatus]*int64{
		models.StatusPending:   &stats.Pending,
		models.StatusApproved:  &stats.Approved,
		models.StatusCancelled: &stats.Cancelled,
	} {
		if err := db.DB.Model(&models.Appointment{}).
			Where("created_at >= ? AND status = ?", cutoff, status).
			Count(dst).Error; err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func collectUserStats() (userStats, error) {
	var stats userStats
	if err := db.DB.Model(&models.User{}).
		Where("is_active = ?", true).
		Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	for role, dst := range map[models.Role]*int64{
		models.RoleRegular: &stats.Regular,
		models.RoleStaff:   &stats.Staff,
		models.RoleAdmin:   &stats.Admin,
	} {
		if err := db.DB.Model(&models.User{}).
			Where("is_active = ? AND role_id = ?", true, role).
			Count(dst).Error; err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// GetStatistics summarizes bookings and users for the admin dashboard.
func GetStatistics(c *fiber.Ctx) error {
	period, cutoff := periodCutoff(c.Query("period", "month"))

	aStats, err := collectAppointmentStats(cutoff)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to collect statistics",
		})
	}
	uStats, err := collectUserStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to collect statistics",
		})
	}

	// Weekday distribution, bucketed in Go so the query stays portable.
	var dates []time.Time
	if err := db.DB.Model(&models.Appointment{}).
		Where("created_at >= ?", cutoff).
		Pluck("appointment_date", &dates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to collect statistics",
		})
	}
	weekly := make([]fiber.Map, 0, 7)
	counts := map[time.Weekday]int{}
	for _, d := range dates {
		counts[d.Weekday()]++
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		if counts[day] > 0 {
			weekly = append(weekly, fiber.Map{"day_name": day.String(), "count": counts[day]})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"period":             period,
			"appointments":       aStats,
			"users":              uStats,
			"weeklyDistribution": weekly,
		},
	})
}

// GetPDFReport renders the statistics summary plus the most recent bookings
// as a downloadable PDF.
func GetPDFReport(c *fiber.Ctx) error {
	period, cutoff := periodCutoff(c.Query("period", "month"))

	aStats, err := collectAppointmentStats(cutoff)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to build report",
		})
	}
	uStats, err := collectUserStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to build report",
		})
	}

	var recent []models.Appointment
	if err := db.DB.Where("created_at >= ?", cutoff).
		Order("created_at DESC").Limit(20).
		Find(&recent).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to build report",
		})
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Hospital Shuttle Booking Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", period))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Bookings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range []string{
		fmt.Sprintf("Total: %d", aStats.Total),
		fmt.Sprintf("Pending: %d", aStats.Pending),
		fmt.Sprintf("Approved: %d", aStats.Approved),
		fmt.Sprintf("Cancelled: %d", aStats.Cancelled),
	} {
		pdf.Cell(0, 6, "  - "+row)
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Users")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range []string{
		fmt.Sprintf("Total active: %d", uStats.Total),
		fmt.Sprintf("Riders: %d", uStats.Regular),
		fmt.Sprintf("Staff: %d", uStats.Staff),
		fmt.Sprintf("Admins: %d", uStats.Admin),
	} {
		pdf.Cell(0, 6, "  - "+row)
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Recent bookings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	for _, a := range recent {
		row := fmt.Sprintf("#%d  %s %s  %s  %s %s  [%s]",
			a.ID, a.FirstName, a.LastName, a.Hospital,
			a.AppointmentDate.Format("2006-01-02"), a.AppointmentTime, a.Status)
		pdf.Cell(0, 5, row)
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to render PDF",
		})
	}

	fileName := fmt.Sprintf("report_%s_%s.pdf", period, time.Now().Format("2006-01-02"))
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, fileName))
	return c.Send(buf.Bytes())
}
