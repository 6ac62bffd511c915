package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hospitalshuttle/shuttle-booking/db"
	"github.com/hospitalshuttle/shuttle-booking/models"
	"github.com/hospitalshuttle/shuttle-booking/services"
	"github.com/hospitalshuttle/shuttle-booking/utils"
)

func actor(c *fiber.Ctx) (uint, models.Role) {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(models.Role)
	return userID, role
}

// CreateAppointmentUser books a shuttle for the authenticated rider.
func CreateAppointmentUser(c *fiber.Ctx) error {
	targetID, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	actorID, role := actor(c)
	if role == models.RoleRegular && actorID != uint(targetID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You may only book for yourself",
		})
	}

	var input services.BookingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	appointment, err := services.CreateAppointmentUser(db.DB, uint(targetID), input)
	if err != nil {
		return utils.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"appointmentId": appointment.ID,
	})
}

// CreateAppointmentStaff books on behalf of another user.
func CreateAppointmentStaff(c *fiber.Ctx) error {
	type StaffBooking struct {
		services.BookingInput
		UserID uint `json:"userId"`
	}

	var input StaffBooking
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Target user id is required when booking on behalf of a rider",
		})
	}

	appointment, err := services.CreateAppointmentStaff(db.DB, input.UserID, input.BookingInput)
	if err != nil {
		return utils.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"appointmentId": appointment.ID,
	})
}

// UpdateAppointment edits a booking under the role/ownership/state rules.
func UpdateAppointment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment id",
		})
	}

	var input services.BookingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	actorID, role := actor(c)
	if err := services.EditAppointment(db.DB, role, actorID, uint(id), input, cfg.StaffEditAnyStatus); err != nil {
		return utils.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Booking updated",
	})
}

// UpdateAppointmentStatus moves a booking along the lifecycle (admin only)
// and fires a best-effort LINE notification keyed by the target status.
func UpdateAppointmentStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment id",
		})
	}

	type StatusInput struct {
		Status models.AppointmentStatus `json:"status"`
	}
	input := new(StatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	_, role := actor(c)
	appointment, err := services.TransitionStatus(db.DB, role, uint(id), input.Status)
	if err != nil {
		return utils.Fail(c, err)
	}

	// Notification failure never fails the transition; the status change has
	// already committed.
	if appointment.UserID != nil {
		var kind models.NotificationKind
		switch appointment.Status {
		case models.StatusApproved:
			kind = models.NotificationApproved
		case models.StatusCancelled:
			kind = models.NotificationCancelled
		}
		if kind != "" {
			line.SendAppointmentNotification(db.DB, *appointment.UserID, appointment.ID, kind)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Status updated",
	})
}

// DeleteAppointment removes a pending booking.
func DeleteAppointment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment id",
		})
	}

	actorID, role := actor(c)

	var a models.Appointment
	res := db.DB.Limit(1).Find(&a, uint(id))
	if res.Error == nil && res.RowsAffected > 0 {
		if role == models.RoleRegular && !a.OwnedBy(actorID) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "You may only delete your own bookings",
			})
		}
	}

	if err := services.DeleteAppointment(db.DB, uint(id)); err != nil {
		return utils.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Booking deleted",
	})
}

// GetAppointments lists bookings with pagination and status/search filters.
// Regular users see only their own rows.
func GetAppointments(c *fiber.Ctx) error {
	actorID, role := actor(c)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	status := c.Query("status")
	search := c.Query("search")

	query := db.DB.Model(&models.Appointment{})
	if role == models.RoleRegular {
		query = query.Where("user_id = ?", actorID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR phone LIKE ? OR hospital LIKE ?",
			pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to count appointments",
			Error:   err.Error(),
		})
	}

	var appointments []models.Appointment
	if err := query.
		Order("appointment_date DESC, appointment_time DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"appointments": appointments,
		"total":        total,
		"totalPages":   (total + int64(limit) - 1) / int64(limit),
		"currentPage":  page,
		"limit":        limit,
	})
}

// GetUserAppointments lists bookings belonging to one user.
func GetUserAppointments(c *fiber.Ctx) error {
	targetID, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	actorID, role := actor(c)
	if role == models.RoleRegular && actorID != uint(targetID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You may only view your own bookings",
		})
	}

	var appointments []models.Appointment
	if err := db.DB.Where("user_id = ?", uint(targetID)).
		Order("appointment_date DESC, appointment_time DESC").
		Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}

	return c.JSON(appointments)
}

// GetAppointment returns one booking, with coordinates redacted for viewers
// that may not see them.
func GetAppointment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment id",
		})
	}

	var a models.Appointment
	res := db.DB.Limit(1).Find(&a, uint(id))
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointment",
			Error:   res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Appointment not found",
		})
	}

	actorID, role := actor(c)
	if role == models.RoleRegular && !a.OwnedBy(actorID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You may only view your own bookings",
		})
	}
	if !models.CanViewLocation(role, actorID, &a) {
		a.Latitude = nil
		a.Longitude = nil
	}

	return c.JSON(a)
}
