package services

import (
	"fmt"
	"time"

	"github.com/hospitalshuttle/shuttle-booking/models"
	"github.com/hospitalshuttle/shuttle-booking/utils"
	"gorm.io/gorm"
)

// BookingInput carries the user-supplied booking fields. Dates arrive as
// YYYY-MM-DD strings; location names are free text.
type BookingInput struct {
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Phone           string   `json:"phone"`
	Province        string   `json:"province"`
	District        string   `json:"district"`
	Subdistrict     string   `json:"subdistrict"`
	Hospital        string   `json:"hospital"`
	AppointmentDate string   `json:"appointment_date"`
	AppointmentTime string   `json:"appointment_time"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

func (in *BookingInput) validate() (time.Time, error) {
	if in.FirstName == "" || in.Phone == "" || in.Hospital == "" ||
		in.AppointmentDate == "" || in.AppointmentTime == "" {
		return time.Time{}, fmt.Errorf("%w: name, phone, hospital, date and time are required", utils.ErrValidation)
	}
	date, err := time.Parse("2006-01-02", in.AppointmentDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: appointment_date must be YYYY-MM-DD", utils.ErrValidation)
	}
	return date, nil
}

func (in *BookingInput) toAppointment(userID uint, date time.Time) models.Appointment {
	uid := userID
	return models.Appointment{
		UserID:          &uid,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Phone:           in.Phone,
		Province:        in.Province,
		District:        in.District,
		Subdistrict:     in.Subdistrict,
		Hospital:        in.Hospital,
		AppointmentDate: date,
		AppointmentTime: in.AppointmentTime,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		Status:          models.StatusPending,
	}
}

// CreateAppointmentUser books a shuttle for the rider themselves.
func CreateAppointmentUser(dbc *gorm.DB, userID uint, in BookingInput) (*models.Appointment, error) {
	date, err := in.validate()
	if err != nil {
		return nil, err
	}
	a := in.toAppointment(userID, date)
	if err := dbc.Create(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAppointmentStaff books on behalf of targetUserID. Coordinates are not
// collected from staff-entered bookings; only the owning rider may record a
// precise location.
func CreateAppointmentStaff(dbc *gorm.DB, targetUserID uint, in BookingInput) (*models.Appointment, error) {
	if targetUserID == 0 {
		return nil, fmt.Errorf("%w: target user id is required", utils.ErrValidation)
	}
	date, err := in.validate()
	if err != nil {
		return nil, err
	}
	a := in.toAppointment(targetUserID, date)
	a.Latitude = nil
	a.Longitude = nil
	if err := dbc.Create(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// EditAppointment applies a full-field update under the role rules: regular
// users edit only their own pending bookings, staff/admin edit any booking
// (pending only unless staffAnyStatus) and staff writes always clear
// coordinates. The read-check-write runs in one transaction.
func EditAppointment(dbc *gorm.DB, role models.Role, actorID, appointmentID uint, in BookingInput, staffAnyStatus bool) error {
	date, err := in.validate()
	if err != nil {
		return err
	}

	return dbc.Transaction(func(tx *gorm.DB) error {
		var a models.Appointment
		res := tx.Limit(1).Find(&a, appointmentID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: appointment not found", utils.ErrNotFound)
		}

		switch role {
		case models.RoleRegular:
			if !a.OwnedBy(actorID) {
				return fmt.Errorf("%w: you may only edit your own bookings", utils.ErrForbidden)
			}
			if a.Status != models.StatusPending {
				return fmt.Errorf("%w: only pending bookings can be edited", utils.ErrInvalidState)
			}
		case models.RoleStaff, models.RoleAdmin:
			if !staffAnyStatus && a.Status != models.StatusPending {
				return fmt.Errorf("%w: only pending bookings can be edited", utils.ErrInvalidState)
			}
		default:
			return fmt.Errorf("%w: unknown role", utils.ErrForbidden)
		}

		lat, lng := in.Latitude, in.Longitude
		if role == models.RoleStaff {
			lat, lng = nil, nil
		}

		updates := map[string]interface{}{
			"first_name":       in.FirstName,
			"last_name":        in.LastName,
			"phone":            in.Phone,
			"province":         in.Province,
			"district":         in.District,
			"subdistrict":      in.Subdistrict,
			"hospital":         in.Hospital,
			"appointment_date": date,
			"appointment_time": in.AppointmentTime,
			"latitude":         lat,
			"longitude":        lng,
		}
		return tx.Model(&models.Appointment{}).Where("id = ?", a.ID).Updates(updates).Error
	})
}

// TransitionStatus moves a booking along the lifecycle. Admin only. The
// conditional update guards against a concurrent transition: pending is the
// sole state with outgoing edges, so updating "WHERE status = pending" either
// wins the race or affects zero rows.
func TransitionStatus(dbc *gorm.DB, role models.Role, appointmentID uint, newStatus models.AppointmentStatus) (*models.Appointment, error) {
	if !models.CanUpdateStatus(role) {
		return nil, fmt.Errorf("%w: only admin may change booking status", utils.ErrForbidden)
	}
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrValidation, newStatus)
	}

	var a models.Appointment
	err := dbc.Transaction(func(tx *gorm.DB) error {
		res := tx.Limit(1).Find(&a, appointmentID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: appointment not found", utils.ErrNotFound)
		}
		if !a.Status.CanTransitionTo(newStatus) {
			return fmt.Errorf("%w: cannot move %s booking to %s", utils.ErrInvalidState, a.Status, newStatus)
		}

		claim := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", a.ID, models.StatusPending).
			Update("status", newStatus)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return fmt.Errorf("%w: booking is no longer pending", utils.ErrInvalidState)
		}
		a.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteAppointment removes a booking, permitted only while pending.
func DeleteAppointment(dbc *gorm.DB, appointmentID uint) error {
	return dbc.Transaction(func(tx *gorm.DB) error {
		var a models.Appointment
		res := tx.Limit(1).Find(&a, appointmentID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: appointment not found", utils.ErrNotFound)
		}

		del := tx.Where("id = ? AND status = ?", a.ID, models.StatusPending).
			Delete(&models.Appointment{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			return fmt.Errorf("%w: only pending bookings can be deleted", utils.ErrInvalidState)
		}
		return nil
	})
}
