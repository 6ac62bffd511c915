package models

import (
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to next. Approved and
// cancelled are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	return s == StatusPending && (next == StatusApproved || next == StatusCancelled)
}

// Appointment is a shuttle booking. UserID is the rider the booking belongs
// to, which may differ from whoever entered it when staff books on a rider's
// behalf.
type Appointment struct {
	ID              uint              `json:"id" gorm:"primaryKey"`
	UserID          *uint             `json:"user_id" gorm:"index"`
	User            User              `json:"user,omitempty" gorm:"foreignKey:UserID"`
	FirstName       string            `json:"first_name"`
	LastName        string            `json:"last_name"`
	Phone           string            `json:"phone"`
	Province        string            `json:"province"`
	District        string            `json:"district"`
	Subdistrict     string            `json:"subdistrict"`
	Hospital        string            `json:"hospital"`
	AppointmentDate time.Time         `json:"appointment_date" gorm:"type:date"`
	AppointmentTime string            `json:"appointment_time"`
	Latitude        *float64          `json:"latitude"`
	Longitude       *float64          `json:"longitude"`
	Status          AppointmentStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

func (a *Appointment) OwnedBy(userID uint) bool {
	return a.UserID != nil && *a.UserID == userID
}

// CanEdit reports whether the actor may edit the appointment. Regular users
// may edit only their own pending bookings. Staff and admin edit any booking,
// restricted to pending unless staffAnyStatus is set. These predicates must
// stay in lockstep with the checks in services.EditAppointment.
func CanEdit(role Role, userID uint, a *Appointment, staffAnyStatus bool) bool {
	switch role {
	case RoleRegular:
		return a.OwnedBy(userID) && a.Status == StatusPending
	case RoleStaff, RoleAdmin:
		return staffAnyStatus || a.Status == StatusPending
	}
	return false
}

// CanViewLocation reports whether the actor may see the booking's GPS
// coordinates. Only the owning rider, staff and admin may.
func CanViewLocation(role Role, userID uint, a *Appointment) bool {
	if role == RoleStaff || role == RoleAdmin {
		return true
	}
	return role == RoleRegular && a.OwnedBy(userID)
}

// CanUpdateStatus reports whether the actor may change appointment status.
func CanUpdateStatus(role Role) bool {
	return role == RoleAdmin
}

// CanDelete reports whether the booking may be removed at all; deletion is
// permitted only while pending, and only by the owner or staff/admin.
func CanDelete(role Role, userID uint, a *Appointment) bool {
	if a.Status != StatusPending {
		return false
	}
	if role == RoleStaff || role == RoleAdmin {
		return true
	}
	return a.OwnedBy(userID)
}
