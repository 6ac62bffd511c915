package models

import (
	"time"
)

type User struct {
	ID              uint             `json:"id" gorm:"primaryKey"`
	Name            string           `json:"name"`
	Email           string           `json:"email" gorm:"uniqueIndex"`
	Password        string           `json:"password,omitempty"`
	RoleID          Role             `json:"role_id"`
	IsActive        bool             `json:"is_active"`
	Appointments    []Appointment    `json:"appointments,omitempty" gorm:"foreignKey:UserID"`
	LineConnections []LineConnection `json:"line_connections,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
