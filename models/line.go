package models

import "time"

// LineConnection links a user to a LINE account for push notifications.
// A user may hold several active connections at once.
type LineConnection struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"index"`
	LineUserID      string    `json:"line_user_id" gorm:"index"`
	LineDisplayName string    `json:"line_display_name"`
	LinePictureURL  string    `json:"line_picture_url"`
	AccessToken     string    `json:"-"`
	RefreshToken    string    `json:"-"`
	IsActive        bool      `json:"is_active"`
	ConnectedAt     time.Time `json:"connected_at"`
	LastUsedAt      time.Time `json:"last_used_at"`
}

func (LineConnection) TableName() string { return "user_line_connections" }

type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// NotificationKind names the booking event a notification announces.
type NotificationKind string

const (
	NotificationApproved  NotificationKind = "appointment_approved"
	NotificationRejected  NotificationKind = "appointment_rejected"
	NotificationCancelled NotificationKind = "appointment_cancelled"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationApproved, NotificationRejected, NotificationCancelled:
		return true
	}
	return false
}

// LineNotification is a delivery audit row, one per attempt per connection.
type LineNotification struct {
	ID               uint               `json:"id" gorm:"primaryKey"`
	UserID           uint               `json:"user_id" gorm:"index"`
	AppointmentID    uint               `json:"appointment_id"`
	NotificationType NotificationKind   `json:"notification_type"`
	Message          string             `json:"message"`
	Status           NotificationStatus `json:"status"`
	ErrorMessage     string             `json:"error_message,omitempty"`
	SentAt           time.Time          `json:"sent_at" gorm:"autoCreateTime"`
}

func (LineNotification) TableName() string { return "line_notifications" }
