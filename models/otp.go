package models

import "time"

type OTPType string

const (
	OTPTypeRegister OTPType = "register"
	OTPTypeReset    OTPType = "reset"
)

// EmailOTP is a one-time code bound to an email address. For registration the
// user row does not exist yet; the pending payload (name, email, bcrypt hash)
// is carried in UserData and materialized on successful verification.
type EmailOTP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"index"`
	Code      string    `json:"-" gorm:"column:otp"`
	Type      OTPType   `json:"type"`
	UserData  string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	IsUsed    bool      `json:"is_used"`
	CreatedAt time.Time `json:"created_at"`
}

func (EmailOTP) TableName() string { return "email_otps" }

// Redeemable reports whether the code is still consumable at the given time.
func (o *EmailOTP) Redeemable(now time.Time) bool {
	return !o.IsUsed && o.ExpiresAt.After(now)
}
