package utils

import (
	"fmt"

	"github.com/hospitalshuttle/shuttle-booking/config"
	"github.com/hospitalshuttle/shuttle-booking/models"
	"gopkg.in/gomail.v2"
)

// SendOTPEmail delivers a one-time code over SMTP. Delivery failure does not
// invalidate the issued code; callers log and carry on.
func SendOTPEmail(cfg *config.Config, to, otp string, otpType models.OTPType, ttlMinutes int) error {
	subject := "Verify your email - Hospital Shuttle Booking"
	if otpType == models.OTPTypeReset {
		subject = "Password reset code - Hospital Shuttle Booking"
	}

	body := fmt.Sprintf(`
		<p>Your one-time verification code is:</p>
		<p style="font-size:28px;font-weight:bold;letter-spacing:6px">%s</p>
		<p>The code is valid for %d minutes. Do not share it with anyone.</p>
		<p>If you did not request this, please ignore this email.</p>
		<p>Hospital Shuttle Booking System</p>
	`, otp, ttlMinutes)

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.EmailUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)

	return d.DialAndSend(m)
}
