package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hospitalshuttle/shuttle-booking/models"
	"github.com/hospitalshuttle/shuttle-booking/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// registrationPayload is what an OTP row carries until verification
// materializes the user. Password is already bcrypt-hashed.
type registrationPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IssueRegistrationOTP creates (or reuses) a registration code for the email.
// No user row is created yet; the pending registration travels inside the OTP
// row. When a still-valid code exists for the email it is returned unchanged
// so a code already delivered to the user is never silently invalidated.
func IssueRegistrationOTP(dbc *gorm.DB, ttl time.Duration, name, email, password string) (otp *models.EmailOTP, reused bool, err error) {
	if name == "" || email == "" || password == "" {
		return nil, false, fmt.Errorf("%w: name, email and password are required", utils.ErrValidation)
	}

	err = dbc.Transaction(func(tx *gorm.DB) error {
		var existingUser models.User
		if tx.Where("email = ?", email).First(&existingUser).RowsAffected > 0 {
			return fmt.Errorf("%w: email is already registered", utils.ErrConflict)
		}

		var existing models.EmailOTP
		res := tx.Where("email = ? AND type = ? AND is_used = ? AND expires_at > ?",
			email, models.OTPTypeRegister, false, time.Now()).
			Order("id DESC").Limit(1).Find(&existing)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			otp = &existing
			reused = true
			return nil
		}

		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			return hashErr
		}
		payload, marshalErr := json.Marshal(registrationPayload{
			Name:     name,
			Email:    email,
			Password: string(hashed),
		})
		if marshalErr != nil {
			return marshalErr
		}

		row := models.EmailOTP{
			Email:     email,
			Code:      utils.GenerateOTP(),
			Type:      models.OTPTypeRegister,
			UserData:  string(payload),
			ExpiresAt: time.Now().Add(ttl),
		}
		if createErr := tx.Create(&row).Error; createErr != nil {
			return createErr
		}
		otp = &row
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return otp, reused, nil
}

// VerifyRegistrationOTP consumes a code and materializes the user in the same
// transaction. The conditional update on is_used makes consumption
// single-shot: a concurrent or replayed verification finds zero rows updated
// and fails with ErrInvalidOrExpired.
func VerifyRegistrationOTP(dbc *gorm.DB, email, code string) (*models.User, error) {
	if email == "" || code == "" {
		return nil, fmt.Errorf("%w: email and otp are required", utils.ErrValidation)
	}

	var user models.User
	err := dbc.Transaction(func(tx *gorm.DB) error {
		var row models.EmailOTP
		res := tx.Where("email = ? AND otp = ? AND type = ? AND is_used = ? AND expires_at > ?",
			email, code, models.OTPTypeRegister, false, time.Now()).
			Limit(1).Find(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: otp is invalid or expired", utils.ErrInvalidOrExpired)
		}

		// Mark used first; zero rows affected means another request beat us.
		claim := tx.Model(&models.EmailOTP{}).
			Where("id = ? AND is_used = ?", row.ID, false).
			Update("is_used", true)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return fmt.Errorf("%w: otp is invalid or expired", utils.ErrInvalidOrExpired)
		}

		// The email may have been claimed since issuance.
		var existing models.User
		if tx.Where("email = ?", email).First(&existing).RowsAffected > 0 {
			return fmt.Errorf("%w: email is already registered", utils.ErrConflict)
		}

		var payload registrationPayload
		if unmarshalErr := json.Unmarshal([]byte(row.UserData), &payload); unmarshalErr != nil {
			return fmt.Errorf("corrupt registration payload: %w", unmarshalErr)
		}

		user = models.User{
			Name:     payload.Name,
			Email:    payload.Email,
			Password: payload.Password,
			RoleID:   models.RoleRegular,
			IsActive: true,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

// CleanupExpiredOTPs removes codes past their validity window. Rows inside
// the window are never touched, so the sweep is safe to run alongside
// issuance and verification.
func CleanupExpiredOTPs(dbc *gorm.DB) (int64, error) {
	res := dbc.Where("expires_at < ?", time.Now()).Delete(&models.EmailOTP{})
	return res.RowsAffected, res.Error
}
