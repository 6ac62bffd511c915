package services

import (
	"testing"
	"time"

	"github.com/hospitalshuttle/shuttle-booking/models"
	"github.com/hospitalshuttle/shuttle-booking/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestIssueAndVerifyRegistrationOTP(t *testing.T) {
	dbc := testDB(t)

	otp, reused, err := IssueRegistrationOTP(dbc, 15*time.Minute, "Somchai", "somchai@example.com", "secret123")
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Len(t, otp.Code, 6)

	// No user row exists until the code is verified.
	var userCount int64
	require.NoError(t, dbc.Model(&models.User{}).Count(&userCount).Error)
	assert.Zero(t, userCount)

	user, err := VerifyRegistrationOTP(dbc, "somchai@example.com", otp.Code)
	require.NoError(t, err)
	assert.Equal(t, "Somchai", user.Name)
	assert.Equal(t, models.RoleRegular, user.RoleID)
	assert.True(t, user.IsActive)
	assert.Empty(t, user.Password)

	// The stored hash must verify against the original password.
	var stored models.User
	require.NoError(t, dbc.Where("email = ?", "somchai@example.com").First(&stored).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestVerifyRegistrationOTPReplay(t *testing.T) {
	dbc := testDB(t)

	otp, _, err := IssueRegistrationOTP(dbc, 15*time.Minute, "Somchai", "somchai@example.com", "secret123")
	require.NoError(t, err)

	_, err = VerifyRegistrationOTP(dbc, "somchai@example.com", otp.Code)
	require.NoError(t, err)

	// The same code cannot be consumed twice.
	_, err = VerifyRegistrationOTP(dbc, "somchai@example.com", otp.Code)
	assert.ErrorIs(t, err, utils.ErrInvalidOrExpired)
}

func TestIssueRegistrationOTPReusesValidCode(t *testing.T) {
	dbc := testDB(t)

	first, reused, err := IssueRegistrationOTP(dbc, 15*time.Minute, "Somchai", "somchai@example.com", "secret123")
	require.NoError(t, err)
	require.False(t, reused)

	second, reused, err := IssueRegistrationOTP(dbc, 15*time.Minute, "Somchai", "somchai@example.com", "secret123")
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Code, second.Code)
}

func TestIssueRegistrationOTPEmailTaken(t *testing.T) {
	dbc := testDB(t)
	seedUser(t, dbc, "somchai@example.com", models.RoleRegular)

	_, _, err := IssueRegistrationOTP(dbc, 15*time.Minute, "Somchai", "somchai@example.com", "secret123")
	assert.ErrorIs(t, err, utils.ErrConflict)
}

func TestIssueRegistrationOTPMissingFields(t *testing.T) {
	dbc := testDB(t)

	_, _, err := IssueRegistrationOTP(dbc, 15*time.Minute, "", "somchai@example.com", "secret123")
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, _, err = IssueRegistrationOTP(dbc, 15*time.Minute, "Somchai", "", "secret123")
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestVerifyRegistrationOTPWrongCode(t *testing.T) {
	dbc := testDB(t)

	_, _, err := IssueRegistrationOTP(dbc, 15*time.Minute, "Somchai", "somchai@example.com", "secret123")
	require.NoError(t, err)

	_, err = VerifyRegistrationOTP(dbc, "somchai@example.com", "000000")
	assert.ErrorIs(t, err, utils.ErrInvalidOrExpired)
}

func TestVerifyRegistrationOTPExpired(t *testing.T) {
	dbc := testDB(t)

	otp, _, err := IssueRegistrationOTP(dbc, 15*time.Minute, "Somchai", "somchai@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, dbc.Model(&models.EmailOTP{}).
		Where("id = ?", otp.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err = VerifyRegistrationOTP(dbc, "somchai@example.com", otp.Code)
	assert.ErrorIs(t, err, utils.ErrInvalidOrExpired)
}

func TestVerifyRegistrationOTPEmailClaimedSinceIssue(t *testing.T) {
	dbc := testDB(t)

	otp, _, err := IssueRegistrationOTP(dbc, 15*time.Minute, "Somchai", "somchai@example.com", "secret123")
	require.NoError(t, err)

	// Another path (admin creation) claims the email before verification.
	seedUser(t, dbc, "somchai@example.com", models.RoleRegular)

	_, err = VerifyRegistrationOTP(dbc, "somchai@example.com", otp.Code)
	assert.ErrorIs(t, err, utils.ErrConflict)
}

func TestCleanupExpiredOTPs(t *testing.T) {
	dbc := testDB(t)

	rows := []models.EmailOTP{
		{Email: "a@example.com", Code: "111111", Type: models.OTPTypeRegister, ExpiresAt: time.Now().Add(-time.Hour)},
		{Email: "b@example.com", Code: "222222", Type: models.OTPTypeRegister, ExpiresAt: time.Now().Add(-time.Minute)},
		{Email: "c@example.com", Code: "333333", Type: models.OTPTypeRegister, ExpiresAt: time.Now().Add(10 * time.Minute)},
	}
	for i := range rows {
		require.NoError(t, dbc.Create(&rows[i]).Error)
	}

	removed, err := CleanupExpiredOTPs(dbc)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	var remaining int64
	require.NoError(t, dbc.Model(&models.EmailOTP{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}
