package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hospitalshuttle/shuttle-booking/config"
	"github.com/hospitalshuttle/shuttle-booking/models"
	"github.com/hospitalshuttle/shuttle-booking/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testLineService(url string) *LineService {
	svc := NewLineService(&config.Config{
		BaseURL:            "http://localhost:8000",
		LineLoginChannelID: "channel-id",
		LineMessagingToken: "messaging-token",
	})
	svc.AuthBase = url
	svc.APIBase = url
	return svc
}

func seedConnection(t *testing.T, dbc *gorm.DB, userID uint, lineUserID string, active bool) {
	t.Helper()
	require.NoError(t, dbc.Create(&models.LineConnection{
		UserID:      userID,
		LineUserID:  lineUserID,
		IsActive:    active,
		ConnectedAt: time.Now(),
		LastUsedAt:  time.Now(),
	}).Error)
}

func TestLoginStateRoundTrip(t *testing.T) {
	state := EncodeLoginState(42)

	decoded, err := DecodeLoginState(state)
	require.NoError(t, err)
	assert.Equal(t, uint(42), decoded.UserID)
	assert.NotZero(t, decoded.Timestamp)
}

func TestDecodeLoginStateMalformed(t *testing.T) {
	_, err := DecodeLoginState("not-base64!!")
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = DecodeLoginState("bm90IGpzb24=")
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestLoginURL(t *testing.T) {
	svc := testLineService("https://access.line.me")
	state := EncodeLoginState(7)

	url := svc.LoginURL(state)
	assert.Contains(t, url, "client_id=channel-id")
	assert.Contains(t, url, "response_type=code")
	assert.Contains(t, url, "scope=profile+openid")
}

func TestSendAppointmentNotificationMultiIdentity(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)
	a := seedBooking(t, dbc, rider.ID, models.StatusApproved)

	seedConnection(t, dbc, rider.ID, "U-one", true)
	seedConnection(t, dbc, rider.ID, "U-two", true)
	seedConnection(t, dbc, rider.ID, "U-stale", false)

	var pushes int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/bot/message/push", r.URL.Path)
		pushes++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := testLineService(srv.URL)
	delivered := svc.SendAppointmentNotification(dbc, rider.ID, a.ID, models.NotificationApproved)

	assert.Equal(t, 2, delivered)
	assert.Equal(t, 2, pushes)

	var audits []models.LineNotification
	require.NoError(t, dbc.Find(&audits).Error)
	require.Len(t, audits, 2)
	for _, audit := range audits {
		assert.Equal(t, models.NotificationSent, audit.Status)
		assert.Equal(t, models.NotificationApproved, audit.NotificationType)
		assert.Equal(t, a.ID, audit.AppointmentID)
	}
}

func TestSendAppointmentNotificationDeliveryFailure(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)
	a := seedBooking(t, dbc, rider.ID, models.StatusCancelled)
	seedConnection(t, dbc, rider.ID, "U-one", true)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := testLineService(srv.URL)
	delivered := svc.SendAppointmentNotification(dbc, rider.ID, a.ID, models.NotificationCancelled)
	assert.Zero(t, delivered)

	// The failed attempt is still recorded.
	var audit models.LineNotification
	require.NoError(t, dbc.First(&audit).Error)
	assert.Equal(t, models.NotificationFailed, audit.Status)
	assert.NotEmpty(t, audit.ErrorMessage)
}

func TestSendAppointmentNotificationNoConnections(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)
	a := seedBooking(t, dbc, rider.ID, models.StatusApproved)

	svc := testLineService("http://unreachable.invalid")
	delivered := svc.SendAppointmentNotification(dbc, rider.ID, a.ID, models.NotificationApproved)
	assert.Zero(t, delivered)

	var count int64
	require.NoError(t, dbc.Model(&models.LineNotification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSendAppointmentNotificationUnknownKind(t *testing.T) {
	dbc := testDB(t)
	svc := testLineService("http://unreachable.invalid")
	assert.Zero(t, svc.SendAppointmentNotification(dbc, 1, 1, "appointment_rescheduled"))
}

func TestSaveConnectionUpsert(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)
	svc := testLineService("http://unreachable.invalid")

	profile := &LineProfile{UserID: "U-one", DisplayName: "Somchai"}
	token := &TokenResponse{AccessToken: "at-1", RefreshToken: "rt-1"}
	require.NoError(t, svc.SaveConnection(dbc, rider.ID, profile, token))

	// Disconnect then relink the same identity: refresh the row, no duplicate.
	require.NoError(t, svc.Disconnect(dbc, rider.ID))

	profile.DisplayName = "Somchai J."
	token.AccessToken = "at-2"
	require.NoError(t, svc.SaveConnection(dbc, rider.ID, profile, token))

	var rows []models.LineConnection
	require.NoError(t, dbc.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "Somchai J.", rows[0].LineDisplayName)
	assert.Equal(t, "at-2", rows[0].AccessToken)
	assert.True(t, rows[0].IsActive)

	connections, err := svc.GetConnections(dbc, rider.ID)
	require.NoError(t, err)
	assert.Len(t, connections, 1)
}
