package services

import (
	"testing"

	"github.com/hospitalshuttle/shuttle-booking/models"
	"github.com/hospitalshuttle/shuttle-booking/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func floatPtr(v float64) *float64 { return &v }

func validBooking() BookingInput {
	return BookingInput{
		FirstName:       "Somchai",
		LastName:        "Jaidee",
		Phone:           "0812345678",
		Province:        "Chiang Mai",
		District:        "Mueang",
		Subdistrict:     "Suthep",
		Hospital:        "Maharaj Nakorn Chiang Mai",
		AppointmentDate: "2026-09-15",
		AppointmentTime: "09:30",
		Latitude:        floatPtr(18.789),
		Longitude:       floatPtr(98.974),
	}
}

func seedBooking(t *testing.T, dbc *gorm.DB, userID uint, status models.AppointmentStatus) *models.Appointment {
	t.Helper()
	a, err := CreateAppointmentUser(dbc, userID, validBooking())
	require.NoError(t, err)
	if status != models.StatusPending {
		require.NoError(t, dbc.Model(a).Update("status", status).Error)
		a.Status = status
	}
	return a
}

func TestCreateAppointmentUser(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)

	a, err := CreateAppointmentUser(dbc, rider.ID, validBooking())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, a.Status)
	require.NotNil(t, a.UserID)
	assert.Equal(t, rider.ID, *a.UserID)
	require.NotNil(t, a.Latitude)
	assert.InDelta(t, 18.789, *a.Latitude, 0.001)
}

func TestCreateAppointmentStaffClearsCoordinates(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)

	a, err := CreateAppointmentStaff(dbc, rider.ID, validBooking())
	require.NoError(t, err)
	assert.Nil(t, a.Latitude)
	assert.Nil(t, a.Longitude)
	require.NotNil(t, a.UserID)
	assert.Equal(t, rider.ID, *a.UserID)
}

func TestCreateAppointmentStaffRequiresTarget(t *testing.T) {
	dbc := testDB(t)

	_, err := CreateAppointmentStaff(dbc, 0, validBooking())
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestBookingInputValidation(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)

	missing := validBooking()
	missing.Phone = ""
	_, err := CreateAppointmentUser(dbc, rider.ID, missing)
	assert.ErrorIs(t, err, utils.ErrValidation)

	badDate := validBooking()
	badDate.AppointmentDate = "15/09/2026"
	_, err = CreateAppointmentUser(dbc, rider.ID, badDate)
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestEditAppointmentOwnerPending(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)
	a := seedBooking(t, dbc, rider.ID, models.StatusPending)

	in := validBooking()
	in.Hospital = "Nakornping Hospital"
	require.NoError(t, EditAppointment(dbc, models.RoleRegular, rider.ID, a.ID, in, false))

	var got models.Appointment
	require.NoError(t, dbc.First(&got, a.ID).Error)
	assert.Equal(t, "Nakornping Hospital", got.Hospital)
}

func TestEditAppointmentNotOwner(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)
	other := seedUser(t, dbc, "other@example.com", models.RoleRegular)
	a := seedBooking(t, dbc, rider.ID, models.StatusPending)

	err := EditAppointment(dbc, models.RoleRegular, other.ID, a.ID, validBooking(), false)
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestEditAppointmentNotPending(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)
	a := seedBooking(t, dbc, rider.ID, models.StatusApproved)

	err := EditAppointment(dbc, models.RoleRegular, rider.ID, a.ID, validBooking(), false)
	assert.ErrorIs(t, err, utils.ErrInvalidState)

	// Staff hits the same wall unless the any-status override is on.
	err = EditAppointment(dbc, models.RoleStaff, 99, a.ID, validBooking(), false)
	assert.ErrorIs(t, err, utils.ErrInvalidState)

	require.NoError(t, EditAppointment(dbc, models.RoleStaff, 99, a.ID, validBooking(), true))
}

func TestEditAppointmentStaffClearsCoordinates(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)
	a := seedBooking(t, dbc, rider.ID, models.StatusPending)

	require.NoError(t, EditAppointment(dbc, models.RoleStaff, 99, a.ID, validBooking(), false))

	var got models.Appointment
	require.NoError(t, dbc.First(&got, a.ID).Error)
	assert.Nil(t, got.Latitude)
	assert.Nil(t, got.Longitude)
}

func TestEditAppointmentNotFound(t *testing.T) {
	dbc := testDB(t)

	err := EditAppointment(dbc, models.RoleAdmin, 1, 12345, validBooking(), false)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestTransitionStatus(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)
	a := seedBooking(t, dbc, rider.ID, models.StatusPending)

	got, err := TransitionStatus(dbc, models.RoleAdmin, a.ID, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)

	// Approved is terminal.
	_, err = TransitionStatus(dbc, models.RoleAdmin, a.ID, models.StatusCancelled)
	assert.ErrorIs(t, err, utils.ErrInvalidState)
}

func TestTransitionStatusAdminOnly(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)
	a := seedBooking(t, dbc, rider.ID, models.StatusPending)

	_, err := TransitionStatus(dbc, models.RoleStaff, a.ID, models.StatusApproved)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	_, err = TransitionStatus(dbc, models.RoleRegular, a.ID, models.StatusApproved)
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestTransitionStatusValidation(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)
	a := seedBooking(t, dbc, rider.ID, models.StatusPending)

	_, err := TransitionStatus(dbc, models.RoleAdmin, a.ID, "done")
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = TransitionStatus(dbc, models.RoleAdmin, 12345, models.StatusApproved)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestDeleteAppointment(t *testing.T) {
	dbc := testDB(t)
	rider := seedUser(t, dbc, "rider@example.com", models.RoleRegular)

	pending := seedBooking(t, dbc, rider.ID, models.StatusPending)
	require.NoError(t, DeleteAppointment(dbc, pending.ID))

	approved := seedBooking(t, dbc, rider.ID, models.StatusApproved)
	assert.ErrorIs(t, DeleteAppointment(dbc, approved.ID), utils.ErrInvalidState)

	assert.ErrorIs(t, DeleteAppointment(dbc, 12345), utils.ErrNotFound)
}
