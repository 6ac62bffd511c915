package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{ErrValidation, fiber.StatusBadRequest},
		{ErrInvalidState, fiber.StatusBadRequest},
		{ErrConflict, fiber.StatusBadRequest},
		{ErrInvalidOrExpired, fiber.StatusBadRequest},
		{ErrNotFound, fiber.StatusNotFound},
		{ErrForbidden, fiber.StatusForbidden},
		{ErrUpstream, fiber.StatusBadGateway},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, StatusFor(tc.err), "%v", tc.err)
	}
}

func TestStatusForWrapped(t *testing.T) {
	err := fmt.Errorf("%w: email is already registered", ErrConflict)
	assert.Equal(t, fiber.StatusBadRequest, StatusFor(err))
}
