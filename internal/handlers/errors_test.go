package handlers

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/repository"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/services"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Invalid("location", "location is required"), fiber.StatusBadRequest},
		{"email taken", apperr.NewAuthError(services.ErrEmailTaken), fiber.StatusConflict},
		{"bad credentials", apperr.NewAuthError(services.ErrInvalidCredentials), fiber.StatusUnauthorized},
		{"weak password", apperr.NewAuthError(services.ErrWeakPassword), fiber.StatusBadRequest},
		{"forbidden", apperr.ErrForbidden, fiber.StatusForbidden},
		{"write refused", apperr.Persistence("update report status", apperr.ErrPermissionDenied), fiber.StatusForbidden},
		{"report missing", repository.ErrReportNotFound, fiber.StatusNotFound},
		{"transition", services.ErrInvalidTransition, fiber.StatusConflict},
		{"storage off", storage.ErrStorageDisabled, fiber.StatusServiceUnavailable},
		{"live updates off", repository.ErrLiveUnavailable, fiber.StatusServiceUnavailable},
		{"reset off", services.ErrResetUnavailable, fiber.StatusServiceUnavailable},
		{"db down", apperr.Persistence("list reports", errors.New("connection refused")), fiber.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", repository.ErrReportNotFound), fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
