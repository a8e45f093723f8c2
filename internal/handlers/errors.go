package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/repository"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/services"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/storage"
	"github.com/gofiber/fiber/v2"
)

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func unauthorized(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
}

func badBody(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
}

// respondError maps service errors onto HTTP responses. Anything unrecognised
// is logged and answered with a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: verr.Error(), Fields: verr.Fields,
		})
	}

	var aerr *apperr.AuthError
	if errors.As(err, &aerr) {
		var status int
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			status = fiber.StatusConflict
		case errors.Is(err, services.ErrInvalidCredentials),
			errors.Is(err, services.ErrInvalidToken),
			errors.Is(err, services.ErrUserNotFound):
			status = fiber.StatusUnauthorized
		case errors.Is(err, services.ErrInvalidResetToken), errors.Is(err, services.ErrWeakPassword):
			status = fiber.StatusBadRequest
		default:
			status = fiber.StatusBadGateway
		}
		return errorJSON(c, status, aerr.Error())
	}

	switch {
	case errors.Is(err, apperr.ErrForbidden), errors.Is(err, apperr.ErrPermissionDenied):
		return errorJSON(c, fiber.StatusForbidden, "You do not have permission to do that")
	case errors.Is(err, repository.ErrReportNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Report not found")
	case errors.Is(err, repository.ErrProfileNotFound), errors.Is(err, services.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, repository.ErrProfileExists):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrResetUnavailable),
		errors.Is(err, storage.ErrStorageDisabled),
		errors.Is(err, repository.ErrLiveUnavailable):
		return errorJSON(c, fiber.StatusServiceUnavailable, err.Error())
	}

	slog.Error("request failed",
		"error", err,
		"path", c.Path(),
		"method", c.Method(),
		"persistence", apperr.IsPersistence(err),
	)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}
