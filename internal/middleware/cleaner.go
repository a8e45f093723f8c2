package middleware

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RoleChecker answers whether an identity currently holds the cleaner role.
type RoleChecker interface {
	IsCleaner(ctx context.Context, uid uuid.UUID) (bool, error)
}

// CleanerRequired gates the cleaner dashboard routes. The role is read from
// the profile on every request, so role changes apply without a new token.
func CleanerRequired(roles RoleChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := identity.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		ok, err := roles.IsCleaner(c.UserContext(), uid)
		if err != nil {
			slog.Error("role lookup failed", "user_id", uid.String(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to check role",
			})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Cleaner role required",
			})
		}
		return c.Next()
	}
}
