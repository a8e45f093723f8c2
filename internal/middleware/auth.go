package middleware

import (
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/config"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected accepts a bearer token in the Authorization header, or an
// access_token query parameter for event-stream clients that cannot set headers.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtConfig(cfg, nil))
}

func jwtConfig(cfg *config.Config, skip func(*fiber.Ctx) bool) jwtware.Config {
	return jwtware.Config{
		Filter:      skip,
		SigningKey:  jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		TokenLookup: "header:Authorization,query:access_token",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	}
}
