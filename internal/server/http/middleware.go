package http

import (
	"errors"
	"strings"

	"chessmoves/internal/core"
	"chessmoves/internal/server/service"

	"github.com/gofiber/fiber/v2"
)

// Authorizer checks that token was issued for boardID
type Authorizer func(boardID, token string) error

// BoardAuth requires a bearer token issued for the board named in the
// :boardId route parameter
func BoardAuth(authorize Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c.Get("Authorization"))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error: "missing authorization token",
				Code:  core.ErrUnauthorized,
			})
		}

		boardID := c.Params("boardId")
		if err := authorize(boardID, token); err != nil {
			if errors.Is(err, service.ErrTokenMismatch) {
				return c.Status(fiber.StatusForbidden).JSON(core.ErrorResponse{
					Error: "token does not grant access to this board",
					Code:  core.ErrUnauthorized,
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error: "invalid or expired token",
				Code:  core.ErrUnauthorized,
			})
		}

		return c.Next()
	}
}

// extractBearerToken extracts the token from an Authorization header
func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
