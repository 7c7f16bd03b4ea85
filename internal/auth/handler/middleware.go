package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Yrcd27/mirror-auth-service/internal/auth/service"
	"github.com/Yrcd27/mirror-auth-service/pkg/constant"
)

// RequireAuth is the per-request session guard. It is a pure signature and
// expiry check on the bearer token; it never touches the store, so it is
// safe under unbounded parallelism.
//
// Failure codes let clients drive their refresh-retry logic:
// TOKEN_EXPIRED for a valid-but-stale token, INVALID_TOKEN for signature
// or shape failures, AUTH_FAILED when no usable header was sent.
func RequireAuth(tokens service.TokenGenerator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication failed: No valid Authorization header",
				"code":    constant.CodeAuthFailed,
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := tokens.VerifyAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Token expired",
					"code":    constant.CodeTokenExpired,
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token",
				"code":    constant.CodeInvalidToken,
			})
		}

		c.Locals(constant.LocalsUserID, claims.UserID)
		c.Locals(constant.LocalsEmail, claims.Email)

		return c.Next()
	}
}
