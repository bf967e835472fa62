package middleware

import (
	"crypto/subtle"
	"strings"

	"pantrywatch/domain"
	"pantrywatch/internal/api/presenters"
	"pantrywatch/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		BatchAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
	}

	middleware struct {
		allowedOrigins string
		batchSecret    string
	}
)

func NewMiddleware(allowedOrigins string, batchSecret string) Middleware {
	return &middleware{
		allowedOrigins: allowedOrigins,
		batchSecret:    batchSecret,
	}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: m.allowedOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	})
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		userID, role, err := jwtService.GetUserIDByToken(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	}
}

// BatchAuthMiddleware guards the sweep endpoint: the caller must present the
// pre-shared scheduler secret. An end-user token is a valid credential of the
// wrong kind, so it is rejected with Forbidden rather than Unauthorized.
func (m *middleware) BatchAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		if m.batchSecret != "" && subtle.ConstantTimeCompare([]byte(token), []byte(m.batchSecret)) == 1 {
			return c.Next()
		}

		if _, _, err := jwtService.GetUserIDByToken(token); err == nil {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageUserNotAllowed, domain.ErrUserNotAllowed)
		}
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, domain.ErrTokenInvalid)
	}
}
