package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ajbgithub/aivideos/config"
	"github.com/ajbgithub/aivideos/internal/auth"
	"github.com/ajbgithub/aivideos/models"
)

// SessionKey is the c.Locals key the resolved session is stored under.
const SessionKey = "session"

// tokenKey carries the raw access token for the sign-out handler.
const tokenKey = "access_token"

// Session resolves the Authorization bearer token to a models.Session and
// stores it in request locals. Requests without a usable session continue as
// anonymous; handlers that require identity check for themselves.
func Session(provider auth.SessionProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" || token == header {
			return c.Next()
		}

		session, err := provider.Session(c.Context(), token)
		if err != nil {
			// Invalid or identity-less tokens degrade to anonymous.
			config.Log.WithError(err).Debug("Bearer token did not resolve to a session")
			return c.Next()
		}

		c.Locals(SessionKey, session)
		c.Locals(tokenKey, token)
		return c.Next()
	}
}

// SessionFrom extracts the resolved session from request locals, or nil for
// anonymous requests.
func SessionFrom(c *fiber.Ctx) *models.Session {
	if session, ok := c.Locals(SessionKey).(*models.Session); ok {
		return session
	}
	return nil
}

// TokenFrom returns the bearer token that produced the current session.
func TokenFrom(c *fiber.Ctx) string {
	if token, ok := c.Locals(tokenKey).(string); ok {
		return token
	}
	return ""
}
