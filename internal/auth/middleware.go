package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireUser resolves the bearer token to an existing user and stores the
// identity in locals. Requests without a valid token are rejected.
func RequireUser(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		user, err := svc.ResolveUser(c.Context(), token)
		if errors.Is(err, ErrInvalidToken) {
			return fiber.NewError(fiber.StatusUnauthorized, ErrInvalidToken.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}

		c.Locals("user_id", user.ID)
		c.Locals("username", user.Username)
		return c.Next()
	}
}

// OptionalUser performs the same resolution but degrades to anonymous
// instead of failing, for routes usable without a login.
func OptionalUser(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerFromHeader(c.Get("Authorization")); token != "" {
			if user, err := svc.ResolveUser(c.Context(), token); err == nil {
				c.Locals("user_id", user.ID)
				c.Locals("username", user.Username)
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id from locals, or "" when anonymous.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

// Username returns the authenticated username from locals, or "" when anonymous.
func Username(c *fiber.Ctx) string {
	if name, ok := c.Locals("username").(string); ok {
		return name
	}
	return ""
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
