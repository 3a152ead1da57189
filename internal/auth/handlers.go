package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, requireUser fiber.Handler) {
	r.Post("/register", func(c *fiber.Ctx) error {
		var req RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		profile, token, err := svc.Register(c.Context(), req)
		if err != nil {
			if errors.Is(err, ErrMissingFields) || errors.Is(err, ErrUserExists) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(TokenResponse{Token: token, User: profile})
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "username and password required")
		}
		profile, token, err := svc.Login(c.Context(), req)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				return fiber.NewError(fiber.StatusUnauthorized, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(TokenResponse{Token: token, User: profile})
	})

	r.Get("/me", requireUser, func(c *fiber.Ctx) error {
		profile, err := svc.Profile(c.Context(), UserID(c))
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, ErrInvalidToken.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(profile)
	})
}
