package group

import (
	"backend-dropspot/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, requireUser fiber.Handler) {
	r.Post("/", requireUser, func(c *fiber.Ctx) error {
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			IsPrivate   bool   `json:"is_private"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name required")
		}

		created, err := svc.Create(c.Context(), Group{
			Name:        req.Name,
			Description: req.Description,
			IsPrivate:   req.IsPrivate,
			CreatedBy:   auth.UserID(c),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(created)
	})

	r.Get("/", requireUser, func(c *fiber.Ctx) error {
		groups, err := svc.MyGroups(c.Context(), auth.UserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		if groups == nil {
			groups = []Group{}
		}
		return c.JSON(groups)
	})
}
