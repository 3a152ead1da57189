package spot

import (
	"errors"

	"backend-dropspot/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, requireUser, optionalUser fiber.Handler) {
	r.Post("/", requireUser, func(c *fiber.Ctx) error {
		var req struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			Photo       string  `json:"photo"`
			Latitude    float64 `json:"latitude"`
			Longitude   float64 `json:"longitude"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if req.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title required")
		}

		created, err := svc.Create(c.Context(), Spot{
			Title:       req.Title,
			Description: req.Description,
			Photo:       req.Photo,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			IsPublic:    true,
			UserID:      auth.UserID(c),
			Username:    auth.Username(c),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(created)
	})

	r.Get("/", optionalUser, func(c *fiber.Ctx) error {
		filter := Filter(c.Query("filter_type", string(FilterGlobal)))
		spots, err := svc.List(c.Context(), filter, auth.UserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		if spots == nil {
			spots = []Spot{}
		}
		return c.JSON(spots)
	})

	r.Get("/:id", optionalUser, func(c *fiber.Ctx) error {
		sp, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, ErrNotFound.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(sp)
	})

	r.Delete("/:id", requireUser, func(c *fiber.Ctx) error {
		err := svc.Delete(c.Context(), c.Params("id"), auth.UserID(c))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, ErrNotFound.Error())
			}
			if errors.Is(err, ErrForbidden) {
				return fiber.NewError(fiber.StatusForbidden, ErrForbidden.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(fiber.Map{"message": "Spot deleted successfully"})
	})

	r.Post("/:id/rate", requireUser, func(c *fiber.Ctx) error {
		var req struct {
			Rating int `json:"rating"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if req.Rating < 1 || req.Rating > 5 {
			return fiber.NewError(fiber.StatusBadRequest, "rating must be between 1 and 5")
		}
		if err := svc.Rate(c.Context(), c.Params("id"), auth.UserID(c), req.Rating); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, ErrNotFound.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(fiber.Map{"message": "Rating saved"})
	})

	r.Get("/:id/my-rating", requireUser, func(c *fiber.Ctx) error {
		rating, rated, err := svc.MyRating(c.Context(), c.Params("id"), auth.UserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		if !rated {
			return c.JSON(fiber.Map{"rating": nil})
		}
		return c.JSON(fiber.Map{"rating": rating})
	})
}
