package social

import (
	"errors"

	"backend-dropspot/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes wires the friend and user-search endpoints onto the /api
// group.
func RegisterRoutes(r fiber.Router, svc *Service, requireUser fiber.Handler) {
	r.Post("/friends/request/:userId", requireUser, func(c *fiber.Ctx) error {
		_, err := svc.SendRequest(c.Context(), auth.UserID(c), c.Params("userId"))
		if err != nil {
			switch {
			case errors.Is(err, ErrUserNotFound):
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			case errors.Is(err, ErrSelfRequest), errors.Is(err, ErrAlreadyFriends), errors.Is(err, ErrRequestPending):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(fiber.Map{"message": "Friend request sent"})
	})

	r.Post("/friends/accept/:requestId", requireUser, func(c *fiber.Ctx) error {
		if err := svc.Accept(c.Context(), c.Params("requestId"), auth.UserID(c)); err != nil {
			if errors.Is(err, ErrRequestNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(fiber.Map{"message": "Friend request accepted"})
	})

	r.Get("/friends/requests", requireUser, func(c *fiber.Ctx) error {
		requests, err := svc.PendingRequests(c.Context(), auth.UserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		if requests == nil {
			requests = []PendingRequest{}
		}
		return c.JSON(requests)
	})

	r.Get("/friends", requireUser, func(c *fiber.Ctx) error {
		friends, err := svc.Friends(c.Context(), auth.UserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		if friends == nil {
			friends = []Friend{}
		}
		return c.JSON(friends)
	})

	r.Get("/users/search", requireUser, func(c *fiber.Ctx) error {
		results, err := svc.Search(c.Context(), c.Query("q"), auth.UserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(results)
	})
}
