package server

import (
	"strings"

	"paceup/internal/models"
	"paceup/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Subscribe handles POST /api/v1/email/subscribe. Subscribing an already
// subscribed address is a no-op.
func (s *Server) Subscribe(c *fiber.Ctx) error {
	email, err := subscriptionEmail(c)
	if err != nil {
		return nil
	}

	if err := s.subscriptionRepo.Subscribe(c.Context(), email); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subscribed to event announcements"})
}

// Unsubscribe handles POST /api/v1/email/unsubscribe
func (s *Server) Unsubscribe(c *fiber.Ctx) error {
	email, err := subscriptionEmail(c)
	if err != nil {
		return nil
	}

	if err := s.subscriptionRepo.Unsubscribe(c.Context(), email); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unsubscribed"})
}

func subscriptionEmail(c *fiber.Ctx) (string, error) {
	var req struct {
		Email string `json:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return "", errResponseWritten
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.ValidateEmail(email); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, err)
		return "", errResponseWritten
	}
	return email, nil
}
