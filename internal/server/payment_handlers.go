package server

import (
	"paceup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePaymentSession handles POST /api/v1/payment/sessions
func (s *Server) CreatePaymentSession(c *fiber.Ctx) error {
	var req service.CreateSessionInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.UserID = currentUserID(c)

	session, err := s.paymentService.CreateSession(c.Context(), req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// GetPaymentStatus handles GET /api/v1/payment/sessions/:id/status.
// Reading a pending session past its window persists the expired transition.
func (s *Server) GetPaymentStatus(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	session, err := s.paymentService.GetStatus(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(session)
}

// ConfirmPayment handles POST /api/v1/payment/confirm. The sandbox payment
// page posts here without authentication; the session ID is the capability.
func (s *Server) ConfirmPayment(c *fiber.Ctx) error {
	var req service.ConfirmInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	session, err := s.paymentService.Confirm(c.Context(), req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(session)
}
