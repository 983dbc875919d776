package server

import (
	"paceup/internal/models"
	"paceup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// statusUpdateParam reads and validates the status_update query parameter
// shared by the moderation endpoints.
func statusUpdateParam(c *fiber.Ctx) (string, error) {
	status := c.Query("status_update")
	switch status {
	case models.StatusApproved, models.StatusRejected:
		return status, nil
	default:
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("status_update must be approved or rejected"))
		return "", errResponseWritten
	}
}

// AdminListPosts handles GET /api/v1/admin/posts
func (s *Server) AdminListPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	posts, err := s.adminService.ListPosts(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(posts)
}

// AdminSetPostStatus handles PUT /api/v1/admin/posts/:id/status
func (s *Server) AdminSetPostStatus(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	status, err := statusUpdateParam(c)
	if err != nil {
		return nil
	}

	post, err := s.adminService.SetPostStatus(c.Context(), id, status)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}

// AdminListEvents handles GET /api/v1/admin/events
func (s *Server) AdminListEvents(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	events, err := s.adminService.ListEvents(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(events)
}

// AdminSetEventStatus handles PUT /api/v1/admin/events/:id/status.
// The optional JSON body carries rejection reasons and a free-form note,
// relayed to the organizer through the notification metadata.
func (s *Server) AdminSetEventStatus(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	status, err := statusUpdateParam(c)
	if err != nil {
		return nil
	}

	var req service.ModerationInput
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return nil
		}
	}

	event, err := s.adminService.SetEventStatus(c.Context(), id, status, req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(event)
}

// AdminListRegistrations handles GET /api/v1/admin/registrations
func (s *Server) AdminListRegistrations(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	regs, err := s.adminService.ListRegistrations(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(regs)
}

// AdminListRegistrationPayments handles GET /api/v1/admin/registrations/payments
func (s *Server) AdminListRegistrationPayments(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	regs, err := s.adminService.ListRegistrationsWithPayments(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(regs)
}

// AdminSetRegistrationStatus handles PUT /api/v1/admin/registrations/:id/status.
// The optional JSON body carries rejection reasons and a free-form note.
func (s *Server) AdminSetRegistrationStatus(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	status, err := statusUpdateParam(c)
	if err != nil {
		return nil
	}

	var req service.ModerationInput
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return nil
		}
	}

	reg, err := s.adminService.SetRegistrationStatus(c.Context(), id, status, req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(reg)
}

// AdminStats handles GET /api/v1/admin/stats
func (s *Server) AdminStats(c *fiber.Ctx) error {
	stats, err := s.adminService.Stats(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(stats)
}

// AdminListUsers handles GET /api/v1/admin/users
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	users, err := s.adminService.ListUsers(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(users)
}

// AdminSetUserRole handles PUT /api/v1/admin/users/:id/role
func (s *Server) AdminSetUserRole(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.adminService.SetUserRole(c.Context(), id, req.Role)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(user)
}
