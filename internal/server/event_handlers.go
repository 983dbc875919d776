package server

import (
	"paceup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListEvents handles GET /api/v1/events. Public callers see approved events;
// ?mine=true lists the caller's own events in every status.
func (s *Server) ListEvents(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	userID := s.optionalUserID(c)
	mine := c.QueryBool("mine", false) && userID != ""

	events, err := s.eventService.ListEvents(c.Context(), userID, mine, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(events)
}

// GetEvent handles GET /api/v1/events/:id
func (s *Server) GetEvent(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	userID := s.optionalUserID(c)
	isAdmin := false
	if userID != "" {
		if user, uerr := s.userRepo.GetByID(c.Context(), userID); uerr == nil {
			isAdmin = user.IsAdmin()
		}
	}

	event, err := s.eventService.GetEvent(c.Context(), id, userID, isAdmin)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(event)
}

// CreateEvent handles POST /api/v1/events
func (s *Server) CreateEvent(c *fiber.Ctx) error {
	var req service.CreateEventInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.OrganizerID = currentUserID(c)

	event, err := s.eventService.CreateEvent(c.Context(), req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// UpdateEvent handles PUT /api/v1/events/:id
func (s *Server) UpdateEvent(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdateEventInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.UserID = currentUserID(c)
	req.EventID = id

	event, err := s.eventService.UpdateEvent(c.Context(), req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(event)
}

// DeleteEvent handles DELETE /api/v1/events/:id
func (s *Server) DeleteEvent(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	if err := s.eventService.DeleteEvent(c.Context(), id, userID, user.IsAdmin()); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Event deleted"})
}

// RegisterForEvent handles POST /api/v1/events/:id/register
func (s *Server) RegisterForEvent(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Category string `json:"category"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	reg, err := s.eventService.Register(c.Context(), id, currentUserID(c), req.Category)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reg)
}

// ListEventRegistrations handles GET /api/v1/events/:id/registrations
func (s *Server) ListEventRegistrations(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	regs, err := s.eventService.ListRegistrations(c.Context(), id, userID, user.IsAdmin())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(regs)
}
