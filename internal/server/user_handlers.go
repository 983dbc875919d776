package server

import (
	"paceup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/v1/users/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.Context(), currentUserID(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateProfile handles PUT /api/v1/users/profile
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateProfile(c.Context(), currentUserID(c), req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(user)
}

// GetUserStats handles GET /api/v1/users/stats
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	stats, err := s.userService.GetStats(c.Context(), currentUserID(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(stats)
}

// GetJoinedEvents handles GET /api/v1/users/joined-events
func (s *Server) GetJoinedEvents(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	regs, err := s.userService.JoinedEvents(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(regs)
}
