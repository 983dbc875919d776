package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListNotifications handles GET /api/v1/notifications
func (s *Server) ListNotifications(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	notifs, err := s.notificationRepo.ListByUser(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(notifs)
}

// UnreadNotificationCount handles GET /api/v1/notifications/unread-count
func (s *Server) UnreadNotificationCount(c *fiber.Ctx) error {
	count, err := s.notificationRepo.UnreadCount(c.Context(), currentUserID(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

// MarkNotificationRead handles PUT /api/v1/notifications/:id/read. The
// update is scoped to the caller, so foreign IDs come back as not found.
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationRepo.MarkRead(c.Context(), id, currentUserID(c)); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead handles PUT /api/v1/notifications/read-all
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	if err := s.notificationRepo.MarkAllRead(c.Context(), currentUserID(c)); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}
