package server

import (
	"paceup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReport handles POST /api/v1/reports
func (s *Server) CreateReport(c *fiber.Ctx) error {
	var req service.CreateReportInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.ReporterID = currentUserID(c)

	report, err := s.reportService.CreateReport(c.Context(), req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// ListReports handles GET /api/v1/reports (admin)
func (s *Server) ListReports(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	reports, err := s.reportService.ListReports(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(reports)
}

// DecideReport handles PUT /api/v1/reports/:id (admin). Resolving deletes
// the reported post; dismissing keeps it.
func (s *Server) DecideReport(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	report, err := s.reportService.Decide(c.Context(), id, req.Status)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(report)
}
