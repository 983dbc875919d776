package server

import (
	"io"

	"paceup/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AnalyzeDocument handles POST /api/v1/documents/analyze. Multipart field
// "file" carries a PDF or DOCX of at most 10MB.
func (s *Server) AnalyzeDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Multipart field 'file' is required"))
	}
	if fileHeader.Size > models.MaxDocumentSize {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File exceeds the 10MB limit"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondAppError(c, models.NewInternalError(err))
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, models.MaxDocumentSize+1))
	if err != nil {
		return respondAppError(c, models.NewInternalError(err))
	}

	result, err := s.documentService.Analyze(c.Context(), currentUserID(c), fileHeader.Filename, data)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(result)
}

// ListDocuments handles GET /api/v1/documents
func (s *Server) ListDocuments(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	docs, err := s.documentService.ListDocuments(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(docs)
}
