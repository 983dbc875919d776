package server

import (
	"errors"

	"paceup/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// requireParam extracts a non-empty route parameter. On failure it writes a
// 400 JSON response and returns errResponseWritten; callers should check:
// if err != nil { return nil }.
func requireParam(c *fiber.Ctx, param string) (string, error) {
	value := c.Params(param)
	if value == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing "+param+" parameter"))
		return "", errResponseWritten
	}
	return value, nil
}

// currentUserID returns the authenticated user ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("userID").(string)
	return userID
}

// respondAppError maps an AppError code onto the matching HTTP status.
// Non-AppError values fall through to 500.
func respondAppError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "VALIDATION_ERROR":
			status = fiber.StatusBadRequest
		case "UNAUTHORIZED":
			status = fiber.StatusUnauthorized
		case "FORBIDDEN":
			status = fiber.StatusForbidden
		case "NOT_FOUND":
			status = fiber.StatusNotFound
		case "CONFLICT":
			status = fiber.StatusConflict
		case "SERVICE_UNAVAILABLE":
			status = fiber.StatusServiceUnavailable
		}
	}
	return models.RespondWithError(c, status, err)
}

// parseBody decodes the JSON body into dest, writing a 400 on failure.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}
