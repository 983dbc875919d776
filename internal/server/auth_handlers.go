package server

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"paceup/internal/models"
	"paceup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/v1/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, token, err := s.authService.Register(c.Context(), req)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Login handles POST /api/v1/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, token, err := s.authService.Login(c.Context(), req)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// GoogleLogin handles GET /api/v1/auth/google/login. It parks a random state
// value in a short-lived cookie and redirects to Google's consent screen.
func (s *Server) GoogleLogin(c *fiber.Ctx) error {
	state, err := randomState()
	if err != nil {
		return respondAppError(c, models.NewInternalError(err))
	}

	url, err := s.authService.GoogleAuthURL(state)
	if err != nil {
		return respondAppError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect(url, fiber.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /api/v1/auth/google/callback
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies("oauth_state") {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("OAuth state mismatch"))
	}
	code := c.Query("code")
	if code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing authorization code"))
	}

	user, token, err := s.authService.GoogleCallback(c.Context(), code)
	if err != nil {
		return respondAppError(c, err)
	}

	// When a frontend URL is configured the callback hands the token over by
	// redirect; otherwise it responds with JSON for API clients.
	if s.config.FrontendURL != "" {
		return c.Redirect(s.config.FrontendURL+"/auth/callback?token="+token, fiber.StatusTemporaryRedirect)
	}
	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Me handles GET /api/v1/auth/me
func (s *Server) Me(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(user)
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
