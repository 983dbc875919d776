package server

import (
	"paceup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ForgotPassword handles POST /api/v1/password/forgot. The response is the
// same whether or not the email belongs to an account.
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if err := s.passwordService.Forgot(c.Context(), req.Email); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "If that email is registered, a reset code has been sent"})
}

// VerifyResetCode handles POST /api/v1/password/verify-code
func (s *Server) VerifyResetCode(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if err := s.passwordService.VerifyCode(c.Context(), req.Email, req.Code); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Code is valid"})
}

// ResetPassword handles POST /api/v1/password/reset
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req service.ResetPasswordInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if err := s.passwordService.Reset(c.Context(), req); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password has been reset"})
}
