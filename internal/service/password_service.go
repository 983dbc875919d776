package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"paceup/internal/mailer"
	"paceup/internal/middleware"
	"paceup/internal/models"
	"paceup/internal/repository"
	"paceup/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// PasswordService implements the forgot/verify/reset flow. Responses never
// reveal whether an email is registered: forgot-password returns success for
// unknown addresses too.
type PasswordService struct {
	users  repository.UserRepository
	resets repository.PasswordResetRepository
	mail   mailer.Mailer
	now    func() time.Time
}

type ResetPasswordInput struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func NewPasswordService(
	users repository.UserRepository,
	resets repository.PasswordResetRepository,
	mail mailer.Mailer,
) *PasswordService {
	return &PasswordService{users: users, resets: resets, mail: mail, now: time.Now}
}

// Forgot issues a reset code when the email belongs to an account. It always
// reports success; lookup misses and mail failures are only logged.
func (s *PasswordService) Forgot(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	code, err := generateResetCode()
	if err != nil {
		return models.NewInternalError(err)
	}
	reset := &models.PasswordResetCode{
		UserID:    user.ID,
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(models.ResetCodeTTL),
	}
	if err := s.resets.Issue(ctx, reset); err != nil {
		return err
	}

	if s.mail == nil {
		middleware.Logger.WarnContext(ctx, "reset code issued but mail is not configured",
			slog.String("user_id", user.ID))
		return nil
	}
	if err := s.mail.Send(ctx, "password_reset", email, "Your PaceUp password reset code", mailer.ResetCodeBody(code)); err != nil {
		// The response stays positive; retrying is the user's move.
		middleware.Logger.ErrorContext(ctx, "reset code email failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// VerifyCode checks a code without consuming it, so the frontend can gate
// the new-password form.
func (s *PasswordService) VerifyCode(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	reset, err := s.resets.GetActive(ctx, email, code, s.now())
	if err != nil {
		return err
	}
	if reset == nil {
		return models.NewUnauthorizedError("Invalid or expired code")
	}
	return nil
}

// Reset consumes the code and sets the new password.
func (s *PasswordService) Reset(ctx context.Context, in ResetPasswordInput) error {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	reset, err := s.resets.GetActive(ctx, email, in.Code, s.now())
	if err != nil {
		return err
	}
	if reset == nil {
		return models.NewUnauthorizedError("Invalid or expired code")
	}
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, reset.UserID)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, reset.ID)
}

// generateResetCode draws a uniform 6-digit code from crypto/rand.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
