package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"paceup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestPasswordService(users *userRepoStub, resets *resetRepoStub, mail *mailerStub) *PasswordService {
	svc := NewPasswordService(users, resets, mail)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return svc
}

func knownUserRepo() *userRepoStub {
	users := noopUserRepo()
	users.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		if email == "runner@example.com" {
			return &models.User{ID: "user-1", Email: email}, nil
		}
		return nil, nil
	}
	return users
}

func TestForgot_UnknownEmailStillSucceeds(t *testing.T) {
	issued := false
	resets := &resetRepoStub{
		issueFn: func(_ context.Context, _ *models.PasswordResetCode) error {
			issued = true
			return nil
		},
	}
	mail := &mailerStub{}
	svc := newTestPasswordService(knownUserRepo(), resets, mail)

	require.NoError(t, svc.Forgot(context.Background(), "ghost@example.com"))
	assert.False(t, issued)
	assert.Empty(t, mail.sent)
}

func TestForgot_IssuesCodeAndMails(t *testing.T) {
	var issued *models.PasswordResetCode
	resets := &resetRepoStub{
		issueFn: func(_ context.Context, code *models.PasswordResetCode) error {
			issued = code
			return nil
		},
	}
	mail := &mailerStub{}
	svc := newTestPasswordService(knownUserRepo(), resets, mail)

	require.NoError(t, svc.Forgot(context.Background(), " Runner@Example.com "))
	require.NotNil(t, issued)

	assert.Equal(t, "user-1", issued.UserID)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), issued.Code)
	assert.Equal(t, svc.now().Add(models.ResetCodeTTL), issued.ExpiresAt)
	assert.Equal(t, []string{"password_reset:runner@example.com"}, mail.sent)
}

func TestForgot_MailFailureStaysQuiet(t *testing.T) {
	resets := &resetRepoStub{
		issueFn: func(_ context.Context, _ *models.PasswordResetCode) error { return nil },
	}
	mail := &mailerStub{err: assert.AnError}
	svc := newTestPasswordService(knownUserRepo(), resets, mail)

	assert.NoError(t, svc.Forgot(context.Background(), "runner@example.com"))
}

func TestVerifyCode(t *testing.T) {
	resets := &resetRepoStub{
		getActiveFn: func(_ context.Context, email, code string, _ time.Time) (*models.PasswordResetCode, error) {
			if email == "runner@example.com" && code == "123456" {
				return &models.PasswordResetCode{ID: "reset-1", UserID: "user-1"}, nil
			}
			return nil, nil
		},
	}
	svc := newTestPasswordService(knownUserRepo(), resets, nil)
	ctx := context.Background()

	assert.NoError(t, svc.VerifyCode(ctx, "runner@example.com", "123456"))
	assertAppErrorCode(t, svc.VerifyCode(ctx, "runner@example.com", "000000"), "UNAUTHORIZED")
}

func TestReset(t *testing.T) {
	stored := &models.User{ID: "user-1", Email: "runner@example.com", Password: "old-hash"}
	users := knownUserRepo()
	users.getByIDFn = func(_ context.Context, _ string) (*models.User, error) { return stored, nil }
	users.updateFn = func(_ context.Context, u *models.User) error {
		stored = u
		return nil
	}

	usedID := ""
	resets := &resetRepoStub{
		getActiveFn: func(_ context.Context, email, code string, _ time.Time) (*models.PasswordResetCode, error) {
			if code == "123456" {
				return &models.PasswordResetCode{ID: "reset-1", UserID: "user-1", Email: email}, nil
			}
			return nil, nil
		},
		markUsedFn: func(_ context.Context, id string) error {
			usedID = id
			return nil
		},
	}
	svc := newTestPasswordService(users, resets, nil)
	ctx := context.Background()

	t.Run("weak password rejected before consuming the code", func(t *testing.T) {
		err := svc.Reset(ctx, ResetPasswordInput{Email: "runner@example.com", Code: "123456", NewPassword: "short"})
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
		assert.Empty(t, usedID)
	})

	t.Run("wrong code", func(t *testing.T) {
		err := svc.Reset(ctx, ResetPasswordInput{Email: "runner@example.com", Code: "999999", NewPassword: "N3w!Password0k"})
		assertAppErrorCode(t, err, "UNAUTHORIZED")
	})

	t.Run("success", func(t *testing.T) {
		err := svc.Reset(ctx, ResetPasswordInput{Email: "runner@example.com", Code: "123456", NewPassword: "N3w!Password0k"})
		require.NoError(t, err)
		assert.Equal(t, "reset-1", usedID)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("N3w!Password0k")))
	})
}

func TestGenerateResetCode(t *testing.T) {
	t.Parallel()
	for i := 0; i < 20; i++ {
		code, err := generateResetCode()
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
	}
}
