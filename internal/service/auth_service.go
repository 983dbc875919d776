package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"paceup/internal/config"
	"paceup/internal/models"
	"paceup/internal/repository"
	"paceup/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Token claim constants shared between issuing and verification.
const (
	TokenIssuer   = "paceup-api"
	TokenAudience = "paceup-clients"
	TokenTTL      = 30 * time.Minute
)

type AuthService struct {
	users repository.UserRepository
	cfg   *config.Config
	oauth *oauth2.Config
}

type RegisterInput struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	Experience string `json:"running_experience"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthService(users repository.UserRepository, cfg *config.Config) *AuthService {
	s := &AuthService{users: users, cfg: cfg}
	if cfg.OAuthConfigured() {
		s.oauth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, "", err
	}
	if in.Experience != "" {
		if err := validation.ValidateExperience(in.Experience); err != nil {
			return nil, "", err
		}
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", models.NewConflictError("An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	user := &models.User{
		Email:      email,
		Username:   in.Username,
		Password:   string(hash),
		FullName:   in.FullName,
		Experience: in.Experience,
		Role:       models.RoleUser,
		IsActive:   true,
	}
	// The unique index on email backstops the existence check above.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || user.Password == "" {
		return nil, "", models.NewUnauthorizedError("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, "", models.NewUnauthorizedError("Invalid email or password")
	}
	if !user.IsActive {
		return nil, "", models.NewForbiddenError("Account is deactivated")
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken signs a 30-minute HS256 token for the user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{TokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return signed, nil
}

// VerifyToken validates signature, issuer, audience and expiry, returning
// the user ID from the subject claim.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", models.NewUnauthorizedError("Invalid or expired token")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", models.NewUnauthorizedError("Invalid or expired token")
	}
	return claims.Subject, nil
}

// GoogleAuthURL returns the consent-screen URL for the OAuth flow.
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.oauth == nil {
		return "", models.NewUnavailableError("google login", nil)
	}
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

type googleProfile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleCallback exchanges the authorization code, fetches the Google
// profile, and logs the user in, creating the account on first sight.
// OAuth accounts have no local password.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*models.User, string, error) {
	if s.oauth == nil {
		return nil, "", models.NewUnavailableError("google login", nil)
	}
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, "", models.NewUnauthorizedError("Google authorization failed")
	}

	profile, err := s.fetchGoogleProfile(ctx, tok)
	if err != nil {
		return nil, "", err
	}
	if profile.Email == "" {
		return nil, "", models.NewUnauthorizedError("Google account has no email")
	}

	email := strings.ToLower(profile.Email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		user = &models.User{
			Email:    email,
			Username: usernameFromEmail(email),
			FullName: profile.Name,
			Avatar:   profile.Picture,
			Role:     models.RoleUser,
			IsActive: true,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, "", err
		}
	}
	if !user.IsActive {
		return nil, "", models.NewForbiddenError("Account is deactivated")
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) fetchGoogleProfile(ctx context.Context, tok *oauth2.Token) (*googleProfile, error) {
	client := s.oauth.Client(ctx, tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, models.NewUnavailableError("google userinfo", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewUnauthorizedError("Google authorization failed")
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, models.NewUnavailableError("google userinfo", err)
	}
	var profile googleProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func usernameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
