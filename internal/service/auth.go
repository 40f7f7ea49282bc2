package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"

	"github.com/aster/playground/internal/domain"
)

// UserRecorder is the slice of the user store the auth flow needs: it
// records logins but never blocks them.
type UserRecorder interface {
	RecordLogin(ctx context.Context, nu domain.NewUser) *domain.User
}

// AuthConfig holds OAuth and token signing configuration.
type AuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	JWTSecret          string
	AppURL             string
}

// AuthService is the identity provider integration: Google OAuth on
// the way in, signed JWT session tokens on the way out. Token claims
// carry the principal (subject id, email, name) directly, so token
// verification never touches the database.
type AuthService struct {
	users     UserRecorder
	jwtSecret []byte
	google    *oauth2.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserRecorder, cfg AuthConfig) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(cfg.JWTSecret),
		google: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     googleOAuth.Endpoint,
			Scopes:       []string{"openid", "profile", "email"},
			RedirectURL:  cfg.AppURL + "/api/auth/google/callback",
		},
	}
}

// GoogleAuthURL returns the Google OAuth authorization URL.
func (s *AuthService) GoogleAuthURL(state string) string {
	return s.google.AuthCodeURL(state)
}

// TokenPair holds an access token and refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GoogleCallback exchanges the authorization code, records the login
// and returns the principal with a fresh token pair. A failed or
// unavailable store does not fail the login; the upsert is best-effort.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (domain.Principal, *TokenPair, error) {
	token, err := s.google.Exchange(ctx, code)
	if err != nil {
		return domain.Principal{}, nil, fmt.Errorf("google token exchange: %w", err)
	}

	info, err := fetchGoogleUserInfo(ctx, token.AccessToken)
	if err != nil {
		return domain.Principal{}, nil, fmt.Errorf("fetch google user info: %w", err)
	}

	s.users.RecordLogin(ctx, domain.NewUser{
		ExternalID: info.ID,
		Email:      info.Email,
		Name:       strPtr(info.Name),
		Image:      strPtr(info.Picture),
	})

	principal := domain.Principal{
		ExternalID: info.ID,
		Email:      info.Email,
		Name:       info.Name,
	}

	pair, err := s.IssueTokens(principal)
	if err != nil {
		return domain.Principal{}, nil, err
	}
	return principal, pair, nil
}

// IssueTokens signs a new access/refresh pair for the principal.
func (s *AuthService) IssueTokens(p domain.Principal) (*TokenPair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   p.ExternalID,
		"email": p.Email,
		"name":  p.Name,
		"type":  "access",
		"iat":   now.Unix(),
		"exp":   now.Add(15 * time.Minute).Unix(),
	})
	accessStr, err := access.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   p.ExternalID,
		"email": p.Email,
		"name":  p.Name,
		"type":  "refresh",
		"iat":   now.Unix(),
		"exp":   now.Add(7 * 24 * time.Hour).Unix(),
	})
	refreshStr, err := refresh.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessStr, RefreshToken: refreshStr}, nil
}

// ValidateToken validates an access token and returns its principal.
// A principal without an email claim is rejected.
func (s *AuthService) ValidateToken(tokenString string) (domain.Principal, error) {
	return s.parsePrincipal(tokenString, "access")
}

// RefreshTokens validates a refresh token and returns a new token pair.
func (s *AuthService) RefreshTokens(refreshToken string) (*TokenPair, error) {
	principal, err := s.parsePrincipal(refreshToken, "refresh")
	if err != nil {
		return nil, err
	}
	return s.IssueTokens(principal)
}

func (s *AuthService) parsePrincipal(tokenString, wantType string) (domain.Principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return domain.Principal{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return domain.Principal{}, domain.ErrUnauthorized
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != wantType {
		return domain.Principal{}, domain.ErrUnauthorized
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	name, _ := claims["name"].(string)

	return domain.Principal{ExternalID: sub, Email: email, Name: name}, nil
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func fetchGoogleUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google user info returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("google user info has no email")
	}
	return &info, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
