package handler

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aster/playground/internal/domain"
	"github.com/aster/playground/internal/service"
)

// AuthHandler handles the sign-in endpoints.
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// GoogleRedirect redirects the user to Google's OAuth consent page.
func (h *AuthHandler) GoogleRedirect(c echo.Context) error {
	state := generateState()
	c.SetCookie(&http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})
	return c.Redirect(http.StatusTemporaryRedirect, h.auth.GoogleAuthURL(state))
}

// GoogleCallback handles the OAuth callback from Google. The login is
// recorded in the user store as a side effect; a missing database does
// not block sign-in.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	if err := validateOAuthState(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	code := c.QueryParam("code")
	if code == "" {
		return fmt.Errorf("%w: missing code parameter", domain.ErrInvalidInput)
	}

	principal, tokens, err := h.auth.GoogleCallback(c.Request().Context(), code)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]any{
		"user":   principal,
		"tokens": tokens,
	})
}

// Refresh generates a new token pair from a refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&body); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if body.RefreshToken == "" {
		return fmt.Errorf("%w: refresh_token is required", domain.ErrInvalidInput)
	}

	tokens, err := h.auth.RefreshTokens(body.RefreshToken)
	if err != nil {
		return domain.ErrUnauthorized
	}

	return JSON(c, http.StatusOK, tokens)
}

// Me returns the stored user row for the authenticated principal, or
// just the principal when the row is missing or the store is down.
func (h *AuthHandler) Me(c echo.Context) error {
	principal, ok := GetPrincipal(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	if user := h.users.GetByExternalID(c.Request().Context(), principal.ExternalID); user != nil {
		return JSON(c, http.StatusOK, user)
	}
	return JSON(c, http.StatusOK, principal)
}

func generateState() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "fallback-state"
	}
	return base64.URLEncoding.EncodeToString(b)
}

func validateOAuthState(c echo.Context) error {
	cookie, err := c.Cookie("oauth_state")
	if err != nil {
		return fmt.Errorf("missing oauth_state cookie")
	}

	queryState := c.QueryParam("state")
	if queryState == "" || queryState != cookie.Value {
		return fmt.Errorf("state mismatch")
	}

	return nil
}
