package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aster/playground/internal/domain"
	"github.com/aster/playground/internal/service"
)

const contextKeyPrincipal = "principal"

// RequestLogger logs each HTTP request with structured fields.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			slog.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)

			return err
		}
	}
}

// Auth validates the Bearer token and injects the resolved principal
// into the echo context. Requests without a valid token, or whose
// token carries no email claim, are rejected with 401.
func Auth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return domain.ErrUnauthorized
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				return domain.ErrUnauthorized
			}

			principal, err := auth.ValidateToken(parts[1])
			if err != nil {
				return domain.ErrUnauthorized
			}

			c.Set(contextKeyPrincipal, principal)
			return next(c)
		}
	}
}

// AdminOnly rejects authenticated principals whose email is not on the
// allow-list with 403. Must run after Auth.
func AdminOnly(admins *service.AdminList) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := GetPrincipal(c)
			if !ok {
				return domain.ErrUnauthorized
			}
			if !admins.IsAdmin(principal.Email) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// GetPrincipal extracts the authenticated principal from echo context.
func GetPrincipal(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(contextKeyPrincipal).(domain.Principal)
	return p, ok
}
