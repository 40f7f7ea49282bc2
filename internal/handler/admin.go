package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aster/playground/internal/domain"
	"github.com/aster/playground/internal/service"
)

// AdminHandler serves the admin reporting endpoints. Authentication and
// the allow-list check are handled by the Auth and AdminOnly middleware
// on the route group.
type AdminHandler struct {
	users *service.UserService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

type listUsersQuery struct {
	Page  int `query:"page" validate:"gte=1"`
	Limit int `query:"limit" validate:"gte=1,lte=100"`
}

// Pagination describes the page window of a user listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type listUsersResponse struct {
	Users      []domain.User    `json:"users"`
	Pagination Pagination       `json:"pagination"`
	Stats      domain.UserStats `json:"stats"`
}

// ListUsers returns one page of users together with the aggregate
// sign-up statistics. The listing and the stats are independent
// queries and may reflect slightly different instants.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	q := listUsersQuery{Page: 1, Limit: 20}
	if err := c.Bind(&q); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	ctx := c.Request().Context()
	offset := (q.Page - 1) * q.Limit

	users, total := h.users.ListUsers(ctx, q.Limit, offset)
	stats := h.users.Stats(ctx)

	totalPages := (total + q.Limit - 1) / q.Limit

	return c.JSON(http.StatusOK, listUsersResponse{
		Users: users,
		Pagination: Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
		Stats: stats,
	})
}

type connectionResponse struct {
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
}

// CheckConnection probes database connectivity without touching any data.
func (h *AdminHandler) CheckConnection(c echo.Context) error {
	connected := h.users.CheckConnection(c.Request().Context())

	msg := "Database connection successful"
	if !connected {
		msg = "Database connection failed"
	}

	return c.JSON(http.StatusOK, connectionResponse{
		Connected: connected,
		Message:   msg,
	})
}
