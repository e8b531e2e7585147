package handlers

import (
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/middleware"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group, auth Auth) {
	g.POST("/users/me", h.StoreUser, auth.Required)
	g.GET("/users/me", h.GetProfile, auth.Required)
	g.PATCH("/users/me", h.UpdateProfile, auth.Required)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/by-username/:username", h.GetByUsername)
}

// StoreUser creates or refreshes the caller's record from their identity token
func (h *UserHandler) StoreUser(c echo.Context) error {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return httpError(services.ErrUnauthenticated)
	}
	user, err := h.userService.StoreUser(c.Request().Context(), *id)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, user)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userService.CurrentUser(c.Request().Context(), middleware.TokenIdentifier(c))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userService.UpdateProfile(c.Request().Context(), middleware.TokenIdentifier(c), req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, user)
}

func (h *UserHandler) GetByUsername(c echo.Context) error {
	user, err := h.userService.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, user)
}

// SearchUsers matches name or username against ?q=
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query 'q' is required")
	}
	users, err := h.userService.SearchUsers(c.Request().Context(), query)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, users)
}
