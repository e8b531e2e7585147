package handlers

import (
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/middleware"
	"github.com/anonto42/inkwell/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow-graph HTTP requests
type FollowHandler struct {
	followService *services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followService *services.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, auth Auth) {
	g.POST("/users/:id/follow", h.ToggleFollow, auth.Required)
	g.GET("/users/:id/is-following", h.IsFollowing, auth.Optional)
	g.GET("/users/:id/followers/count", h.FollowerCount)
	g.GET("/users/:id/following/count", h.FollowingCount)
	g.GET("/users/by-username/:username/followers", h.FollowersByUsername, auth.Optional)
	g.GET("/me/followers", h.MyFollowers, auth.Optional)
	g.GET("/me/following", h.MyFollowing, auth.Optional)
}

// ToggleFollow follows the user if not followed yet, unfollows otherwise
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	targetID, err := userIDParam(c)
	if err != nil {
		return err
	}
	res, err := h.followService.ToggleFollow(c.Request().Context(), middleware.TokenIdentifier(c), targetID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, res)
}

func (h *FollowHandler) IsFollowing(c echo.Context) error {
	targetID, err := userIDParam(c)
	if err != nil {
		return err
	}
	ok, err := h.followService.IsFollowing(c.Request().Context(), middleware.TokenIdentifier(c), targetID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"following": ok})
}

func (h *FollowHandler) FollowerCount(c echo.Context) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}
	n, err := h.followService.FollowerCount(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"count": n})
}

func (h *FollowHandler) FollowingCount(c echo.Context) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}
	n, err := h.followService.FollowingCount(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"count": n})
}

func (h *FollowHandler) MyFollowers(c echo.Context) error {
	limit, err := intQuery(c, "limit")
	if err != nil {
		return err
	}
	entries, err := h.followService.MyFollowers(c.Request().Context(), middleware.TokenIdentifier(c), limit)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, entries)
}

func (h *FollowHandler) MyFollowing(c echo.Context) error {
	limit, err := intQuery(c, "limit")
	if err != nil {
		return err
	}
	entries, err := h.followService.MyFollowing(c.Request().Context(), middleware.TokenIdentifier(c), limit)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, entries)
}

func (h *FollowHandler) FollowersByUsername(c echo.Context) error {
	limit, err := intQuery(c, "limit")
	if err != nil {
		return err
	}
	entries, err := h.followService.FollowersByUsername(c.Request().Context(), middleware.TokenIdentifier(c), c.Param("username"), limit)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, entries)
}
