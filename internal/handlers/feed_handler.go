package handlers

import (
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/middleware"
	"github.com/anonto42/inkwell/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, auth Auth) {
	g.GET("/me/feed", h.GetFeed, auth.Required)
}

// GetFeed returns published posts from followed authors with author info and like flags
func (h *FeedHandler) GetFeed(c echo.Context) error {
	page, err := intQuery(c, "page")
	if err != nil {
		return err
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		return err
	}

	feed, err := h.feedService.Feed(c.Request().Context(), middleware.TokenIdentifier(c), page, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": feed.Posts,
		},
		"meta": echo.Map{
			"currentPage":     feed.Page,
			"itemsPerPage":    feed.Limit,
			"hasNextPage":     feed.HasNextPage,
			"hasPreviousPage": feed.Page > 1,
		},
	})
}
