package handlers

import (
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/middleware"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, auth Auth) {
	g.POST("/posts", h.CreatePost, auth.Required)
	g.GET("/posts/:id", h.GetPost, auth.Optional)
	g.PUT("/posts/:id", h.UpdatePost, auth.Required)
	g.DELETE("/posts/:id", h.DeletePost, auth.Required)
	g.POST("/posts/:id/like", h.ToggleLike, auth.Required)
	g.GET("/posts/:id/like", h.GetLikeStatus, auth.Optional)
	g.GET("/me/posts", h.GetMyPosts, auth.Required)
	g.GET("/me/posts/draft", h.GetLatestDraft, auth.Required)
	g.GET("/users/by-username/:username/posts", h.GetPublishedByUsername)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.postService.Create(c.Request().Context(), middleware.TokenIdentifier(c), req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postService.Get(c.Request().Context(), middleware.TokenIdentifier(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, post)
}

// UpdatePost updates an existing post owned by the caller
func (h *PostHandler) UpdatePost(c echo.Context) error {
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.postService.Update(c.Request().Context(), middleware.TokenIdentifier(c), c.Param("id"), req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, post)
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := h.postService.Delete(c.Request().Context(), middleware.TokenIdentifier(c), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PostHandler) ToggleLike(c echo.Context) error {
	state, err := h.postService.ToggleLike(c.Request().Context(), middleware.TokenIdentifier(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, state)
}

func (h *PostHandler) GetLikeStatus(c echo.Context) error {
	state, err := h.postService.LikeStatus(c.Request().Context(), middleware.TokenIdentifier(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, state)
}

func (h *PostHandler) GetMyPosts(c echo.Context) error {
	skip, limit, err := page(c)
	if err != nil {
		return err
	}
	posts, err := h.postService.ListMine(c.Request().Context(), middleware.TokenIdentifier(c), skip, limit)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, posts)
}

// GetLatestDraft returns the caller's latest draft, or null data when there is none
func (h *PostHandler) GetLatestDraft(c echo.Context) error {
	post, err := h.postService.LatestDraft(c.Request().Context(), middleware.TokenIdentifier(c))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, post)
}

func (h *PostHandler) GetPublishedByUsername(c echo.Context) error {
	skip, limit, err := page(c)
	if err != nil {
		return err
	}
	posts, err := h.postService.ListPublishedByUsername(c.Request().Context(), c.Param("username"), skip, limit)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, posts)
}
