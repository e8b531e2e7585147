package handlers

import (
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/ai"
	"github.com/labstack/echo/v4"
)

type generateRequest struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

type improveRequest struct {
	Content string `json:"content"`
	Mode    string `json:"mode"`
}

// AIHandler exposes the drafting assistant. Failures are reported in the result body.
type AIHandler struct {
	contentService *ai.ContentService
}

func NewAIHandler(contentService *ai.ContentService) *AIHandler {
	return &AIHandler{contentService: contentService}
}

func (h *AIHandler) RegisterAIRoutes(g *echo.Group, auth Auth) {
	g.POST("/ai/generate", h.Generate, auth.Required)
	g.POST("/ai/improve", h.Improve, auth.Required)
}

func (h *AIHandler) Generate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	res := h.contentService.GenerateBlogContent(c.Request().Context(), req.Title, req.Category, req.Tags)
	return c.JSON(http.StatusOK, res)
}

func (h *AIHandler) Improve(c echo.Context) error {
	var req improveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.Mode == "" {
		req.Mode = ai.ModeEnhance
	}
	res := h.contentService.ImproveContent(c.Request().Context(), req.Content, req.Mode)
	return c.JSON(http.StatusOK, res)
}
