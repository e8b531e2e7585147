package handlers

import (
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/media"
	"github.com/labstack/echo/v4"
)

// UploadHandler accepts image uploads as multipart form field "file"
type UploadHandler struct {
	mediaService *media.Service
}

func NewUploadHandler(mediaService *media.Service) *UploadHandler {
	return &UploadHandler{mediaService: mediaService}
}

func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group, auth Auth) {
	g.POST("/uploads", h.Upload, auth.Required)
}

func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Form field 'file' is required")
	}
	if fh.Size > media.MaxUploadSize {
		return httpError(media.ErrTooLarge)
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read uploaded file")
	}
	defer f.Close()

	name := c.FormValue("fileName")
	if name == "" {
		name = fh.Filename
	}
	res, err := h.mediaService.Upload(c.Request().Context(), f, name)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, res)
}
