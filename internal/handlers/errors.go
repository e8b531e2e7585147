package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/inkwell/backend/internal/media"
	"github.com/anonto42/inkwell/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// httpError maps service errors to HTTP responses
func httpError(err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTargetNotFound),
		errors.Is(err, services.ErrPostNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrCannotFollowSelf),
		errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, media.ErrEmptyFile),
		errors.Is(err, media.ErrNotImage):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, media.ErrTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, media.ErrUploadsDisabled):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, services.ErrInternal.Error())
}

func success(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

// userIDParam parses the :id path parameter. 0 stands for an absent id.
func userIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	return uint(id), nil
}

// intQuery parses an optional integer query parameter, returning 0 when it is absent.
func intQuery(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return n, nil
}

// page reads skip/limit for post listings
func page(c echo.Context) (int64, int64, error) {
	skip, err := intQuery(c, "skip")
	if err != nil {
		return 0, 0, err
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return int64(skip), int64(limit), nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}
