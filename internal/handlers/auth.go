package handlers

import "github.com/labstack/echo/v4"

// Auth holds the identity middleware routes are guarded with
type Auth struct {
	Required echo.MiddlewareFunc
	Optional echo.MiddlewareFunc
}
