package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// IdentityVerifier turns a bearer token into a verified identity
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*models.Identity, error)
}

// RequireIdentity rejects requests without a valid bearer token.
func RequireIdentity(v IdentityVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
			}
			if err := authenticate(c, v, token); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// OptionalIdentity lets anonymous requests through. A token that is present must
// still be valid.
func OptionalIdentity(v IdentityVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}
			if token != "" {
				if err := authenticate(c, v, token); err != nil {
					return err
				}
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the verified caller, or nil for anonymous requests.
func IdentityFrom(c echo.Context) *models.Identity {
	id, _ := c.Get(identityKey).(*models.Identity)
	return id
}

// TokenIdentifier returns the caller's token identifier, or "" when anonymous.
func TokenIdentifier(c echo.Context) string {
	if id := IdentityFrom(c); id != nil {
		return id.TokenIdentifier
	}
	return ""
}

func authenticate(c echo.Context, v IdentityVerifier, token string) error {
	id, err := v.Verify(c.Request().Context(), token)
	if err != nil {
		c.Logger().Debugf("token rejected: %v", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}
	c.Set(identityKey, id)
	return nil
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", nil
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
	}
	return parts[1], nil
}
