package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := models.IdentityClaims{
		Email: subject + "@example.com",
		Name:  "Name " + subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// serve runs a request through mw and reports the status and the identity the handler saw.
func serve(mw echo.MiddlewareFunc, authHeader string) (int, string) {
	e := echo.New()
	seen := "<unset>"
	e.GET("/", func(c echo.Context) error {
		seen = TokenIdentifier(c)
		return c.NoContent(http.StatusOK)
	}, mw)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code, seen
}

func TestRequireIdentity(t *testing.T) {
	mw := RequireIdentity(NewJWTVerifier(testSecret))

	tests := []struct {
		name     string
		header   string
		status   int
		identity string
	}{
		{"valid", "Bearer " + signToken(t, testSecret, "user-1", time.Hour), http.StatusOK, "user-1"},
		{"missing", "", http.StatusUnauthorized, "<unset>"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "<unset>"},
		{"wrong secret", "Bearer " + signToken(t, "other", "user-1", time.Hour), http.StatusUnauthorized, "<unset>"},
		{"expired", "Bearer " + signToken(t, testSecret, "user-1", -time.Hour), http.StatusUnauthorized, "<unset>"},
		{"no subject", "Bearer " + signToken(t, testSecret, "", time.Hour), http.StatusUnauthorized, "<unset>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, identity := serve(mw, tt.header)
			if status != tt.status || identity != tt.identity {
				t.Fatalf("got %d %q, want %d %q", status, identity, tt.status, tt.identity)
			}
		})
	}
}

func TestOptionalIdentity(t *testing.T) {
	mw := OptionalIdentity(NewJWTVerifier(testSecret))

	if status, identity := serve(mw, ""); status != http.StatusOK || identity != "" {
		t.Fatalf("anonymous: got %d %q", status, identity)
	}
	if status, identity := serve(mw, "Bearer "+signToken(t, testSecret, "user-2", time.Hour)); status != http.StatusOK || identity != "user-2" {
		t.Fatalf("authenticated: got %d %q", status, identity)
	}
	if status, _ := serve(mw, "Bearer garbage"); status != http.StatusUnauthorized {
		t.Fatalf("bad token: got %d", status)
	}
}

func TestJWTVerifierClaims(t *testing.T) {
	id, err := NewJWTVerifier(testSecret).Verify(t.Context(), signToken(t, testSecret, "abc", time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if id.TokenIdentifier != "abc" || id.Email != "abc@example.com" || id.Name != "Name abc" {
		t.Fatalf("identity = %+v", id)
	}
}
