package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const userContextKey = "authUser"

// TokenValidator validates bearer tokens into claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Middleware guards routes behind bearer-token authentication.
type Middleware struct {
	validator TokenValidator
}

// NewMiddleware creates an auth middleware around a token validator.
func NewMiddleware(validator TokenValidator) *Middleware {
	return &Middleware{validator: validator}
}

// Require rejects requests without a valid bearer token and stores the
// claims on the request context.
func (m *Middleware) Require() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization token")
			}

			claims, err := m.validator.ValidateToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(userContextKey, claims)
			return next(c)
		}
	}
}

// GetUser returns the authenticated user's claims, or nil when the request
// was not authenticated.
func GetUser(c echo.Context) *Claims {
	claims, ok := c.Get(userContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// RequireSelf parses the :id path param and rejects callers acting on
// another user's resources before any other work happens.
func RequireSelf(c echo.Context) (int64, error) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}

	claims := GetUser(c)
	if claims == nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization token")
	}
	if claims.UserID != userID {
		return 0, echo.NewHTTPError(http.StatusForbidden, "cannot access another user's resources")
	}

	return userID, nil
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return parts[1]
}
