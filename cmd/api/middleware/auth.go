package middleware

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/noteful/api/cmd/api/service"
	"github.com/noteful/api/common/apperr"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// IdentityKey is the context key for the authenticated identity
	IdentityKey ContextKey = "identity"
)

// Identity is the authenticated caller extracted from the bearer token
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// RequireAuth parses the Authorization bearer token and stores the
// caller's identity in the request context. Requests without a valid
// identity assertion are rejected with 401 before any handler runs.
func RequireAuth(secret string) echo.MiddlewareFunc {
	key := []byte(secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				return apperr.Unauthorized("Missing bearer token")
			}

			claims := &service.AuthClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				return apperr.Unauthorized("Invalid or expired token")
			}

			if claims.User.ID == uuid.Nil {
				return apperr.Unauthorized("Invalid or expired token")
			}

			c.Set(string(IdentityKey), Identity{
				UserID:   claims.User.ID,
				Username: claims.User.Username,
			})

			return next(c)
		}
	}
}

// CurrentUser retrieves the authenticated identity from the request
// context. Only meaningful behind RequireAuth.
func CurrentUser(c echo.Context) (Identity, error) {
	identity, ok := c.Get(string(IdentityKey)).(Identity)
	if !ok {
		return Identity{}, apperr.Unauthorized("authentication required")
	}
	return identity, nil
}
