package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/pointsmall/pointsmall/internal/pkg/auth"
)

const (
	// OpenIDContextKey is a gin context key for the authenticated user openid.
	OpenIDContextKey = "openID"
	// AdminContextKey is a gin context key for the authenticated admin username.
	AdminContextKey = "adminUser"

	authCookieName = "pointsmall_token"
)

// UserTokenParser verifies a user session token and yields the openid.
type UserTokenParser interface {
	ParseUserToken(ctx context.Context, token string) (string, error)
}

// AdminTokenParser verifies an admin session token and yields the username.
type AdminTokenParser interface {
	ParseAdminToken(token string) (string, error)
}

// AuthRequired ensures the request carries a valid user session token.
func AuthRequired(parser UserTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		openID, err := parser.ParseUserToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(OpenIDContextKey, openID)
		c.Next()
	}
}

// AdminRequired ensures the request carries a valid admin session token.
func AdminRequired(parser AdminTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		username, err := parser.ParseAdminToken(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(AdminContextKey, username)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}
