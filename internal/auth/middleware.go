package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// Middleware requires a valid access token and stores the bearer's Identity
// on the gin context.
func Middleware(tokens *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		scheme, raw, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			abort(c, http.StatusUnauthorized, "Token is empty")
			return
		}

		claims, err := tokens.Verify(raw, KindAccess)
		switch {
		case errors.Is(err, ErrTokenExpired):
			abort(c, http.StatusUnauthorized, "Token expired")
			return
		case errors.Is(err, ErrWrongTokenKind):
			abort(c, http.StatusUnauthorized, "Access token required")
			return
		case err != nil:
			abort(c, http.StatusUnauthorized, "Invalid or malformed token")
			return
		}

		SetIdentity(c, claims.Identity)
		c.Next()
	}
}

// RequireRole lets the request through when the caller holds any of roles.
// It must run after Middleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}

func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func GetUserID(c *gin.Context) (int, bool) {
	id, ok := CurrentIdentity(c)
	if !ok || id.UserID == 0 {
		return 0, false
	}
	return id.UserID, true
}

func GetUserRole(c *gin.Context) (string, bool) {
	id, ok := CurrentIdentity(c)
	if !ok {
		return "", false
	}
	return id.Role, true
}
