package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blog-server/internal/auth"
)

const claimsKey = "auth.claims"

// requireAuth rejects requests without a valid bearer token and stores its claims on the context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := h.tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// callerID returns the authenticated user id, or "" when no token was checked.
func callerID(c *gin.Context) string {
	v, ok := c.Get(claimsKey)
	if !ok {
		return ""
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return ""
	}
	return claims.UserID
}
