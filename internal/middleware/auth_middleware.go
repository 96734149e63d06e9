package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
)

// ClientIDKey is the gin context key holding the authenticated client id.
const ClientIDKey = "client_id"

// JWTAuthMiddleware rejects requests without a valid bearer token.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortUnauthorized(c, "Authorization header format must be Bearer {token}")
			return
		}

		clientID, err := auth.ParseToken(secret, parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ClientIDKey, clientID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "Unauthorized",
		"message": msg,
	})
}
