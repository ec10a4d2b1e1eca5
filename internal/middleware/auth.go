// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/craftchain/artisan-marketplace/internal/models"
	"github.com/craftchain/artisan-marketplace/internal/utils"
)

// SessionRequired rejects requests without a valid session token and puts
// the wallet address and role into the gin context.
func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c)
		if !ok {
			utils.UnauthorizedResponse(c, "Valid session token required")
			c.Abort()
			return
		}

		c.Set("wallet_address", claims.WalletAddress)
		c.Set("session_role", claims.Role)
		c.Set("session_subject", claims.Subject)
		c.Next()
	}
}

// AdminRequired allows only admin sessions through. Must run after
// SessionRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("session_role")
		if !exists || role != models.SessionRoleAdmin {
			utils.ForbiddenResponse(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalSession populates session context when a valid token is present
// and lets the request through either way.
func OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := sessionClaims(c); ok {
			c.Set("wallet_address", claims.WalletAddress)
			c.Set("session_role", claims.Role)
			c.Set("session_subject", claims.Subject)
		}
		c.Next()
	}
}

func sessionClaims(c *gin.Context) (*utils.SessionClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := utils.ValidateSessionToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
