package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hk-blood-donation/internal/utils"
)

const claimsKey = "claims"

// JWTMiddleware validates the Bearer token and stores the decoded
// claims in the gin context. A missing token is 401, a bad one 403.
func JWTMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := authenticate(c, secret)
		if claims == nil {
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// AdminMiddleware composes token verification with the is_admin gate.
func AdminMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := authenticate(c, secret)
		if claims == nil {
			return
		}
		if !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Admin access required",
			})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func authenticate(c *gin.Context, secret string) *utils.Claims {
	auth := c.GetHeader("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if auth == "" || len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Access token required",
		})
		return nil
	}
	claims, err := utils.ParseAccessToken([]byte(secret), parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Invalid or expired token",
		})
		return nil
	}
	return claims
}

// CurrentClaims extracts the decoded token from the gin context.
func CurrentClaims(c *gin.Context) *utils.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.Claims)
	return claims
}
