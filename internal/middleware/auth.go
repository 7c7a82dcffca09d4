package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/model"
	jwtpkg "github.com/hieuleminh03/vgov/pkg/jwt"
	"gorm.io/gorm"
)

// AuthMiddleware resolves the caller from a bearer token, rejects revoked
// or expired tokens, and stores the user and claims in the request context.
func AuthMiddleware(jwtSecret string, db *gorm.DB, revoked func(c *gin.Context, jti string) (bool, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 40101, "message": "missing token", "data": nil})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 40101, "message": "malformed authorization header", "data": nil})
			return
		}

		claims, err := jwtpkg.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 40102, "message": "token expired, please log in again", "data": nil})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 40103, "message": "invalid token", "data": nil})
			}
			return
		}

		if revoked != nil {
			isRevoked, err := revoked(c, claims.ID)
			if err != nil {
				// Fail closed: a token that cannot be checked against the
				// revocation store is not accepted.
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": "could not verify token", "data": nil})
				return
			}
			if isRevoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 40103, "message": "token has been revoked", "data": nil})
				return
			}
		}

		var user model.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 40103, "message": "user not found", "data": nil})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": 40104, "message": "account is deactivated", "data": nil})
			return
		}

		c.Set("user", &user)
		c.Set("claims", claims)
		c.Next()
	}
}

func GetCurrentUser(c *gin.Context) *model.User {
	u, exists := c.Get("user")
	if !exists {
		return nil
	}
	return u.(*model.User)
}

func GetClaims(c *gin.Context) *jwtpkg.Claims {
	v, exists := c.Get("claims")
	if !exists {
		return nil
	}
	return v.(*jwtpkg.Claims)
}
