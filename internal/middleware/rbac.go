package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/model"
)

func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetCurrentUser(c)
		if user != nil {
			for _, r := range roles {
				if user.Role == r {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":    40301,
			"message": "insufficient permissions",
			"data":    nil,
		})
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(model.RoleAdmin)
}
