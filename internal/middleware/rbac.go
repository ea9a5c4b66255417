package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
	"github.com/noah-isme/spms-api/pkg/response"
)

// RequireRoles lets the request through only when the caller holds one of roles.
// It must run after JWT.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "user role '"+string(claims.Role)+"' is not authorized to access this route"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffOnly admits teachers and admins.
func StaffOnly() gin.HandlerFunc {
	return RequireRoles(models.RoleTeacher, models.RoleAdmin)
}
