package middleware

import (
	"net/http"

	"community-portal/pkg/models"

	"github.com/gin-gonic/gin"
)

// RequireCapability gates a route group behind the static capability
// table. The actor passes when its role holds at least one of the given
// capabilities. Every gating point goes through this one check; handlers
// never re-derive permissions ad hoc.
func RequireCapability(capabilities ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.UserRole(c.GetString("user_role"))
		if role == "" {
			role = models.RoleGuest
		}

		if !models.HasAnyPermission(role, capabilities...) {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}
