// File: middleware/role.go
package middleware

import (
	"net/http"

	"mendly/models"
	"mendly/services/auth"
	"mendly/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole rejects callers below the given role. Must run after
// AuthMiddleware.
func RequireRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := Principal(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, utils.CodeAuthentication,
				"Authentication required", nil)
			return
		}
		if !auth.AtLeast(p.Role, min) {
			utils.RespondError(c, http.StatusForbidden, utils.CodeAuthorization,
				"Insufficient privileges for this operation", nil)
			return
		}
		c.Next()
	}
}
