// File: middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"mendly/models"
	"mendly/utils"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// AuthMiddleware validates the bearer token and stores the verified
// principal in the request context. Everything behind it can trust the
// identity claims.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, utils.CodeAuthentication,
				"Missing or invalid Authorization header", nil)
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			utils.RespondError(c, http.StatusUnauthorized, utils.CodeAuthentication,
				"Missing or invalid Authorization header", nil)
			return
		}

		p, err := utils.ParseAccessToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, utils.CodeAuthentication,
				"Invalid or expired token", nil)
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// Principal returns the authenticated caller set by AuthMiddleware.
func Principal(c *gin.Context) (*models.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*models.Principal)
	return p, ok
}
