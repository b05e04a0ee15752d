package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mythicalbadger/swe-hw1-backend/internal/shared/response"
)

// AdminOnly must run after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("is_admin") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Administrator privileges required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
