package user

import (
	"github.com/gin-gonic/gin"

	"github.com/mythicalbadger/swe-hw1-backend/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", middleware.AdminOnly(), handler.List)
		users.PUT("/me/password", handler.ChangePassword)
	}
}
