package notification

import (
	"github.com/gin-gonic/gin"

	"github.com/mythicalbadger/swe-hw1-backend/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", handler.List)
		notifications.PUT("/:id/read", handler.MarkRead)
	}
}
