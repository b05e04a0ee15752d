package leaverequest

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/mythicalbadger/swe-hw1-backend/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.GET("", handler.GetAll)
		requests.GET("/mine", handler.GetMine)
		requests.GET("/:id", handler.GetById)
		requests.POST("", middleware.Idempotency(rdb), handler.Create)
		requests.PUT("/:id/approve", handler.Approve)
		requests.PUT("/:id/deny", handler.Deny)
		requests.DELETE("/:id", handler.Delete)
	}
}
