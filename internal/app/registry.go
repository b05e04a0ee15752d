package app

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mythicalbadger/swe-hw1-backend/internal/auth"
	"github.com/mythicalbadger/swe-hw1-backend/internal/leaverequest"
	"github.com/mythicalbadger/swe-hw1-backend/internal/messaging/kafka"
	"github.com/mythicalbadger/swe-hw1-backend/internal/middleware"
	"github.com/mythicalbadger/swe-hw1-backend/internal/notification"
	"github.com/mythicalbadger/swe-hw1-backend/internal/user"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	router.Use(middleware.RequestID())

	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	leaveRepo := leaverequest.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	ledger := user.NewLedger(gormDB)
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo)
	leaveService := leaverequest.NewServiceWithOutbox(db, leaveRepo, userRepo, ledger, outboxRepo, rdb)
	notificationService := notification.NewService(notificationRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	leaveHandler := leaverequest.NewHandler(leaveService)
	notificationHandler := notification.NewHandler(notificationService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler)
		leaverequest.RegisterRoutes(api, leaveHandler, rdb)
		notification.RegisterRoutes(api, notificationHandler)
	}

	return nil
}
