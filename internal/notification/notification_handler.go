package notification

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mythicalbadger/swe-hw1-backend/internal/shared/apperror"
	"github.com/mythicalbadger/swe-hw1-backend/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetString("user_id")

	items, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, items, nil)
}

func (h *Handler) MarkRead(c *gin.Context) {
	userID := c.GetString("user_id")
	id := c.Param("id")

	if err := h.service.MarkRead(c.Request.Context(), id, userID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"read": true}, nil)
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		h.logger.Error("unexpected notification error", zap.Error(err))
	}

	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
}
