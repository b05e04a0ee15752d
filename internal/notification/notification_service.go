package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mythicalbadger/swe-hw1-backend/internal/events"
	"github.com/mythicalbadger/swe-hw1-backend/internal/shared/apperror"
)

var ErrNotificationNotFound = apperror.New(apperror.CodeNotFound, "Notification not found", 404)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock

type Service interface {
	RecordLeaveEvent(ctx context.Context, event events.LeaveLifecycleEvent) error
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, id string, userID string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{repo: repo, logger: l}
}

// RecordLeaveEvent stores a user-facing notification for a lifecycle event.
// Unknown event types are logged and dropped so old consumers survive new
// event kinds.
func (s *service) RecordLeaveEvent(ctx context.Context, event events.LeaveLifecycleEvent) error {
	userID, err := uuid.Parse(event.RequesterID)
	if err != nil {
		return fmt.Errorf("invalid requester id in lifecycle event: %w", err)
	}

	message, ok := messageFor(event)
	if !ok {
		s.logger.Warn("unknown leave lifecycle event type, skipping",
			zap.String("event_type", event.EventType),
			zap.String("leave_request_id", event.LeaveRequestID),
		)
		return nil
	}

	n := &Notification{
		UserID:  userID,
		Kind:    event.EventType,
		Message: message,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	s.logger.Info("notification recorded",
		zap.String("user_id", event.RequesterID),
		zap.String("kind", event.EventType),
	)
	return nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidInput, "Invalid user ID", 400)
	}
	return s.repo.FindByUser(ctx, id)
}

func (s *service) MarkRead(ctx context.Context, id string, userID string) error {
	nid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotificationNotFound
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return apperror.New(apperror.CodeInvalidInput, "Invalid user ID", 400)
	}
	if err := s.repo.MarkRead(ctx, nid, uid); err != nil {
		return ErrNotificationNotFound
	}
	return nil
}

func messageFor(event events.LeaveLifecycleEvent) (string, bool) {
	span := fmt.Sprintf("%s to %s", event.StartDate, event.EndDate)
	switch event.EventType {
	case events.LeaveRequestCreated:
		return fmt.Sprintf("Your leave request for %s was submitted.", span), true
	case events.LeaveRequestApproved:
		return fmt.Sprintf("Your leave request for %s was approved.", span), true
	case events.LeaveRequestDenied:
		return fmt.Sprintf("Your leave request for %s was denied.", span), true
	case events.LeaveRequestDeleted:
		return fmt.Sprintf("Your leave request for %s was deleted and %d day(s) were returned.", span, event.DaysRequested), true
	default:
		return "", false
	}
}
