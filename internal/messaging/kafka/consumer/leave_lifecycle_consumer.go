package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mythicalbadger/swe-hw1-backend/internal/events"
	"github.com/mythicalbadger/swe-hw1-backend/internal/notification"
)

// ConsumeLeaveLifecycle turns leave lifecycle events into user notifications.
// Malformed messages are committed and dropped; transient failures leave the
// offset uncommitted so the message is retried.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notificationService.RecordLeaveEvent(ctx, event); err != nil {
			log.Error("record leave notification failed",
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.String("requester_id", event.RequesterID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("leave lifecycle event processed",
			zap.String("leave_request_id", event.LeaveRequestID),
			zap.String("event_type", event.EventType),
		)
	}
}
