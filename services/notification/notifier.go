package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"autoshine/models"
)

// TypeNotificationDeliver is the asynq task type for queued notifications.
const TypeNotificationDeliver = "notification:deliver"

// AsynqNotifier enqueues notifications onto the Redis-backed task
// queue; the cron worker picks them up for delivery.
type AsynqNotifier struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewAsynqNotifier(client *asynq.Client, logger *zap.Logger) *AsynqNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsynqNotifier{Client: client, Logger: logger}
}

func (n *AsynqNotifier) Notify(_ context.Context, payload models.NotificationPayload) {
	if payload.QueuedAt.IsZero() {
		payload.QueuedAt = time.Now()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		n.Logger.Warn("notification: failed to marshal payload",
			zap.String("template", payload.Template), zap.Error(err))
		return
	}

	task := asynq.NewTask(TypeNotificationDeliver, data)
	if _, err := n.Client.Enqueue(task, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)); err != nil {
		// Fire-and-forget: log and move on, the booking transition stands.
		n.Logger.Warn("notification: failed to enqueue",
			zap.String("template", payload.Template),
			zap.String("user", payload.UserID),
			zap.Error(err))
		return
	}
	n.Logger.Debug("notification: enqueued",
		zap.String("template", payload.Template), zap.String("user", payload.UserID))
}

// LogNotifier writes notifications straight to the log. Used in
// development and as a fallback when the queue is unavailable.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) Notify(_ context.Context, payload models.NotificationPayload) {
	n.Logger.Info("notification",
		zap.String("template", payload.Template),
		zap.String("user", payload.UserID),
		zap.String("booking", payload.BookingID),
		zap.Any("data", payload.Data))
}
