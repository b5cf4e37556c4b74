package notification

import (
	"context"

	"autoshine/models"
)

// NotificationService dispatches customer-facing event notifications.
// Delivery is fire-and-forget: a failure here must never roll back the
// state transition that triggered it.
type NotificationService interface {
	Notify(ctx context.Context, payload models.NotificationPayload)
}
