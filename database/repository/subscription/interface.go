package subscriptionRepo

import (
	"errors"
	"time"

	"autoshine/models"
)

var (
	// ErrNotFound is returned when no subscription with the requested id exists.
	ErrNotFound = errors.New("subscription not found")
	// ErrVersionConflict is returned when an update loses the
	// compare-and-swap race on the subscription version.
	ErrVersionConflict = errors.New("subscription version conflict")
)

// SubscriptionRepository provides persistence for recurring plans and
// their materialization markers.
type SubscriptionRepository interface {
	Create(sub *models.Subscription) error
	GetByID(id string) (*models.Subscription, error)
	UpdateWithVersion(sub *models.Subscription, expectedVersion int64) error
	ListByUser(userID string) ([]models.Subscription, error)
	// ListDue returns active subscriptions whose next due date is at or
	// before the given instant.
	ListDue(now time.Time) ([]models.Subscription, error)
	// TryMarkRun inserts the idempotency marker for one (subscription,
	// due date) materialization. It returns false with a nil error when
	// the marker already exists, making a duplicate sweep a no-op.
	TryMarkRun(subscriptionID, dueDate, bookingID string) (bool, error)
}
