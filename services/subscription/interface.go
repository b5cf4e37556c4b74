package subscription

import "autoshine/models"

// CreateSubscriptionRequest is the customer payload for a recurring plan.
type CreateSubscriptionRequest struct {
	UserID        string            `json:"userId"`
	Services      []models.CartItem `json:"services"`
	Addons        []models.CartItem `json:"addons,omitempty"`
	Vehicle       models.Vehicle    `json:"vehicle"`
	Address       string            `json:"address"`
	StartDate     string            `json:"startDate"`     // "2006-01-02"
	ScheduledTime string            `json:"scheduledTime"` // "15:04"
	Frequency     models.Frequency  `json:"frequency"`
}

// SubscriptionService manages recurring plans and materializes due
// occurrences into pending bookings.
type SubscriptionService interface {
	CreateSubscription(req CreateSubscriptionRequest) (*models.Subscription, error)
	GetSubscription(id string) (*models.Subscription, error)
	ListUserSubscriptions(userID string) ([]models.Subscription, error)
	PauseSubscription(id, userID string) (*models.Subscription, error)
	// ResumeSubscription reactivates a paused plan. An elapsed
	// NextDueDate snaps forward to the next future occurrence; missed
	// occurrences are never back-filled.
	ResumeSubscription(id, userID string) (*models.Subscription, error)
	// CancelSubscription is terminal and leaves already-materialized
	// bookings untouched.
	CancelSubscription(id, userID string) (*models.Subscription, error)
	// ProcessDueServices materializes one pending booking per due
	// active subscription, re-priced against the current catalog, then
	// advances the due date. Safe to invoke repeatedly or concurrently:
	// a persisted run marker makes duplicates silent no-ops. Returns
	// the number of bookings materialized.
	ProcessDueServices() (int, error)
}
