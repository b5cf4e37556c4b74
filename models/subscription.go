package models

import "time"

// SubscriptionStatus is the lifecycle state of a recurring plan.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPaused    SubscriptionStatus = "paused"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a recurring-booking template. The scheduler
// materializes a pending Booking from it on every due date and
// advances NextDueDate by one frequency interval.
type Subscription struct {
	ID            string             `bson:"id" json:"id"`
	UserID        string             `bson:"userId" json:"userId"`
	Items         []CartItem         `bson:"items" json:"items"`
	Vehicle       Vehicle            `bson:"vehicle" json:"vehicle"`
	Address       string             `bson:"address" json:"address"`
	ScheduledTime string             `bson:"scheduledTime" json:"scheduledTime"` // preferred time of day, "15:04"
	Frequency     Frequency          `bson:"frequency" json:"frequency"`
	Status        SubscriptionStatus `bson:"status" json:"status"`
	NextDueDate   time.Time          `bson:"nextDueDate" json:"nextDueDate"`
	Version       int64              `bson:"version" json:"-"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NextInterval advances t by one frequency interval. Monthly uses
// calendar months, matching how customers think about "the 5th of
// every month".
func NextInterval(t time.Time, f Frequency) time.Time {
	switch f {
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyBiWeekly:
		return t.AddDate(0, 0, 14)
	case FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t
	}
}

// SubscriptionRun is the idempotency marker for one materialization of
// a subscription on one due date. A unique index on (subscriptionId,
// dueDate) makes the sweep safe to run concurrently.
type SubscriptionRun struct {
	SubscriptionID string    `bson:"subscriptionId" json:"subscriptionId"`
	DueDate        string    `bson:"dueDate" json:"dueDate"` // "2006-01-02"
	BookingID      string    `bson:"bookingId" json:"bookingId"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
