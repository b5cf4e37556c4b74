package models

import "time"

// Notification templates dispatched by the booking and subscription flows.
const (
	TemplateBookingConfirmation = "booking-confirmation"
	TemplateBookingAccepted     = "booking-accepted"
	TemplateBookingCancelled    = "booking-cancelled"
	TemplateReschedulePending   = "reschedule-pending"
	TemplateBookingCompleted    = "booking-completed"
	TemplateReviewRequest       = "review-request"
	TemplateSubscriptionCreated = "subscription-created"
	TemplateSubscriptionBooked  = "subscription-booked"
)

// NotificationPayload is the queued message handed to the delivery
// worker. Delivery is fire-and-forget: failures never roll back the
// state transition that produced the event.
type NotificationPayload struct {
	Template  string            `json:"template"`
	UserID    string            `json:"userId"`
	BookingID string            `json:"bookingId,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
	QueuedAt  time.Time         `json:"queuedAt"`
}
