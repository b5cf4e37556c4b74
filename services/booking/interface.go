package booking

import "autoshine/models"

// CreateBookingRequest is the customer checkout payload.
type CreateBookingRequest struct {
	UserID        string            `json:"userId"`
	Services      []models.CartItem `json:"services"`
	Addons        []models.CartItem `json:"addons,omitempty"`
	Vehicle       models.Vehicle    `json:"vehicle"`
	Address       string            `json:"address"`
	ScheduledDate string            `json:"scheduledDate"` // "2006-01-02"
	ScheduledTime string            `json:"scheduledTime"` // "15:04"
	Frequency     models.Frequency  `json:"frequency"`
	PromoCode     string            `json:"promoCode,omitempty"`
}

// BookingService owns the booking lifecycle state machine: status
// transitions, the cancellation/refund policy, and the reschedule
// negotiation. Every transition is guarded by optimistic concurrency;
// a lost race surfaces as a stateConflict error and the caller must
// re-read before retrying.
type BookingService interface {
	CreateBooking(req CreateBookingRequest) (*models.Booking, error)
	GetBooking(id string) (*models.Booking, error)
	ListUserBookings(userID string) ([]models.Booking, error)

	// Admin approval on a pending booking.
	AcceptBooking(id string) (*models.Booking, error)
	RejectBooking(id, reason string) (*models.Booking, error)

	// Customer cancellation with an advisory refund quote.
	CancelBooking(id, userID, reason string) (*models.Booking, *models.RefundQuote, error)
	// Admin cancellation opening a reschedule offer: the customer picks
	// between the refund path and rebooking, never both.
	AdminCancelBooking(id, reason string) (*models.Booking, error)
	RescheduleBooking(id, userID, newDate, newTime string) (*models.Booking, error)
	ApproveReschedule(id string) (*models.Booking, error)

	StartBooking(id string) (*models.Booking, error)
	CompleteBooking(id, notes string) (*models.Booking, error)
	MarkNoShow(id string) (*models.Booking, error)

	AddReview(id, userID string, rating int, review string) (*models.Booking, error)

	GetAvailableSlots(date string) ([]string, error)
	GetRescheduleSlots(date string) ([]string, error)
}
