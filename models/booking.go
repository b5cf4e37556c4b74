package models

import (
	"encoding/json"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no-show"
)

// IsTerminal reports whether no further status transition is permitted.
// The reschedule sub-flow on a cancelled booking is not a status
// transition until the admin approves the new slot.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// RescheduleState tags the sub-state of an admin-cancelled booking.
type RescheduleState string

const (
	// RescheduleOffered: the admin cancelled and offered the customer a
	// choice between a refund and rebooking.
	RescheduleOffered RescheduleState = "offered"
	// ReschedulePending: the customer submitted a new slot, awaiting
	// admin approval.
	ReschedulePending RescheduleState = "pending"
	// RescheduleAccepted: the admin approved the new slot; the booking
	// is confirmed again and the refund path is forfeited.
	RescheduleAccepted RescheduleState = "accepted"
)

// RescheduleOffer is the tagged variant replacing the old pair of
// rescheduleOffered/rescheduleAccepted booleans. Nil means no offer.
type RescheduleOffer struct {
	State   RescheduleState `bson:"state" json:"state"`
	NewDate string          `bson:"newDate,omitempty" json:"newDate,omitempty"`
	NewTime string          `bson:"newTime,omitempty" json:"newTime,omitempty"`
}

// BookingItem is a line on a booking with the unit price frozen at
// booking time.
type BookingItem struct {
	ServiceName    string  `bson:"serviceName" json:"serviceName"`
	Quantity       int     `bson:"quantity" json:"quantity"`
	PriceAtBooking float64 `bson:"priceAtBooking" json:"priceAtBooking"` // seasonal unit price when booked
}

// PaymentInfo is the payment sub-record tracked on a booking. Charge
// capture and refunds themselves happen in the payment collaborator.
type PaymentInfo struct {
	Status    string     `bson:"status" json:"status"` // "pending", "paid", "refunded"
	IntentRef string     `bson:"intentRef,omitempty" json:"intentRef,omitempty"`
	PaidAt    *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
}

// RefundQuote is advisory refund data returned to the payment
// collaborator; the engine never moves money itself. It is re-derivable
// from the stored cancellation timestamp and the policy tiers.
type RefundQuote struct {
	Amount  float64 `json:"amount"`
	Percent int     `json:"percent"` // 100, 50 or 0
	Tier    string  `json:"tier"`    // "full", "half", "none"
}

// Booking is a concrete appointment moving through the lifecycle
// state machine.
type Booking struct {
	ID            string         `bson:"id" json:"id"`
	UserID        string         `bson:"userId" json:"userId"`
	Items         []BookingItem  `bson:"items" json:"items"`
	Vehicle       Vehicle        `bson:"vehicle" json:"vehicle"`
	Address       string         `bson:"address" json:"address"`
	ScheduledDate string         `bson:"scheduledDate" json:"scheduledDate"` // "2006-01-02"
	ScheduledTime string         `bson:"scheduledTime" json:"scheduledTime"` // "15:04"
	Frequency     Frequency      `bson:"frequency" json:"frequency"`
	Status        BookingStatus  `bson:"status" json:"status"`
	TotalAmount   float64        `bson:"totalAmount" json:"totalAmount"`
	Breakdown     PriceBreakdown `bson:"breakdown" json:"breakdown"`
	Payment       PaymentInfo    `bson:"payment" json:"payment"`

	SubscriptionID string `bson:"subscriptionId,omitempty" json:"subscriptionId,omitempty"` // set when materialized from a subscription

	CancellationReason string           `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time       `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	Reschedule         *RescheduleOffer `bson:"reschedule,omitempty" json:"reschedule,omitempty"`

	Rating          int        `bson:"rating,omitempty" json:"rating,omitempty"` // 1-5, zero means unrated
	Review          string     `bson:"review,omitempty" json:"review,omitempty"`
	ReviewedAt      *time.Time `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	CompletionNotes string     `bson:"completionNotes,omitempty" json:"completionNotes,omitempty"`
	CompletedAt     *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	Version   int64     `bson:"version" json:"-"` // optimistic concurrency guard
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RescheduleOffered reports whether the customer currently holds an
// open or in-flight reschedule offer. Kept for the external API shape.
func (b *Booking) RescheduleOffered() bool {
	return b.Reschedule != nil
}

// RescheduleAcceptedFlag reports whether a reschedule was approved.
func (b *Booking) RescheduleAcceptedFlag() bool {
	return b.Reschedule != nil && b.Reschedule.State == RescheduleAccepted
}

// MarshalJSON augments the wire form with the legacy rescheduleOffered
// and rescheduleAccepted booleans, derived from the tagged offer so
// existing API consumers keep working.
func (b Booking) MarshalJSON() ([]byte, error) {
	type plain Booking
	return json.Marshal(struct {
		plain
		RescheduleOffered  bool `json:"rescheduleOffered"`
		RescheduleAccepted bool `json:"rescheduleAccepted"`
	}{
		plain:              plain(b),
		RescheduleOffered:  b.RescheduleOffered(),
		RescheduleAccepted: b.RescheduleAcceptedFlag(),
	})
}

// ScheduledAt combines the stored date and time strings into a wall
// clock instant in loc.
func (b *Booking) ScheduledAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", b.ScheduledDate+" "+b.ScheduledTime, loc)
}
