package subscription

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"autoshine/models"
)

// ProcessDueServices sweeps active subscriptions whose due date has
// arrived and materializes each into one pending booking.
//
// Unlike a manually created booking, a subscription-spawned booking is
// re-priced at generation time against the current catalog. The run
// marker makes the sweep safe under overlap: only the first attempt
// for a (subscription, due date) pair creates a booking; the rest are
// silent no-ops.
func (s *DefaultSubscriptionService) ProcessDueServices() (int, error) {
	now := s.now()
	due, err := s.Repo.ListDue(now)
	if err != nil {
		return 0, fmt.Errorf("list due subscriptions: %w", err)
	}

	materialized := 0
	for i := range due {
		sub := due[i]
		created, err := s.materialize(&sub)
		if created {
			materialized++
		}
		if err != nil {
			// One bad subscription must not stall the sweep.
			s.Logger.Error("subscription sweep: materialization failed",
				zap.String("subscription", sub.ID), zap.Error(err))
		}
	}
	return materialized, nil
}

func (s *DefaultSubscriptionService) materialize(sub *models.Subscription) (bool, error) {
	dueDate := sub.NextDueDate.In(s.loc()).Format("2006-01-02")
	bookingID := uuid.New().String()

	ok, err := s.Repo.TryMarkRun(sub.ID, dueDate, bookingID)
	if err != nil {
		return false, fmt.Errorf("mark run: %w", err)
	}
	if !ok {
		// A concurrent or earlier sweep owns this due date. Still
		// advance the due date so a sweep that died between creating
		// the booking and advancing does not leave the subscription
		// due forever; a lost CAS here means the owner got there first.
		s.Logger.Debug("subscription sweep: due date already handled",
			zap.String("subscription", sub.ID), zap.String("dueDate", dueDate))
		sub.NextDueDate = models.NextInterval(sub.NextDueDate, sub.Frequency)
		if err := s.update(sub); err != nil {
			s.Logger.Debug("subscription sweep: concurrent due-date advance",
				zap.String("subscription", sub.ID), zap.Error(err))
		}
		return false, nil
	}

	dueAt := sub.NextDueDate
	breakdown := s.Pricer.CalculateTotalPrice(sub.Items, nil, sub.Frequency, dueAt)

	items := make([]models.BookingItem, 0, len(sub.Items))
	for _, item := range sub.Items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, models.BookingItem{
			ServiceName:    item.Name,
			Quantity:       qty,
			PriceAtBooking: s.Pricer.UnitPriceAt(item.Name, dueAt),
		})
	}

	b := &models.Booking{
		ID:             bookingID,
		UserID:         sub.UserID,
		Items:          items,
		Vehicle:        sub.Vehicle,
		Address:        sub.Address,
		ScheduledDate:  dueDate,
		ScheduledTime:  sub.ScheduledTime,
		Frequency:      sub.Frequency,
		Status:         models.StatusPending,
		TotalAmount:    breakdown.Total,
		Breakdown:      breakdown,
		Payment:        models.PaymentInfo{Status: "pending"},
		SubscriptionID: sub.ID,
	}
	if err := s.BookingRepo.Create(b); err != nil {
		return false, fmt.Errorf("create booking: %w", err)
	}

	sub.NextDueDate = models.NextInterval(sub.NextDueDate, sub.Frequency)
	if err := s.update(sub); err != nil {
		// The booking exists and the run marker prevents a duplicate;
		// the stale due date resolves on the next CAS retry.
		return true, fmt.Errorf("advance due date: %w", err)
	}

	if s.Notifier != nil {
		s.Notifier.Notify(context.Background(), models.NotificationPayload{
			Template:  models.TemplateSubscriptionBooked,
			UserID:    sub.UserID,
			BookingID: b.ID,
			Data: map[string]string{
				"date":  b.ScheduledDate,
				"time":  b.ScheduledTime,
				"total": fmt.Sprintf("%.2f", b.TotalAmount),
			},
			QueuedAt: s.now(),
		})
	}

	s.Logger.Info("subscription materialized",
		zap.String("subscription", sub.ID),
		zap.String("booking", b.ID),
		zap.String("dueDate", dueDate))
	return true, nil
}
