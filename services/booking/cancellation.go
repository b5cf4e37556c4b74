package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"autoshine/models"
	"autoshine/services/pricing"
)

// RefundQuoteFor derives the advisory refund for a booking cancelled
// at cancelledAt, measured against the scheduled slot:
//
//	>= FullRefundHours before the slot: 100%
//	>= HalfRefundHours before the slot: 50%
//	otherwise: 0%
//
// It is a pure function of the stored timestamps and rules, so the
// quote can be re-derived idempotently at any later point.
func RefundQuoteFor(b *models.Booking, cancelledAt time.Time, rules pricing.Rules, loc *time.Location) (models.RefundQuote, error) {
	scheduledAt, err := b.ScheduledAt(loc)
	if err != nil {
		return models.RefundQuote{}, NewValidationError("booking %s has an unparseable schedule", b.ID)
	}

	hours := scheduledAt.Sub(cancelledAt).Hours()
	switch {
	case hours >= rules.FullRefundHours:
		return models.RefundQuote{
			Amount:  pricing.RoundCents(b.TotalAmount),
			Percent: 100,
			Tier:    "full",
		}, nil
	case hours >= rules.HalfRefundHours:
		return models.RefundQuote{
			Amount:  pricing.RoundCents(b.TotalAmount * 0.5),
			Percent: 50,
			Tier:    "half",
		}, nil
	default:
		return models.RefundQuote{Amount: 0, Percent: 0, Tier: "none"}, nil
	}
}

// CancelBooking cancels a pending or confirmed booking on behalf of
// its owner and returns the refund quote that applied. The quote is
// handed to the payment collaborator; no money moves here.
func (s *DefaultBookingService) CancelBooking(id, userID, reason string) (*models.Booking, *models.RefundQuote, error) {
	if reason == "" {
		return nil, nil, NewValidationError("a cancellation reason is required")
	}
	b, err := s.GetBooking(id)
	if err != nil {
		return nil, nil, err
	}
	if b.UserID != userID {
		return nil, nil, NewPolicyViolationError("booking %s does not belong to user %s", id, userID)
	}
	if b.Status.IsTerminal() {
		return nil, nil, NewPolicyViolationError("booking %s is already %s", id, b.Status)
	}
	if b.Status != models.StatusPending && b.Status != models.StatusConfirmed {
		return nil, nil, NewStateConflictError("cannot cancel booking %s in status %s", id, b.Status)
	}

	now := s.now()
	quote, err := RefundQuoteFor(b, now, s.Pricer.Rules(), s.loc())
	if err != nil {
		return nil, nil, err
	}

	b.Status = models.StatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = &now
	if err := s.update(b); err != nil {
		return nil, nil, err
	}

	if s.Payments != nil && quote.Amount > 0 && b.Payment.Status == "paid" && b.Payment.IntentRef != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, refundErr := s.Payments.Refund(ctx, b.Payment.IntentRef, quote.Amount)
		cancel()
		if refundErr != nil {
			// The quote stands; the refund is retried out of band.
			s.Logger.Error("booking: refund request failed",
				zap.String("booking", id), zap.Error(refundErr))
		}
	}

	s.notify(models.TemplateBookingCancelled, b, map[string]string{
		"reason":        reason,
		"refundPercent": quote.Tier,
	})
	s.Logger.Info("booking cancelled by customer",
		zap.String("booking", id),
		zap.Int("refundPercent", quote.Percent))
	return b, &quote, nil
}

// AdminCancelBooking cancels on the operator side and opens a
// reschedule offer: the customer chooses between a full refund and
// rebooking. Accepting a reschedule forfeits the refund path.
func (s *DefaultBookingService) AdminCancelBooking(id, reason string) (*models.Booking, error) {
	if reason == "" {
		return nil, NewValidationError("a cancellation reason is required")
	}
	b, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}
	switch b.Status {
	case models.StatusPending, models.StatusConfirmed, models.StatusInProgress:
	default:
		return nil, NewStateConflictError("cannot admin-cancel booking %s in status %s", id, b.Status)
	}

	now := s.now()
	b.Status = models.StatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = &now
	b.Reschedule = &models.RescheduleOffer{State: models.RescheduleOffered}
	if err := s.update(b); err != nil {
		return nil, err
	}

	s.notify(models.TemplateBookingCancelled, b, map[string]string{
		"reason":            reason,
		"rescheduleOffered": "true",
	})
	s.Logger.Info("booking cancelled by admin with reschedule offer",
		zap.String("booking", id), zap.String("reason", reason))
	return b, nil
}
