package booking

import (
	"autoshine/models"

	"go.uber.org/zap"
)

// AcceptBooking moves a pending booking to confirmed (admin).
func (s *DefaultBookingService) AcceptBooking(id string) (*models.Booking, error) {
	b, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusPending {
		return nil, NewStateConflictError("cannot accept booking %s in status %s", id, b.Status)
	}

	b.Status = models.StatusConfirmed
	if err := s.update(b); err != nil {
		return nil, err
	}

	s.notify(models.TemplateBookingAccepted, b, map[string]string{
		"date": b.ScheduledDate,
		"time": b.ScheduledTime,
	})
	s.Logger.Info("booking accepted", zap.String("booking", id))
	return b, nil
}

// RejectBooking moves a pending booking to cancelled with a mandatory
// reason (admin).
func (s *DefaultBookingService) RejectBooking(id, reason string) (*models.Booking, error) {
	if reason == "" {
		return nil, NewValidationError("a rejection reason is required")
	}
	b, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusPending {
		return nil, NewStateConflictError("cannot reject booking %s in status %s", id, b.Status)
	}

	now := s.now()
	b.Status = models.StatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = &now
	if err := s.update(b); err != nil {
		return nil, err
	}

	s.notify(models.TemplateBookingCancelled, b, map[string]string{"reason": reason})
	s.Logger.Info("booking rejected", zap.String("booking", id), zap.String("reason", reason))
	return b, nil
}

// StartBooking moves a confirmed booking to in-progress (admin).
func (s *DefaultBookingService) StartBooking(id string) (*models.Booking, error) {
	b, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusConfirmed {
		return nil, NewStateConflictError("cannot start booking %s in status %s", id, b.Status)
	}

	b.Status = models.StatusInProgress
	if err := s.update(b); err != nil {
		return nil, err
	}
	s.Logger.Info("booking started", zap.String("booking", id))
	return b, nil
}

// CompleteBooking marks a confirmed or in-progress booking completed,
// stamps completedAt, and opens the ratings window (admin).
func (s *DefaultBookingService) CompleteBooking(id, notes string) (*models.Booking, error) {
	b, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusConfirmed && b.Status != models.StatusInProgress {
		return nil, NewStateConflictError("cannot complete booking %s in status %s", id, b.Status)
	}

	now := s.now()
	b.Status = models.StatusCompleted
	b.CompletedAt = &now
	b.CompletionNotes = notes
	if err := s.update(b); err != nil {
		return nil, err
	}

	s.notify(models.TemplateBookingCompleted, b, nil)
	s.notify(models.TemplateReviewRequest, b, nil)
	s.Logger.Info("booking completed", zap.String("booking", id))
	return b, nil
}

// MarkNoShow marks a confirmed or in-progress booking as a no-show
// (admin only, terminal).
func (s *DefaultBookingService) MarkNoShow(id string) (*models.Booking, error) {
	b, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusConfirmed && b.Status != models.StatusInProgress {
		return nil, NewStateConflictError("cannot mark booking %s as no-show in status %s", id, b.Status)
	}

	b.Status = models.StatusNoShow
	if err := s.update(b); err != nil {
		return nil, err
	}
	s.Logger.Info("booking marked no-show", zap.String("booking", id))
	return b, nil
}
