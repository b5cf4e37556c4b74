package booking

import (
	"time"

	"go.uber.org/zap"

	"autoshine/models"
)

// RescheduleBooking lets the customer answer an open reschedule offer
// with a new slot. The booking stays externally cancelled with the
// offer pending until the admin approves the slot.
func (s *DefaultBookingService) RescheduleBooking(id, userID, newDate, newTime string) (*models.Booking, error) {
	b, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, NewPolicyViolationError("booking %s does not belong to user %s", id, userID)
	}
	if b.Reschedule == nil {
		return nil, NewPolicyViolationError("booking %s has no open reschedule offer", id)
	}
	if b.Reschedule.State != models.RescheduleOffered {
		return nil, NewPolicyViolationError("reschedule for booking %s is already %s", id, b.Reschedule.State)
	}

	newAt, err := time.ParseInLocation("2006-01-02 15:04", newDate+" "+newTime, s.loc())
	if err != nil {
		return nil, NewValidationError("invalid reschedule slot %q %q", newDate, newTime)
	}
	if newAt.Before(s.now()) {
		return nil, NewValidationError("reschedule slot %s %s is in the past", newDate, newTime)
	}

	free, err := s.GetRescheduleSlots(newDate)
	if err != nil {
		return nil, err
	}
	if !containsSlot(free, newTime) {
		return nil, NewValidationError("slot %s on %s is not available", newTime, newDate)
	}

	b.Reschedule.State = models.ReschedulePending
	b.Reschedule.NewDate = newDate
	b.Reschedule.NewTime = newTime
	if err := s.update(b); err != nil {
		return nil, err
	}

	s.notify(models.TemplateReschedulePending, b, map[string]string{
		"newDate": newDate,
		"newTime": newTime,
	})
	s.Logger.Info("reschedule requested",
		zap.String("booking", id), zap.String("newDate", newDate), zap.String("newTime", newTime))
	return b, nil
}

// ApproveReschedule confirms the customer's requested slot (admin).
// The booking returns to confirmed at the new slot and the refund path
// is forfeited.
func (s *DefaultBookingService) ApproveReschedule(id string) (*models.Booking, error) {
	b, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}
	if b.Reschedule == nil || b.Reschedule.State != models.ReschedulePending {
		return nil, NewPolicyViolationError("booking %s has no reschedule awaiting approval", id)
	}

	b.ScheduledDate = b.Reschedule.NewDate
	b.ScheduledTime = b.Reschedule.NewTime
	b.Status = models.StatusConfirmed
	b.Reschedule.State = models.RescheduleAccepted
	if err := s.update(b); err != nil {
		return nil, err
	}

	s.notify(models.TemplateBookingAccepted, b, map[string]string{
		"date":        b.ScheduledDate,
		"time":        b.ScheduledTime,
		"rescheduled": "true",
	})
	s.Logger.Info("reschedule approved", zap.String("booking", id))
	return b, nil
}

func containsSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
