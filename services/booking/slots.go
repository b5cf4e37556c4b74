package booking

import (
	"time"

	"autoshine/models"
)

// dayGrid is the operational slot grid: hourly starts across the
// working day. The real capacity model lives with the dispatch system;
// this core only honors the date-in, free-slots-out contract.
var dayGrid = []string{
	"08:00", "09:00", "10:00", "11:00", "12:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
}

// slotHolders are the statuses that occupy a slot.
var slotHolders = []models.BookingStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusInProgress,
}

// GetAvailableSlots returns the ordered free time slots on the given
// date, excluding those held by pending, confirmed, or in-progress
// bookings.
func (s *DefaultBookingService) GetAvailableSlots(date string) ([]string, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, NewValidationError("date must be an ISO date, got %q", date)
	}

	held, err := s.Repo.ListByStatusAndDate(date, slotHolders)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(held))
	for _, b := range held {
		taken[b.ScheduledTime] = true
	}

	// In-flight reschedule requests hold their target slot as well.
	pending, err := s.Repo.ListPendingReschedules(date)
	if err != nil {
		return nil, err
	}
	for _, b := range pending {
		if b.Reschedule != nil {
			taken[b.Reschedule.NewTime] = true
		}
	}

	free := make([]string, 0, len(dayGrid))
	for _, slot := range dayGrid {
		if !taken[slot] {
			free = append(free, slot)
		}
	}
	return free, nil
}

// GetRescheduleSlots serves the reschedule picker; the capacity rules
// are the same as for fresh bookings.
func (s *DefaultBookingService) GetRescheduleSlots(date string) ([]string, error) {
	return s.GetAvailableSlots(date)
}
