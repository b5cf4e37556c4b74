package bookingRepo

import (
	"errors"

	"autoshine/models"
)

var (
	// ErrNotFound is returned when no booking with the requested id exists.
	ErrNotFound = errors.New("booking not found")
	// ErrVersionConflict is returned when an update loses the
	// compare-and-swap race on the booking version. Callers must
	// re-read the booking before retrying.
	ErrVersionConflict = errors.New("booking version conflict")
)

// BookingRepository provides persistence for booking records.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	// UpdateWithVersion replaces the booking document only when the
	// stored version still equals expectedVersion; the stored version
	// is incremented on success. Returns ErrVersionConflict otherwise.
	UpdateWithVersion(booking *models.Booking, expectedVersion int64) error
	ListByUser(userID string) ([]models.Booking, error)
	// ListByStatusAndDate returns bookings on the given scheduled date
	// whose status is one of the provided set. Used by slot queries.
	ListByStatusAndDate(date string, statuses []models.BookingStatus) ([]models.Booking, error)
	// ListPendingReschedules returns cancelled bookings whose pending
	// reschedule request targets the given date. Those requests hold
	// their target slot until the admin decides.
	ListPendingReschedules(date string) ([]models.Booking, error)
}
