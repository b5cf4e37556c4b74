package booking

import (
	"go.uber.org/zap"

	"autoshine/models"
)

// AddReview records the customer's rating and review on a completed
// booking. Single-write: a second call is rejected.
func (s *DefaultBookingService) AddReview(id, userID string, rating int, review string) (*models.Booking, error) {
	if rating < 1 || rating > 5 {
		return nil, NewValidationError("rating must be between 1 and 5, got %d", rating)
	}
	b, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, NewPolicyViolationError("booking %s does not belong to user %s", id, userID)
	}
	if b.Status != models.StatusCompleted {
		return nil, NewPolicyViolationError("booking %s is not completed, cannot review", id)
	}
	if b.Rating != 0 {
		return nil, NewPolicyViolationError("booking %s already has a review", id)
	}

	now := s.now()
	b.Rating = rating
	b.Review = review
	b.ReviewedAt = &now
	if err := s.update(b); err != nil {
		return nil, err
	}

	s.Logger.Info("review added", zap.String("booking", id), zap.Int("rating", rating))
	return b, nil
}
