package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "autoshine/database/repository/booking"
	catalogRepo "autoshine/database/repository/catalog"
	subscriptionRepo "autoshine/database/repository/subscription"
	"autoshine/models"
	"autoshine/services/booking"
	"autoshine/services/notification"
	"autoshine/services/pricing"
)

// DefaultSubscriptionService is the production implementation of
// SubscriptionService. It shares the booking error taxonomy so callers
// see one set of failure codes across the whole lifecycle surface.
type DefaultSubscriptionService struct {
	Repo        subscriptionRepo.SubscriptionRepository
	BookingRepo bookingRepo.BookingRepository
	Catalog     pricing.Catalog
	Pricer      *pricing.Engine
	Notifier    notification.NotificationService
	Logger      *zap.Logger

	Now      func() time.Time
	Location *time.Location
}

func NewDefaultSubscriptionService(
	repo subscriptionRepo.SubscriptionRepository,
	bookings bookingRepo.BookingRepository,
	catalog pricing.Catalog,
	pricer *pricing.Engine,
	notifier notification.NotificationService,
	logger *zap.Logger,
) *DefaultSubscriptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultSubscriptionService{
		Repo:        repo,
		BookingRepo: bookings,
		Catalog:     catalog,
		Pricer:      pricer,
		Notifier:    notifier,
		Logger:      logger,
		Now:         time.Now,
		Location:    time.UTC,
	}
}

func (s *DefaultSubscriptionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultSubscriptionService) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

func (s *DefaultSubscriptionService) CreateSubscription(req CreateSubscriptionRequest) (*models.Subscription, error) {
	if req.UserID == "" {
		return nil, booking.NewValidationError("userId is required")
	}
	if len(req.Services) == 0 {
		return nil, booking.NewValidationError("at least one service is required")
	}
	if req.Frequency == models.FrequencyOneTime || !models.IsValidFrequency(req.Frequency) {
		return nil, booking.NewValidationError("subscriptions require a recurring frequency, got %q", req.Frequency)
	}
	if !models.IsValidVehicleType(req.Vehicle.Type) {
		return nil, booking.NewValidationError("unknown vehicle type %q", req.Vehicle.Type)
	}
	if req.Address == "" {
		return nil, booking.NewValidationError("address is required")
	}
	if _, err := time.Parse("15:04", req.ScheduledTime); err != nil {
		return nil, booking.NewValidationError("scheduledTime must be HH:MM, got %q", req.ScheduledTime)
	}
	start, err := time.ParseInLocation("2006-01-02", req.StartDate, s.loc())
	if err != nil {
		return nil, booking.NewValidationError("startDate must be an ISO date, got %q", req.StartDate)
	}

	for _, item := range append(append([]models.CartItem{}, req.Services...), req.Addons...) {
		if _, err := s.Catalog.FindByName(item.Name); err != nil {
			if errors.Is(err, catalogRepo.ErrNotFound) {
				return nil, booking.NewValidationError("unknown service or add-on %q", item.Name)
			}
			return nil, fmt.Errorf("catalog lookup: %w", err)
		}
	}

	items := append(append([]models.CartItem{}, req.Services...), req.Addons...)
	sub := &models.Subscription{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		Items:         items,
		Vehicle:       req.Vehicle,
		Address:       req.Address,
		ScheduledTime: req.ScheduledTime,
		Frequency:     req.Frequency,
		Status:        models.SubscriptionActive,
		NextDueDate:   models.NextInterval(start, req.Frequency),
	}

	if err := s.Repo.Create(sub); err != nil {
		return nil, fmt.Errorf("persist subscription: %w", err)
	}

	if s.Notifier != nil {
		s.Notifier.Notify(context.Background(), models.NotificationPayload{
			Template: models.TemplateSubscriptionCreated,
			UserID:   sub.UserID,
			Data: map[string]string{
				"frequency": string(sub.Frequency),
				"nextDue":   sub.NextDueDate.Format("2006-01-02"),
			},
			QueuedAt: s.now(),
		})
	}

	s.Logger.Info("subscription created",
		zap.String("subscription", sub.ID),
		zap.String("frequency", string(sub.Frequency)))
	return sub, nil
}

func (s *DefaultSubscriptionService) GetSubscription(id string) (*models.Subscription, error) {
	sub, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, subscriptionRepo.ErrNotFound) {
			return nil, booking.NewNotFoundError("subscription %s not found", id)
		}
		return nil, err
	}
	return sub, nil
}

func (s *DefaultSubscriptionService) ListUserSubscriptions(userID string) ([]models.Subscription, error) {
	return s.Repo.ListByUser(userID)
}

func (s *DefaultSubscriptionService) ownedBy(sub *models.Subscription, userID string) error {
	if sub.UserID != userID {
		return booking.NewPolicyViolationError("subscription %s does not belong to user %s", sub.ID, userID)
	}
	return nil
}

func (s *DefaultSubscriptionService) update(sub *models.Subscription) error {
	if err := s.Repo.UpdateWithVersion(sub, sub.Version); err != nil {
		if errors.Is(err, subscriptionRepo.ErrVersionConflict) {
			return booking.NewStateConflictError("subscription %s was modified concurrently, re-read and retry", sub.ID)
		}
		if errors.Is(err, subscriptionRepo.ErrNotFound) {
			return booking.NewNotFoundError("subscription %s not found", sub.ID)
		}
		return err
	}
	return nil
}

func (s *DefaultSubscriptionService) PauseSubscription(id, userID string) (*models.Subscription, error) {
	sub, err := s.GetSubscription(id)
	if err != nil {
		return nil, err
	}
	if err := s.ownedBy(sub, userID); err != nil {
		return nil, err
	}
	if sub.Status != models.SubscriptionActive {
		return nil, booking.NewStateConflictError("cannot pause subscription %s in status %s", id, sub.Status)
	}

	sub.Status = models.SubscriptionPaused
	if err := s.update(sub); err != nil {
		return nil, err
	}
	s.Logger.Info("subscription paused", zap.String("subscription", id))
	return sub, nil
}

func (s *DefaultSubscriptionService) ResumeSubscription(id, userID string) (*models.Subscription, error) {
	sub, err := s.GetSubscription(id)
	if err != nil {
		return nil, err
	}
	if err := s.ownedBy(sub, userID); err != nil {
		return nil, err
	}
	if sub.Status != models.SubscriptionPaused {
		return nil, booking.NewStateConflictError("cannot resume subscription %s in status %s", id, sub.Status)
	}

	sub.Status = models.SubscriptionActive
	// Snap an elapsed due date forward to the next future occurrence;
	// occurrences missed while paused are never back-filled.
	now := s.now()
	for !sub.NextDueDate.After(now) {
		sub.NextDueDate = models.NextInterval(sub.NextDueDate, sub.Frequency)
	}
	if err := s.update(sub); err != nil {
		return nil, err
	}
	s.Logger.Info("subscription resumed",
		zap.String("subscription", id),
		zap.Time("nextDue", sub.NextDueDate))
	return sub, nil
}

func (s *DefaultSubscriptionService) CancelSubscription(id, userID string) (*models.Subscription, error) {
	sub, err := s.GetSubscription(id)
	if err != nil {
		return nil, err
	}
	if err := s.ownedBy(sub, userID); err != nil {
		return nil, err
	}
	if sub.Status == models.SubscriptionCancelled {
		return nil, booking.NewStateConflictError("subscription %s is already cancelled", id)
	}

	sub.Status = models.SubscriptionCancelled
	if err := s.update(sub); err != nil {
		return nil, err
	}
	s.Logger.Info("subscription cancelled", zap.String("subscription", id))
	return sub, nil
}
