package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "autoshine/database/repository/booking"
	catalogRepo "autoshine/database/repository/catalog"
	"autoshine/models"
	"autoshine/services/notification"
	"autoshine/services/payment"
	"autoshine/services/pricing"
	"autoshine/services/promo"
)

// DefaultBookingService is the production implementation of BookingService.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Catalog  pricing.Catalog
	Pricer   *pricing.Engine
	Promo    promo.Validator
	Payments payment.PaymentProcessor
	Notifier notification.NotificationService
	Logger   *zap.Logger

	// Now and Location are injectable for deterministic tests.
	Now      func() time.Time
	Location *time.Location
}

func NewDefaultBookingService(
	repo bookingRepo.BookingRepository,
	catalog pricing.Catalog,
	pricer *pricing.Engine,
	promoValidator promo.Validator,
	payments payment.PaymentProcessor,
	notifier notification.NotificationService,
	logger *zap.Logger,
) *DefaultBookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Repo:     repo,
		Catalog:  catalog,
		Pricer:   pricer,
		Promo:    promoValidator,
		Payments: payments,
		Notifier: notifier,
		Logger:   logger,
		Now:      time.Now,
		Location: time.UTC,
	}
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingService) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

// CreateBooking validates the cart, prices it, and persists the
// booking in pending status. The stored unit prices and breakdown are
// frozen: later catalog edits never change this booking's amounts.
func (s *DefaultBookingService) CreateBooking(req CreateBookingRequest) (*models.Booking, error) {
	if err := s.validateCreateRequest(&req); err != nil {
		return nil, err
	}

	scheduledAt, err := time.ParseInLocation("2006-01-02 15:04", req.ScheduledDate+" "+req.ScheduledTime, s.loc())
	if err != nil {
		return nil, NewValidationError("invalid scheduled date/time %q %q", req.ScheduledDate, req.ScheduledTime)
	}
	if scheduledAt.Before(s.now()) {
		return nil, NewValidationError("scheduled slot %s %s is in the past", req.ScheduledDate, req.ScheduledTime)
	}

	breakdown := s.Pricer.CalculateTotalPrice(req.Services, req.Addons, req.Frequency, scheduledAt)

	if req.PromoCode != "" {
		result, err := s.Promo.ValidatePromoCode(req.PromoCode, breakdown.DiscountedSubtotal)
		if err != nil {
			return nil, fmt.Errorf("promo validation: %w", err)
		}
		if !result.Valid {
			return nil, NewValidationError("promo code rejected: %s", result.Message)
		}
		breakdown = s.Pricer.ApplyPromo(breakdown, req.PromoCode, result.DiscountAmount)
	}

	items := make([]models.BookingItem, 0, len(req.Services)+len(req.Addons))
	for _, item := range append(append([]models.CartItem{}, req.Services...), req.Addons...) {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, models.BookingItem{
			ServiceName:    item.Name,
			Quantity:       qty,
			PriceAtBooking: s.Pricer.UnitPriceAt(item.Name, scheduledAt),
		})
	}

	b := &models.Booking{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		Items:         items,
		Vehicle:       req.Vehicle,
		Address:       req.Address,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		Frequency:     req.Frequency,
		Status:        models.StatusPending,
		TotalAmount:   breakdown.Total,
		Breakdown:     breakdown,
		Payment:       models.PaymentInfo{Status: "pending"},
	}

	if err := s.Repo.Create(b); err != nil {
		return nil, fmt.Errorf("persist booking: %w", err)
	}

	if breakdown.PromoCode != "" {
		s.Promo.RecordUse(breakdown.PromoCode)
	}

	// Payment intent creation is best-effort at checkout; capture and
	// webhooks live with the payment collaborator.
	if s.Payments != nil && b.TotalAmount > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		intentRef, err := s.Payments.CreateIntent(ctx, b.TotalAmount, "usd", "booking-"+b.ID)
		cancel()
		if err != nil {
			s.Logger.Warn("booking: payment intent creation failed",
				zap.String("booking", b.ID), zap.Error(err))
		} else {
			prev := b.Version
			b.Payment.IntentRef = intentRef
			if err := s.Repo.UpdateWithVersion(b, prev); err != nil {
				s.Logger.Warn("booking: failed to store intent ref",
					zap.String("booking", b.ID), zap.Error(err))
			}
		}
	}

	s.notify(models.TemplateBookingConfirmation, b, map[string]string{
		"total": fmt.Sprintf("%.2f", b.TotalAmount),
		"date":  b.ScheduledDate,
		"time":  b.ScheduledTime,
	})

	s.Logger.Info("booking created",
		zap.String("booking", b.ID),
		zap.String("user", b.UserID),
		zap.Float64("total", b.TotalAmount))
	return b, nil
}

func (s *DefaultBookingService) validateCreateRequest(req *CreateBookingRequest) error {
	if req.UserID == "" {
		return NewValidationError("userId is required")
	}
	if len(req.Services) == 0 {
		return NewValidationError("at least one service is required")
	}
	if req.Frequency == "" {
		req.Frequency = models.FrequencyOneTime
	}
	if !models.IsValidFrequency(req.Frequency) {
		return NewValidationError("unknown frequency %q", req.Frequency)
	}
	if !models.IsValidVehicleType(req.Vehicle.Type) {
		return NewValidationError("unknown vehicle type %q", req.Vehicle.Type)
	}
	if req.Address == "" {
		return NewValidationError("address is required")
	}
	if _, err := time.Parse("2006-01-02", req.ScheduledDate); err != nil {
		return NewValidationError("scheduledDate must be an ISO date, got %q", req.ScheduledDate)
	}
	if _, err := time.Parse("15:04", req.ScheduledTime); err != nil {
		return NewValidationError("scheduledTime must be HH:MM, got %q", req.ScheduledTime)
	}

	for _, item := range append(append([]models.CartItem{}, req.Services...), req.Addons...) {
		if item.Quantity < 0 {
			return NewValidationError("negative quantity for %q", item.Name)
		}
	}

	// Cart shape checks against the catalog. Unknown service names are
	// rejected at checkout even though the pricing engine would degrade
	// them to zero: a customer cart must reference real offerings.
	serviceNames := make(map[string]bool, len(req.Services))
	for _, item := range req.Services {
		offering, err := s.Catalog.FindByName(item.Name)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrNotFound) {
				return NewValidationError("unknown service %q", item.Name)
			}
			return fmt.Errorf("catalog lookup: %w", err)
		}
		if !offering.IsActive {
			return NewValidationError("service %q is not currently offered", item.Name)
		}
		if offering.IsAddon() {
			return NewValidationError("%q is an add-on and cannot be booked standalone", item.Name)
		}
		serviceNames[item.Name] = true
	}
	for _, item := range req.Addons {
		offering, err := s.Catalog.FindByName(item.Name)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrNotFound) {
				return NewValidationError("unknown add-on %q", item.Name)
			}
			return fmt.Errorf("catalog lookup: %w", err)
		}
		if !offering.IsAddon() {
			return NewValidationError("%q is not an add-on", item.Name)
		}
		attachable := false
		for name := range serviceNames {
			if offering.CanAttachTo(name) {
				attachable = true
				break
			}
		}
		if !attachable {
			return NewValidationError("add-on %q cannot combine with the selected services", item.Name)
		}
	}
	return nil
}

func (s *DefaultBookingService) GetBooking(id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewNotFoundError("booking %s not found", id)
		}
		return nil, err
	}
	return b, nil
}

func (s *DefaultBookingService) ListUserBookings(userID string) ([]models.Booking, error) {
	return s.Repo.ListByUser(userID)
}

// update writes b back with CAS, translating a lost race into a
// stateConflict error the caller can retry after re-reading.
func (s *DefaultBookingService) update(b *models.Booking) error {
	if err := s.Repo.UpdateWithVersion(b, b.Version); err != nil {
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			return NewStateConflictError("booking %s was modified concurrently, re-read and retry", b.ID)
		}
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return NewNotFoundError("booking %s not found", b.ID)
		}
		return err
	}
	return nil
}

func (s *DefaultBookingService) notify(template string, b *models.Booking, data map[string]string) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Notify(context.Background(), models.NotificationPayload{
		Template:  template,
		UserID:    b.UserID,
		BookingID: b.ID,
		Data:      data,
		QueuedAt:  s.now(),
	})
}
