package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingRepo "autoshine/database/repository/booking"
	catalogRepo "autoshine/database/repository/catalog"
	"autoshine/models"
	"autoshine/services/payment"
	"autoshine/services/pricing"
)

// fakeBookingRepo is an in-memory BookingRepository with real
// version-check semantics.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[string]*models.Booking{}}
}

func (r *fakeBookingRepo) Create(b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.Version = 1
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) UpdateWithVersion(b *models.Booking, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[b.ID]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return bookingRepo.ErrVersionConflict
	}
	b.Version = expectedVersion + 1
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) ListByUser(userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByStatusAndDate(date string, statuses []models.BookingStatus) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ScheduledDate != date {
			continue
		}
		for _, st := range statuses {
			if b.Status == st {
				out = append(out, *b)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListPendingReschedules(date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status == models.StatusCancelled &&
			b.Reschedule != nil &&
			b.Reschedule.State == models.ReschedulePending &&
			b.Reschedule.NewDate == date {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakeTestCatalog struct {
	offerings map[string]*models.ServiceOffering
}

func (f *fakeTestCatalog) FindByName(name string) (*models.ServiceOffering, error) {
	if o, ok := f.offerings[name]; ok {
		return o, nil
	}
	return nil, catalogRepo.ErrNotFound
}

type fakePromoValidator struct {
	result models.PromoResult
	used   []string
}

func (f *fakePromoValidator) ValidatePromoCode(code string, subtotal float64) (models.PromoResult, error) {
	return f.result, nil
}

func (f *fakePromoValidator) RecordUse(code string) {
	f.used = append(f.used, code)
}

type fakePayments struct {
	intents []float64
	refunds []float64
}

func (f *fakePayments) CreateIntent(ctx context.Context, amount float64, currency, idempotencyKey string) (string, error) {
	f.intents = append(f.intents, amount)
	return "pi_test", nil
}

func (f *fakePayments) Refund(ctx context.Context, intentRef string, amount float64) (payment.RefundResult, error) {
	f.refunds = append(f.refunds, amount)
	return payment.RefundResult{RefundRef: "re_test", Status: "succeeded"}, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	payloads []models.NotificationPayload
}

func (f *fakeNotifier) Notify(ctx context.Context, p models.NotificationPayload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
}

func (f *fakeNotifier) templates() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.payloads))
	for _, p := range f.payloads {
		out = append(out, p.Template)
	}
	return out
}

// clock is a fixed point mid-day on June 1st, inside the peak season.
var clock = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func testOfferings() map[string]*models.ServiceOffering {
	return map[string]*models.ServiceOffering{
		"full-detail": {
			Name:      "full-detail",
			BasePrice: 100.00,
			Category:  models.CategoryFull,
			IsActive:  true,
		},
		"exterior-wash": {
			Name:      "exterior-wash",
			BasePrice: 40.00,
			Category:  models.CategoryExterior,
			IsActive:  true,
		},
		"ceramic-coating": {
			Name:           "ceramic-coating",
			BasePrice:      20.00,
			Category:       models.CategoryAddon,
			CanCombineWith: []string{"full-detail"},
			IsActive:       true,
		},
		"retired-wax": {
			Name:      "retired-wax",
			BasePrice: 15.00,
			Category:  models.CategoryExterior,
			IsActive:  false,
		},
	}
}

type testEnv struct {
	svc      *DefaultBookingService
	repo     *fakeBookingRepo
	payments *fakePayments
	notifier *fakeNotifier
	promo    *fakePromoValidator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cat := &fakeTestCatalog{offerings: testOfferings()}
	repo := newFakeBookingRepo()
	payments := &fakePayments{}
	notifier := &fakeNotifier{}
	promoV := &fakePromoValidator{result: models.PromoResult{Valid: false, Message: "Invalid promo code"}}

	pricer := pricing.NewEngine(pricing.DefaultRules(), cat, nil)
	svc := NewDefaultBookingService(repo, cat, pricer, promoV, payments, notifier, nil)
	svc.Now = func() time.Time { return clock }
	return &testEnv{svc: svc, repo: repo, payments: payments, notifier: notifier, promo: promoV}
}

func validRequest() CreateBookingRequest {
	return CreateBookingRequest{
		UserID:        "user-1",
		Services:      []models.CartItem{{Name: "full-detail", Quantity: 1}},
		Vehicle:       models.Vehicle{Type: "sedan", Make: "Honda", Model: "Civic"},
		Address:       "42 Elm Street",
		ScheduledDate: "2025-06-03",
		ScheduledTime: "10:00",
		Frequency:     models.FrequencyOneTime,
	}
}
