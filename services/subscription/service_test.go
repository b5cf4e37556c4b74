package subscription

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	bookingRepo "autoshine/database/repository/booking"
	catalogRepo "autoshine/database/repository/catalog"
	subscriptionRepo "autoshine/database/repository/subscription"
	"autoshine/models"
	"autoshine/services/booking"
	"autoshine/services/pricing"
)

type fakeSubRepo struct {
	mu   sync.Mutex
	subs map[string]*models.Subscription
	runs map[string]string // subscriptionID+"|"+dueDate -> bookingID
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{subs: map[string]*models.Subscription{}, runs: map[string]string{}}
}

func (r *fakeSubRepo) Create(sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub.Version = 1
	cp := *sub
	r.subs[sub.ID] = &cp
	return nil
}

func (r *fakeSubRepo) GetByID(id string) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, subscriptionRepo.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *fakeSubRepo) UpdateWithVersion(sub *models.Subscription, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.subs[sub.ID]
	if !ok {
		return subscriptionRepo.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return subscriptionRepo.ErrVersionConflict
	}
	sub.Version = expectedVersion + 1
	cp := *sub
	r.subs[sub.ID] = &cp
	return nil
}

func (r *fakeSubRepo) ListByUser(userID string) ([]models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Subscription
	for _, sub := range r.subs {
		if sub.UserID == userID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (r *fakeSubRepo) ListDue(now time.Time) ([]models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Subscription
	for _, sub := range r.subs {
		if sub.Status == models.SubscriptionActive && !sub.NextDueDate.After(now) {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (r *fakeSubRepo) TryMarkRun(subscriptionID, dueDate, bookingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := subscriptionID + "|" + dueDate
	if _, exists := r.runs[key]; exists {
		return false, nil
	}
	r.runs[key] = bookingID
	return true, nil
}

// fakeBookings records materialized bookings; only the repository
// methods the scheduler touches do real work.
type fakeBookings struct {
	mu      sync.Mutex
	created []models.Booking
}

func (r *fakeBookings) Create(b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.Version = 1
	r.created = append(r.created, *b)
	return nil
}

func (r *fakeBookings) GetByID(id string) (*models.Booking, error) {
	return nil, bookingRepo.ErrNotFound
}

func (r *fakeBookings) UpdateWithVersion(b *models.Booking, expectedVersion int64) error {
	return bookingRepo.ErrNotFound
}

func (r *fakeBookings) ListByUser(userID string) ([]models.Booking, error) { return nil, nil }

func (r *fakeBookings) ListByStatusAndDate(date string, statuses []models.BookingStatus) ([]models.Booking, error) {
	return nil, nil
}

func (r *fakeBookings) ListPendingReschedules(date string) ([]models.Booking, error) { return nil, nil }

type fixedCatalog struct{}

func (fixedCatalog) FindByName(name string) (*models.ServiceOffering, error) {
	if name == "full-detail" {
		return &models.ServiceOffering{
			Name:      "full-detail",
			BasePrice: 100.00,
			Category:  models.CategoryFull,
			IsActive:  true,
		}, nil
	}
	return nil, catalogRepo.ErrNotFound
}

var subClock = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

type subEnv struct {
	svc      *DefaultSubscriptionService
	repo     *fakeSubRepo
	bookings *fakeBookings
}

func newSubEnv(t *testing.T) *subEnv {
	t.Helper()
	repo := newFakeSubRepo()
	bookings := &fakeBookings{}
	pricer := pricing.NewEngine(pricing.DefaultRules(), fixedCatalog{}, nil)
	svc := NewDefaultSubscriptionService(repo, bookings, fixedCatalog{}, pricer, nil, nil)
	svc.Now = func() time.Time { return subClock }
	return &subEnv{svc: svc, repo: repo, bookings: bookings}
}

func validSubRequest() CreateSubscriptionRequest {
	return CreateSubscriptionRequest{
		UserID:        "user-1",
		Services:      []models.CartItem{{Name: "full-detail", Quantity: 1}},
		Vehicle:       models.Vehicle{Type: "sedan", Make: "Honda", Model: "Civic"},
		Address:       "42 Elm Street",
		StartDate:     "2025-06-01",
		ScheduledTime: "10:00",
		Frequency:     models.FrequencyWeekly,
	}
}

func TestNextInterval(t *testing.T) {
	t.Parallel()
	start := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	require.Equal(t, time.Date(2025, time.February, 7, 0, 0, 0, 0, time.UTC),
		models.NextInterval(start, models.FrequencyWeekly))
	require.Equal(t, time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC),
		models.NextInterval(start, models.FrequencyBiWeekly))
	// Calendar-month arithmetic: Jan 31 + 1 month normalizes to Mar 3.
	require.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
		models.NextInterval(start, models.FrequencyMonthly))
}

func TestCreateSubscription(t *testing.T) {
	t.Parallel()
	env := newSubEnv(t)

	sub, err := env.svc.CreateSubscription(validSubRequest())
	require.NoError(t, err)
	require.Equal(t, models.SubscriptionActive, sub.Status)
	// First due date is one interval after the start.
	require.Equal(t, time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC), sub.NextDueDate)
}

func TestCreateSubscriptionValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*CreateSubscriptionRequest)
	}{
		{"one-time frequency", func(r *CreateSubscriptionRequest) { r.Frequency = models.FrequencyOneTime }},
		{"unknown frequency", func(r *CreateSubscriptionRequest) { r.Frequency = "fortnightly" }},
		{"missing user", func(r *CreateSubscriptionRequest) { r.UserID = "" }},
		{"empty cart", func(r *CreateSubscriptionRequest) { r.Services = nil }},
		{"unknown service", func(r *CreateSubscriptionRequest) {
			r.Services = []models.CartItem{{Name: "undercoating", Quantity: 1}}
		}},
		{"bad start date", func(r *CreateSubscriptionRequest) { r.StartDate = "next week" }},
		{"bad time", func(r *CreateSubscriptionRequest) { r.ScheduledTime = "10am" }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			env := newSubEnv(t)
			req := validSubRequest()
			tc.mutate(&req)
			_, err := env.svc.CreateSubscription(req)
			require.Error(t, err)
			require.True(t, booking.IsValidation(err))
		})
	}
}

func TestPauseResumeSnapsForward(t *testing.T) {
	t.Parallel()
	env := newSubEnv(t)

	sub, err := env.svc.CreateSubscription(validSubRequest())
	require.NoError(t, err)

	// Wind the due date into the past, as if several weeks elapsed
	// while paused.
	stored, err := env.repo.GetByID(sub.ID)
	require.NoError(t, err)
	stored.NextDueDate = time.Date(2025, time.May, 4, 0, 0, 0, 0, time.UTC)
	require.NoError(t, env.repo.UpdateWithVersion(stored, stored.Version))

	_, err = env.svc.PauseSubscription(sub.ID, "user-1")
	require.NoError(t, err)

	resumed, err := env.svc.ResumeSubscription(sub.ID, "user-1")
	require.NoError(t, err)
	require.Equal(t, models.SubscriptionActive, resumed.Status)
	// May 4 + weekly intervals lands on June 8, the first occurrence
	// after the clock; May 11/18/25 and June 1 are never back-filled.
	require.Equal(t, time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC), resumed.NextDueDate)
}

func TestPauseResumeGuards(t *testing.T) {
	t.Parallel()
	env := newSubEnv(t)

	sub, err := env.svc.CreateSubscription(validSubRequest())
	require.NoError(t, err)

	_, err = env.svc.PauseSubscription(sub.ID, "someone-else")
	require.True(t, booking.IsPolicyViolation(err))

	_, err = env.svc.ResumeSubscription(sub.ID, "user-1")
	require.True(t, booking.IsStateConflict(err))

	_, err = env.svc.PauseSubscription(sub.ID, "user-1")
	require.NoError(t, err)
	_, err = env.svc.PauseSubscription(sub.ID, "user-1")
	require.True(t, booking.IsStateConflict(err))
}

func TestCancelSubscriptionIsTerminal(t *testing.T) {
	t.Parallel()
	env := newSubEnv(t)

	sub, err := env.svc.CreateSubscription(validSubRequest())
	require.NoError(t, err)

	cancelled, err := env.svc.CancelSubscription(sub.ID, "user-1")
	require.NoError(t, err)
	require.Equal(t, models.SubscriptionCancelled, cancelled.Status)

	_, err = env.svc.CancelSubscription(sub.ID, "user-1")
	require.True(t, booking.IsStateConflict(err))
	_, err = env.svc.PauseSubscription(sub.ID, "user-1")
	require.True(t, booking.IsStateConflict(err))
	_, err = env.svc.ResumeSubscription(sub.ID, "user-1")
	require.True(t, booking.IsStateConflict(err))
}

func dueSubscription(t *testing.T, env *subEnv) *models.Subscription {
	t.Helper()
	sub, err := env.svc.CreateSubscription(validSubRequest())
	require.NoError(t, err)

	stored, err := env.repo.GetByID(sub.ID)
	require.NoError(t, err)
	stored.NextDueDate = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, env.repo.UpdateWithVersion(stored, stored.Version))
	return stored
}

func TestProcessDueServicesMaterializes(t *testing.T) {
	t.Parallel()
	env := newSubEnv(t)
	sub := dueSubscription(t, env)

	count, err := env.svc.ProcessDueServices()
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Len(t, env.bookings.created, 1)

	b := env.bookings.created[0]
	require.Equal(t, sub.ID, b.SubscriptionID)
	require.Equal(t, models.StatusPending, b.Status)
	require.Equal(t, "2025-06-01", b.ScheduledDate)
	require.Equal(t, "10:00", b.ScheduledTime)
	require.Equal(t, models.FrequencyWeekly, b.Frequency)
	// Re-priced at materialization: 100 * 1.10 peak, then the weekly
	// multiplier and tax.
	require.Equal(t, 110.00, b.Breakdown.Subtotal)
	require.Equal(t, 88.00, b.Breakdown.DiscountedSubtotal)
	require.Equal(t, 95.04, b.TotalAmount)

	// The due date advanced one interval.
	after, err := env.repo.GetByID(sub.ID)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC), after.NextDueDate)
}

func TestProcessDueServicesIsIdempotent(t *testing.T) {
	t.Parallel()
	env := newSubEnv(t)
	sub := dueSubscription(t, env)

	count, err := env.svc.ProcessDueServices()
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// Rewind the due date so the subscription looks due again with the
	// same date, as an overlapping sweep would see it.
	stored, err := env.repo.GetByID(sub.ID)
	require.NoError(t, err)
	stored.NextDueDate = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, env.repo.UpdateWithVersion(stored, stored.Version))

	count, err = env.svc.ProcessDueServices()
	require.NoError(t, err)
	require.Zero(t, count)
	require.Len(t, env.bookings.created, 1)

	// The marker hit still advanced the due date, so the subscription
	// does not stay due forever.
	after, err := env.repo.GetByID(sub.ID)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC), after.NextDueDate)
}

func TestProcessDueServicesSkipsPausedAndFuture(t *testing.T) {
	t.Parallel()
	env := newSubEnv(t)

	// Future due date from creation.
	_, err := env.svc.CreateSubscription(validSubRequest())
	require.NoError(t, err)

	// A paused one that would otherwise be due.
	paused := dueSubscription(t, env)
	_, err = env.svc.PauseSubscription(paused.ID, "user-1")
	require.NoError(t, err)

	count, err := env.svc.ProcessDueServices()
	require.NoError(t, err)
	require.Zero(t, count)
	require.Empty(t, env.bookings.created)
}

func TestCancelLeavesMaterializedBookings(t *testing.T) {
	t.Parallel()
	env := newSubEnv(t)
	sub := dueSubscription(t, env)

	_, err := env.svc.ProcessDueServices()
	require.NoError(t, err)
	require.Len(t, env.bookings.created, 1)

	_, err = env.svc.CancelSubscription(sub.ID, "user-1")
	require.NoError(t, err)

	// The spawned booking is untouched by the cancellation.
	require.Len(t, env.bookings.created, 1)
	require.Equal(t, models.StatusPending, env.bookings.created[0].Status)
}
