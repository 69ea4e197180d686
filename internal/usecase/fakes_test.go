//go:build unit

package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"rental-storefront/internal/domain/booking"
	"rental-storefront/internal/domain/service"
	"rental-storefront/internal/domain/waitlist"
	"rental-storefront/internal/infra"
	"rental-storefront/internal/infra/lock"
	"rental-storefront/internal/pkg/config"
	"rental-storefront/internal/usecase"

	"github.com/google/uuid"
)

// In-memory fakes with the same error semantics as the pgx repositories:
// lookups miss with a NOT_FOUND repository error, everything else succeeds.

func notFound(msg string) error {
	return infra.WrapRepoErr(infra.KindNotFound, msg, nil)
}

type fakeServiceRepo struct {
	mu       sync.Mutex
	services map[uuid.UUID]*service.Service
}

func newFakeServiceRepo(svcs ...*service.Service) *fakeServiceRepo {
	r := &fakeServiceRepo{services: make(map[uuid.UUID]*service.Service)}
	for _, s := range svcs {
		r.services[s.ID()] = s
	}
	return r
}

func (r *fakeServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*service.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.services[id]
	if !ok {
		return nil, notFound("service not found")
	}
	return svc, nil
}

func (r *fakeServiceRepo) FindActiveByCategory(_ context.Context, category string) ([]*service.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*service.Service
	for _, svc := range r.services {
		if svc.IsActive() && svc.Category() == category {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) ListActive(_ context.Context) ([]*service.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*service.Service
	for _, svc := range r.services {
		if svc.IsActive() {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.services[id]
	return ok, nil
}

func (r *fakeServiceRepo) Save(_ context.Context, svc *service.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[svc.ID()] = svc
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*booking.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*booking.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, notFound("booking not found")
	}
	return b, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) FindCapacityHolds(_ context.Context, serviceID uuid.UUID, date time.Time) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*booking.Booking
	for _, b := range r.bookings {
		if b.ServiceID() == serviceID && b.BookingDate().Equal(date) && b.HoldsCapacity() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindScheduledDeliveries(_ context.Context, after time.Time) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*booking.Booking
	for _, b := range r.bookings {
		if b.HoldsCapacity() && b.HasDelivery() && b.DeliveryWindow().End().After(after) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountRecentByService(_ context.Context, serviceID uuid.UUID, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, b := range r.bookings {
		if b.ServiceID() == serviceID && b.CreatedAt().After(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) ListCapacityHolds(_ context.Context) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*booking.Booking
	for _, b := range r.bookings {
		if b.HoldsCapacity() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) capacityHoldCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, b := range r.bookings {
		if b.HoldsCapacity() {
			count++
		}
	}
	return count
}

type fakeWaitlistRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*waitlist.Entry
}

func newFakeWaitlistRepo() *fakeWaitlistRepo {
	return &fakeWaitlistRepo{entries: make(map[uuid.UUID]*waitlist.Entry)}
}

func (r *fakeWaitlistRepo) Create(_ context.Context, e *waitlist.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.ID()] = e
	return nil
}

func (r *fakeWaitlistRepo) FindByID(_ context.Context, id uuid.UUID) (*waitlist.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, notFound("waitlist entry not found")
	}
	return e, nil
}

func (r *fakeWaitlistRepo) Update(_ context.Context, e *waitlist.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.ID()] = e
	return nil
}

func (r *fakeWaitlistRepo) FindQueued(_ context.Context, serviceID uuid.UUID, date time.Time) ([]*waitlist.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*waitlist.Entry
	for _, e := range r.entries {
		if e.ServiceID() == serviceID && e.BookingDate().Equal(date) && e.Status() == waitlist.StatusQueued {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PriorityScore() != out[j].PriorityScore() {
			return out[i].PriorityScore() > out[j].PriorityScore()
		}
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out, nil
}

func (r *fakeWaitlistRepo) FindLapsedOffers(_ context.Context, now time.Time) ([]*waitlist.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*waitlist.Entry
	for _, e := range r.entries {
		if e.OfferLapsed(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeWaitlistRepo) FindStaleQueued(_ context.Context, now time.Time) ([]*waitlist.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*waitlist.Entry
	for _, e := range r.entries {
		if e.Status() == waitlist.StatusQueued && now.After(e.ExpiresAt()) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeWaitlistRepo) PurgeTerminalBefore(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	purged := 0
	for id, e := range r.entries {
		if e.Status().IsTerminal() && e.UpdatedAt().Before(cutoff) {
			delete(r.entries, id)
			purged++
		}
	}
	return purged, nil
}

func (r *fakeWaitlistRepo) countByStatus(status waitlist.Status) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, e := range r.entries {
		if e.Status() == status {
			count++
		}
	}
	return count
}

type fakeCustomerDirectory struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*usecase.CustomerSnapshot
}

func newFakeCustomerDirectory(snapshots ...*usecase.CustomerSnapshot) *fakeCustomerDirectory {
	d := &fakeCustomerDirectory{customers: make(map[uuid.UUID]*usecase.CustomerSnapshot)}
	for _, s := range snapshots {
		d.customers[s.ID] = s
	}
	return d
}

func (d *fakeCustomerDirectory) add(s *usecase.CustomerSnapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.customers[s.ID] = s
}

func (d *fakeCustomerDirectory) Find(_ context.Context, id uuid.UUID) (*usecase.CustomerSnapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.customers[id]
	if !ok {
		return nil, notFound("customer not found")
	}
	return s, nil
}

func (d *fakeCustomerDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.customers[id]
	return ok, nil
}

type fakePaymentStore struct {
	mu        sync.Mutex
	completed map[uuid.UUID]bool
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{completed: make(map[uuid.UUID]bool)}
}

func (p *fakePaymentStore) markCompleted(bookingID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed[bookingID] = true
}

func (p *fakePaymentStore) HasCompletedPayment(_ context.Context, bookingID uuid.UUID) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed[bookingID], nil
}

type sentNotification struct {
	customerID  uuid.UUID
	templateKey string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *fakeNotifier) Notify(_ context.Context, customerID uuid.UUID, templateKey, _ string, _ map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{customerID: customerID, templateKey: templateKey})
}

func (n *fakeNotifier) countByTemplate(templateKey string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, s := range n.sent {
		if s.templateKey == templateKey {
			count++
		}
	}
	return count
}

// memoryLockStore gives the real lock.Manager SetNX semantics in-process so
// tests exercise the genuine acquire/retry/release path.
type memoryLockStore struct {
	mu   sync.Mutex
	held map[string]string
}

func newMemoryLockStore() *memoryLockStore {
	return &memoryLockStore{held: make(map[string]string)}
}

func (s *memoryLockStore) SetIfAbsent(_ context.Context, key, ownerID string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.held[key]; ok {
		return false, nil
	}
	s.held[key] = ownerID
	return true, nil
}

func (s *memoryLockStore) DeleteIfOwner(_ context.Context, key, ownerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held[key] != ownerID {
		return false, nil
	}
	delete(s.held, key)
	return true, nil
}

func newTestLockManager() *lock.Manager {
	return lock.NewManager(newMemoryLockStore(), config.LockConfig{
		TTL:         10 * time.Second,
		MaxAttempts: 50,
		RetryDelay:  time.Millisecond,
	})
}
