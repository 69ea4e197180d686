package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBatchExists     = errors.New("active batch with this id already exists")
	ErrInvalidAmount   = errors.New("amount cannot be negative")
	ErrEmptyBatchID    = errors.New("batch id cannot be empty")
	ErrInactiveService = errors.New("service is not active")
)

// Batch is a lot of physical stock received together, consumed FIFO and
// tracked for expiry.
type Batch struct {
	id           string
	supplier     string
	quantity     int
	unitCost     decimal.Decimal
	purchaseDate time.Time
	expiresAt    *time.Time
	active       bool
	createdAt    time.Time
}

func NewBatch(id, supplier string, quantity int, unitCost decimal.Decimal, purchaseDate time.Time, expiresAt *time.Time) (Batch, error) {
	if id == "" {
		return Batch{}, ErrEmptyBatchID
	}
	if quantity < 0 {
		return Batch{}, ErrInvalidAmount
	}
	return Batch{
		id:           id,
		supplier:     supplier,
		quantity:     quantity,
		unitCost:     unitCost,
		purchaseDate: purchaseDate,
		expiresAt:    expiresAt,
		active:       true,
		createdAt:    purchaseDate,
	}, nil
}

func ReconstructBatch(
	id, supplier string,
	quantity int,
	unitCost decimal.Decimal,
	purchaseDate time.Time,
	expiresAt *time.Time,
	active bool,
	createdAt time.Time,
) Batch {
	return Batch{
		id:           id,
		supplier:     supplier,
		quantity:     quantity,
		unitCost:     unitCost,
		purchaseDate: purchaseDate,
		expiresAt:    expiresAt,
		active:       active,
		createdAt:    createdAt,
	}
}

func (b Batch) ID() string              { return b.id }
func (b Batch) Supplier() string        { return b.supplier }
func (b Batch) Quantity() int           { return b.quantity }
func (b Batch) UnitCost() decimal.Decimal { return b.unitCost }
func (b Batch) PurchaseDate() time.Time { return b.purchaseDate }
func (b Batch) ExpiresAt() *time.Time   { return b.expiresAt }
func (b Batch) IsActive() bool          { return b.active }
func (b Batch) CreatedAt() time.Time    { return b.createdAt }

func (b Batch) IsExpired(now time.Time) bool {
	return b.expiresAt != nil && b.expiresAt.Before(now)
}

// ReduceResult reports the outcome of a FIFO stock reduction. Shortfall is
// non-zero when the requested amount exceeded available stock; the total is
// floored at zero, never driven negative.
type ReduceResult struct {
	Requested int
	Consumed  int
	Shortfall int
}

// RestoreResult reports where restored stock was credited.
type RestoreResult struct {
	Restored  int
	BatchID   string
	Synthetic bool
}

// AddBatch appends a batch and increments the total quantity. Adding a batch
// whose id collides with an existing active batch fails.
func (s *Service) AddBatch(b Batch) error {
	for _, existing := range s.batches {
		if existing.active && existing.id == b.id {
			return ErrBatchExists
		}
	}
	s.batches = append(s.batches, b)
	s.quantity += b.quantity
	return nil
}

// ReduceQuantity consumes stock FIFO: oldest active batches first, each
// decremented until exhausted or the amount is satisfied. Emptied batches are
// deactivated. A shortfall is reported, never silently swallowed.
func (s *Service) ReduceQuantity(amount int) (ReduceResult, error) {
	if amount < 0 {
		return ReduceResult{}, ErrInvalidAmount
	}
	result := ReduceResult{Requested: amount}
	if amount == 0 {
		return result, nil
	}

	remaining := amount
	for _, idx := range s.activeBatchesOldestFirst() {
		if remaining == 0 {
			break
		}
		b := &s.batches[idx]
		take := b.quantity
		if take > remaining {
			take = remaining
		}
		b.quantity -= take
		if b.quantity == 0 {
			b.active = false
		}
		remaining -= take
		result.Consumed += take
	}

	s.quantity -= result.Consumed
	if s.quantity < 0 {
		s.quantity = 0
	}
	result.Shortfall = remaining
	return result, nil
}

// RestoreQuantity returns stock LIFO: the most recently created active batch
// is credited, or a synthetic "restored" batch is created when none remain.
func (s *Service) RestoreQuantity(amount int, now time.Time) (RestoreResult, error) {
	if amount < 0 {
		return RestoreResult{}, ErrInvalidAmount
	}
	if amount == 0 {
		return RestoreResult{}, nil
	}

	newest := -1
	for i, b := range s.batches {
		if !b.active {
			continue
		}
		if newest < 0 || b.createdAt.After(s.batches[newest].createdAt) {
			newest = i
		}
	}

	if newest >= 0 {
		s.batches[newest].quantity += amount
		s.quantity += amount
		return RestoreResult{Restored: amount, BatchID: s.batches[newest].id}, nil
	}

	synthetic := Batch{
		id:           fmt.Sprintf("restored-%s", uuid.NewString()),
		supplier:     "restored",
		quantity:     amount,
		unitCost:     decimal.Zero,
		purchaseDate: now,
		active:       true,
		createdAt:    now,
	}
	s.batches = append(s.batches, synthetic)
	s.quantity += amount
	return RestoreResult{Restored: amount, BatchID: synthetic.id, Synthetic: true}, nil
}

// ExpiringBatches returns active batches whose expiry falls within daysAhead
// days of now.
func (s *Service) ExpiringBatches(now time.Time, daysAhead int) []Batch {
	horizon := now.AddDate(0, 0, daysAhead)
	var out []Batch
	for _, b := range s.batches {
		if !b.active || b.expiresAt == nil {
			continue
		}
		if b.expiresAt.After(now) && !b.expiresAt.After(horizon) {
			out = append(out, b)
		}
	}
	return out
}

// ExpiredBatches returns active batches already past their expiry.
func (s *Service) ExpiredBatches(now time.Time) []Batch {
	var out []Batch
	for _, b := range s.batches {
		if b.active && b.IsExpired(now) {
			out = append(out, b)
		}
	}
	return out
}

// BatchQuantitySum is the authoritative stock figure; quantity drifting away
// from it is a consistency violation.
func (s *Service) BatchQuantitySum() int {
	sum := 0
	for _, b := range s.batches {
		if b.active {
			sum += b.quantity
		}
	}
	return sum
}

// SetQuantity forcibly aligns quantity with an audited value. Reserved for
// the reconciler's drift repair.
func (s *Service) SetQuantity(quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	s.quantity = quantity
	return nil
}

func (s *Service) activeBatchesOldestFirst() []int {
	var idxs []int
	for i, b := range s.batches {
		if b.active {
			idxs = append(idxs, i)
		}
	}
	sort.SliceStable(idxs, func(i, j int) bool {
		return s.batches[idxs[i]].createdAt.Before(s.batches[idxs[j]].createdAt)
	})
	return idxs
}
