package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidKind      = errors.New("invalid service kind")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
	ErrEmptyName        = errors.New("service name cannot be empty")
)

// Service is a bookable offering. Stock for Equipment/Supply kinds is tracked
// as batches; quantity must always equal the sum of active batch quantities.
// Batch mutation is not thread-safe: callers serialize through the
// per-service inventory lock.
type Service struct {
	id               uuid.UUID
	name             string
	category         string
	kind             Kind
	basePriceCents   int64
	durationMinutes  int
	requiresDelivery bool
	quantity         int
	batches          []Batch
	pricingTiers     []PricingTier
	active           bool
	createdAt        time.Time
	updatedAt        time.Time
}

func NewService(
	name, category string,
	kind Kind,
	basePriceCents int64,
	durationMinutes int,
	requiresDelivery bool,
) (*Service, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}

	return &Service{
		id:               uuid.New(),
		name:             name,
		category:         category,
		kind:             kind,
		basePriceCents:   basePriceCents,
		durationMinutes:  durationMinutes,
		requiresDelivery: requiresDelivery,
		active:           true,
	}, nil
}

func ReconstructService(
	id uuid.UUID,
	name, category string,
	kind Kind,
	basePriceCents int64,
	durationMinutes int,
	requiresDelivery bool,
	quantity int,
	batches []Batch,
	pricingTiers []PricingTier,
	active bool,
	createdAt, updatedAt time.Time,
) *Service {
	return &Service{
		id:               id,
		name:             name,
		category:         category,
		kind:             kind,
		basePriceCents:   basePriceCents,
		durationMinutes:  durationMinutes,
		requiresDelivery: requiresDelivery,
		quantity:         quantity,
		batches:          batches,
		pricingTiers:     pricingTiers,
		active:           active,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (s *Service) ID() uuid.UUID               { return s.id }
func (s *Service) Name() string                { return s.name }
func (s *Service) Category() string            { return s.category }
func (s *Service) Kind() Kind                  { return s.kind }
func (s *Service) BasePriceCents() int64       { return s.basePriceCents }
func (s *Service) DurationMinutes() int        { return s.durationMinutes }
func (s *Service) RequiresDelivery() bool      { return s.requiresDelivery }
func (s *Service) Quantity() int               { return s.quantity }
func (s *Service) PricingTiers() []PricingTier { return s.pricingTiers }
func (s *Service) IsActive() bool              { return s.active }
func (s *Service) CreatedAt() time.Time        { return s.createdAt }
func (s *Service) UpdatedAt() time.Time        { return s.updatedAt }

// Batches returns a copy so callers cannot bypass the ledger operations.
func (s *Service) Batches() []Batch {
	out := make([]Batch, len(s.batches))
	copy(out, s.batches)
	return out
}
