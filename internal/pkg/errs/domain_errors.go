package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Admission errors
	ErrAvailabilityConflict  = errors.New("no capacity available")
	ErrLockAcquisitionFailed = errors.New("lock acquisition failed")

	// Inventory errors
	ErrInventoryUnderflow = errors.New("inventory underflow")
	ErrDuplicateBatch     = errors.New("duplicate batch")

	// Waitlist errors
	ErrOfferExpired   = errors.New("offer expired")
	ErrOfferNotFound  = errors.New("offer not found")
	ErrEntryNotFound  = errors.New("waitlist entry not found")
	ErrNotOfferHolder = errors.New("entry belongs to another customer")

	// Lookup errors
	ErrServiceNotFound  = errors.New("service not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrCustomerNotFound = errors.New("customer not found")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
