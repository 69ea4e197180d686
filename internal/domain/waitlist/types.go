package waitlist

type Status string

const (
	StatusQueued    Status = "queued"
	StatusOffered   Status = "offered"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusQueued, StatusOffered, StatusFulfilled, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusFulfilled, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

type UrgencyTier string

const (
	UrgencyLow      UrgencyTier = "low"
	UrgencyMedium   UrgencyTier = "medium"
	UrgencyHigh     UrgencyTier = "high"
	UrgencyCritical UrgencyTier = "critical"
)

func (u UrgencyTier) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	default:
		return false
	}
}

// Multiplier scales the whole score; tiers only shift relative ordering,
// exact values are policy.
func (u UrgencyTier) Multiplier() float64 {
	switch u {
	case UrgencyLow:
		return 0.9
	case UrgencyHigh:
		return 1.15
	case UrgencyCritical:
		return 1.3
	default:
		return 1.0
	}
}
