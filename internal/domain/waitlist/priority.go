package waitlist

// ScoringPolicy computes an entry's priority score from customer standing and
// request shape. The individual weights are deployment configuration; only
// the relative ordering they produce is load-bearing, so the policy is
// injected rather than hard-coded.
type ScoringPolicy struct {
	BaseScore          float64
	LoyaltyPerBooking  float64
	LoyaltyCap         float64
	QuantityBonus      float64
	QuantityBonusCap   float64
	DemandBoost        float64
	HighDemandBookings int
	LowDemandBookings  int

	// Time-sensitivity brackets, nearest first. Requests inside a bracket
	// get its bonus; past HorizonDays the far-future penalty applies.
	ImminentDays     int
	ImminentBonus    float64
	NearDays         int
	NearBonus        float64
	UpcomingDays     int
	UpcomingBonus    float64
	HorizonDays      int
	FarFuturePenalty float64
}

// ScoreInput is everything the policy looks at for one request.
type ScoreInput struct {
	ConfirmedBookings int
	Urgency           UrgencyTier
	DaysUntilDate     int
	RequestedQuantity int
	// RecentServiceBookings is the service's booking count over the demand
	// window, used to boost contested services and damp quiet ones.
	RecentServiceBookings int
}

// Score returns a priority in [0,100].
func (p ScoringPolicy) Score(in ScoreInput) float64 {
	score := p.BaseScore

	loyalty := float64(in.ConfirmedBookings) * p.LoyaltyPerBooking
	if loyalty > p.LoyaltyCap {
		loyalty = p.LoyaltyCap
	}
	score += loyalty

	score += p.timeSensitivity(in.DaysUntilDate)

	bonus := float64(in.RequestedQuantity-1) * p.QuantityBonus
	if bonus > p.QuantityBonusCap {
		bonus = p.QuantityBonusCap
	}
	score += bonus

	if in.RecentServiceBookings >= p.HighDemandBookings {
		score += p.DemandBoost
	} else if in.RecentServiceBookings <= p.LowDemandBookings {
		score -= p.DemandBoost
	}

	score *= in.Urgency.Multiplier()

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Sooner dates outrank later ones; requests far in the future are damped so
// speculative bookings don't crowd out imminent demand.
func (p ScoringPolicy) timeSensitivity(daysUntil int) float64 {
	switch {
	case daysUntil <= p.ImminentDays:
		return p.ImminentBonus
	case daysUntil <= p.NearDays:
		return p.NearBonus
	case daysUntil <= p.UpcomingDays:
		return p.UpcomingBonus
	case daysUntil <= p.HorizonDays:
		return 0
	default:
		return -p.FarFuturePenalty
	}
}
