package service

// PricingTier applies a multiplier when a booking is made at least DaysBefore
// days ahead of the booking date (early-bird discounts, last-minute markups).
type PricingTier struct {
	DaysBefore int
	Multiplier float64
}

// CalculatePrice is a pure function: base price, tiers and the lead time in
// days fully determine the result. The tier with the highest satisfied
// DaysBefore threshold wins; with no matching tier the base price stands.
func CalculatePrice(basePriceCents int64, tiers []PricingTier, daysBeforeCheckout int) int64 {
	best := -1
	for i, t := range tiers {
		if daysBeforeCheckout < t.DaysBefore {
			continue
		}
		if best < 0 || t.DaysBefore > tiers[best].DaysBefore {
			best = i
		}
	}
	if best < 0 {
		return basePriceCents
	}
	price := int64(float64(basePriceCents) * tiers[best].Multiplier)
	if price < 0 {
		price = 0
	}
	return price
}
