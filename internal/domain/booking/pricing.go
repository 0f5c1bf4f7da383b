package booking

import "fmt"

// PricingStrategy defines the interface for quoting a booking price.
type PricingStrategy interface {
	// Quote returns the total price in cents for the given parameters.
	Quote(params PricingParams) (int64, error)
}

// PricingParams holds the inputs for a price quote.
type PricingParams struct {
	PricePerDayCents int64
	DayCount         int
}

// StandardPricingStrategy implements Kiloukoi's flat per-day pricing: the
// daily rate times the inclusive day count, no fees or discounts.
type StandardPricingStrategy struct{}

// NewStandardPricingStrategy creates a new StandardPricingStrategy.
func NewStandardPricingStrategy() *StandardPricingStrategy {
	return &StandardPricingStrategy{}
}

// Quote computes the total price in cents.
func (s *StandardPricingStrategy) Quote(params PricingParams) (int64, error) {
	if params.PricePerDayCents <= 0 {
		return 0, fmt.Errorf("price per day must be positive")
	}
	if params.DayCount < 1 {
		return 0, fmt.Errorf("day count must be at least 1")
	}
	return params.PricePerDayCents * int64(params.DayCount), nil
}
