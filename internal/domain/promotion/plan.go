package promotion

import "fmt"

// Plan is a purchasable boost option: a fixed duration at a fixed price.
type Plan struct {
	ID           string `json:"id"`
	DurationDays int    `json:"duration_days"`
	PriceCents   int64  `json:"price_cents"`
}

// The fixed plan catalog. Prices are in euro cents.
var (
	PlanWeek  = Plan{ID: "boost-7", DurationDays: 7, PriceCents: 499}
	PlanMonth = Plan{ID: "boost-30", DurationDays: 30, PriceCents: 1499}
)

// Plans returns the catalog in display order.
func Plans() []Plan {
	return []Plan{PlanWeek, PlanMonth}
}

// PlanByID looks up a plan by its identifier.
func PlanByID(id string) (Plan, error) {
	for _, p := range Plans() {
		if p.ID == id {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("unknown promotion plan: %s", id)
}
