package promotion

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutDescriptor bridges the pre-redirect plan selection and the
// post-redirect reconciliation. It is persisted before the user is handed
// to the external payment page and read back when they return; the
// promotion's price and duration always come from here, never from the
// return URL.
type CheckoutDescriptor struct {
	ListingID    uuid.UUID `json:"listing_id"`
	UserID       uuid.UUID `json:"user_id"`
	PlanID       string    `json:"plan_id"`
	PriceCents   int64     `json:"price_cents"`
	DurationDays int       `json:"duration_days"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCheckoutDescriptor builds a descriptor for the selected plan.
func NewCheckoutDescriptor(listingID, userID uuid.UUID, plan Plan) CheckoutDescriptor {
	return CheckoutDescriptor{
		ListingID:    listingID,
		UserID:       userID,
		PlanID:       plan.ID,
		PriceCents:   plan.PriceCents,
		DurationDays: plan.DurationDays,
		CreatedAt:    time.Now().UTC(),
	}
}
