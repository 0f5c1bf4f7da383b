package promotion

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for promotions.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Promotion, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Promotion, error)
	FindActiveByListingID(ctx context.Context, listingID uuid.UUID) (*Promotion, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*Promotion, error)
	ListAll(ctx context.Context, page, limit int) ([]*Promotion, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	Save(ctx context.Context, promo *Promotion) error
	Update(ctx context.Context, promo *Promotion) error
}

// CheckoutStore persists pending checkout descriptors between the redirect
// to the payment page and the return callback. Implementations give
// entries a bounded lifetime; an abandoned checkout disappears on its own.
type CheckoutStore interface {
	Put(ctx context.Context, desc CheckoutDescriptor) error
	Get(ctx context.Context, userID, listingID uuid.UUID) (*CheckoutDescriptor, error)
	Delete(ctx context.Context, userID, listingID uuid.UUID) error
}
