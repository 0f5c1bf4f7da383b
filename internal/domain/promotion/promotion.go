package promotion

import (
	"time"

	"github.com/google/uuid"

	"github.com/kiloukoi/service-booking/internal/platform/domain"
)

// Promotion is the aggregate root for a paid, time-limited visibility
// boost on a listing.
type Promotion struct {
	id        uuid.UUID
	listingID uuid.UUID
	userID    uuid.UUID

	startDate time.Time
	endDate   time.Time
	status    Status

	amountPaidCents int64
	paymentID       string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewPromotion creates an active promotion running from today for the
// given number of days, inclusive. Amount and duration come from the
// reconciled checkout descriptor.
func NewPromotion(
	listingID, userID uuid.UUID,
	paymentID string,
	amountPaidCents int64,
	durationDays int,
	today time.Time,
) (*Promotion, error) {
	if listingID == uuid.Nil {
		return nil, domain.NewValidationError("listing ID is required")
	}
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if paymentID == "" {
		return nil, domain.NewValidationError("payment ID is required")
	}
	if amountPaidCents <= 0 {
		return nil, domain.NewValidationError("amount paid must be positive")
	}
	if durationDays < 1 {
		return nil, domain.NewValidationError("duration must be at least one day")
	}

	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	now := time.Now().UTC()
	return &Promotion{
		id:              uuid.New(),
		listingID:       listingID,
		userID:          userID,
		startDate:       start,
		endDate:         start.AddDate(0, 0, durationDays-1),
		status:          StatusActive,
		amountPaidCents: amountPaidCents,
		paymentID:       paymentID,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Promotion from persistence data (no validation).
func Reconstruct(
	id, listingID, userID uuid.UUID,
	startDate, endDate time.Time,
	status Status,
	amountPaidCents int64,
	paymentID string,
	version int64,
	createdAt, updatedAt time.Time,
) *Promotion {
	return &Promotion{
		id:              id,
		listingID:       listingID,
		userID:          userID,
		startDate:       startDate,
		endDate:         endDate,
		status:          status,
		amountPaidCents: amountPaidCents,
		paymentID:       paymentID,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (p *Promotion) ID() uuid.UUID          { return p.id }
func (p *Promotion) ListingID() uuid.UUID   { return p.listingID }
func (p *Promotion) UserID() uuid.UUID      { return p.userID }
func (p *Promotion) StartDate() time.Time   { return p.startDate }
func (p *Promotion) EndDate() time.Time     { return p.endDate }
func (p *Promotion) Status() Status         { return p.status }
func (p *Promotion) AmountPaidCents() int64 { return p.amountPaidCents }
func (p *Promotion) PaymentID() string      { return p.paymentID }
func (p *Promotion) Version() int64         { return p.version }
func (p *Promotion) CreatedAt() time.Time   { return p.createdAt }
func (p *Promotion) UpdatedAt() time.Time   { return p.updatedAt }

// --- Behavior ---

// Lapsed reports whether an active promotion's end date has passed.
func (p *Promotion) Lapsed(today time.Time) bool {
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	return p.status == StatusActive && p.endDate.Before(midnight)
}

// Expire sweeps a lapsed active promotion to expired.
func (p *Promotion) Expire(today time.Time) error {
	if !p.Lapsed(today) {
		return domain.NewInvalidStateError(string(p.status), string(StatusExpired))
	}
	p.status = StatusExpired
	p.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the promotion to cancelled (admin action, e.g. a
// refunded payment).
func (p *Promotion) Cancel() error {
	if !p.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(p.status), string(StatusCancelled))
	}
	p.status = StatusCancelled
	p.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (p *Promotion) IncrementVersion() {
	p.version++
	p.updatedAt = time.Now().UTC()
}
