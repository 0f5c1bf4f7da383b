package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/kiloukoi/service-booking/internal/platform/domain"
)

// Booking is the aggregate root for a reservation of a listing over an
// inclusive range of calendar days.
type Booking struct {
	id        uuid.UUID
	listingID uuid.UUID
	renterID  uuid.UUID
	ownerID   uuid.UUID

	startDate time.Time
	endDate   time.Time
	status    Status

	totalPriceCents int64
	currency        string
	cancelNote      string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a pending booking for [startDate, endDate]. The total
// price is quoted upstream from the listing's daily rate over the
// inclusive day count.
func NewBooking(
	listingID, renterID, ownerID uuid.UUID,
	startDate, endDate time.Time,
	totalPriceCents int64,
) (*Booking, error) {
	if listingID == uuid.Nil {
		return nil, domain.NewValidationError("listing ID is required")
	}
	if renterID == uuid.Nil {
		return nil, domain.NewValidationError("renter ID is required")
	}
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if renterID == ownerID {
		return nil, domain.NewValidationError("cannot book your own listing")
	}
	if DayStart(endDate).Before(DayStart(startDate)) {
		return nil, domain.NewValidationError("end date must not precede start date")
	}
	if totalPriceCents <= 0 {
		return nil, domain.NewValidationError("total price must be positive")
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		listingID:       listingID,
		renterID:        renterID,
		ownerID:         ownerID,
		startDate:       DayStart(startDate),
		endDate:         DayStart(endDate),
		status:          StatusPending,
		totalPriceCents: totalPriceCents,
		currency:        "EUR",
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, listingID, renterID, ownerID uuid.UUID,
	startDate, endDate time.Time,
	status Status,
	totalPriceCents int64,
	currency, cancelNote string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		listingID:       listingID,
		renterID:        renterID,
		ownerID:         ownerID,
		startDate:       startDate,
		endDate:         endDate,
		status:          status,
		totalPriceCents: totalPriceCents,
		currency:        currency,
		cancelNote:      cancelNote,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID          { return b.id }
func (b *Booking) ListingID() uuid.UUID   { return b.listingID }
func (b *Booking) RenterID() uuid.UUID    { return b.renterID }
func (b *Booking) OwnerID() uuid.UUID     { return b.ownerID }
func (b *Booking) StartDate() time.Time   { return b.startDate }
func (b *Booking) EndDate() time.Time     { return b.endDate }
func (b *Booking) Status() Status         { return b.status }
func (b *Booking) TotalPriceCents() int64 { return b.totalPriceCents }
func (b *Booking) Currency() string       { return b.currency }
func (b *Booking) CancelNote() string     { return b.cancelNote }
func (b *Booking) Version() int64         { return b.version }
func (b *Booking) CreatedAt() time.Time   { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time   { return b.updatedAt }

// BookedRange returns the calendar projection of this booking.
func (b *Booking) BookedRange() BookedRange {
	return BookedRange{Start: b.startDate, End: b.endDate, Status: b.status}
}

// --- Behavior ---

// Confirm transitions the booking from pending to confirmed. Only the
// listing owner may confirm, and only while the start date is still at
// least tomorrow; a confirmation on or after the start day is rejected.
func (b *Booking) Confirm(actorID uuid.UUID, today time.Time) error {
	if actorID != b.ownerID {
		return domain.NewForbiddenError("only the listing owner can confirm a booking")
	}
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	tomorrow := DayStart(today).AddDate(0, 0, 1)
	if b.startDate.Before(tomorrow) {
		return domain.NewValidationError("booking starts too soon to be confirmed")
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions a pending booking to cancelled. The owner cancels to
// reject the request, the renter cancels to withdraw it.
func (b *Booking) Cancel(actorID uuid.UUID, note string) error {
	if actorID != b.ownerID && actorID != b.renterID {
		return domain.NewForbiddenError("only the owner or the renter can cancel a booking")
	}
	if !b.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.cancelNote = note
	b.updatedAt = time.Now().UTC()
	return nil
}

// Complete transitions the booking from confirmed to completed. Only the
// renter may complete, and only once the end date has passed.
func (b *Booking) Complete(actorID uuid.UUID, today time.Time) error {
	if actorID != b.renterID {
		return domain.NewForbiddenError("only the renter can complete a booking")
	}
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	if !b.CompletionEligible(today) {
		return domain.NewValidationError("booking cannot be completed before its end date has passed")
	}
	b.status = StatusCompleted
	b.updatedAt = time.Now().UTC()
	return nil
}

// CompletionEligible reports whether the booking may be completed today.
func (b *Booking) CompletionEligible(today time.Time) bool {
	return b.status == StatusConfirmed && b.endDate.Before(DayStart(today))
}

// Lapsed reports whether a pending booking's start date has already
// passed, meaning nobody acted in time and the request should be swept to
// cancelled.
func (b *Booking) Lapsed(today time.Time) bool {
	return b.status == StatusPending && b.startDate.Before(DayStart(today))
}

// Expire sweeps a lapsed pending booking to cancelled.
func (b *Booking) Expire(today time.Time) error {
	if !b.Lapsed(today) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.cancelNote = "request lapsed before the start date"
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
