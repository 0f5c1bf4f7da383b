package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByRenterID retrieves bookings requested by a renter with pagination.
	FindByRenterID(ctx context.Context, renterID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByOwnerID retrieves bookings received by a listing owner with pagination.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindBookedRanges returns the blocking calendar projection for a
	// listing: the ranges of its confirmed and pending bookings.
	FindBookedRanges(ctx context.Context, listingID uuid.UUID) ([]BookedRange, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking. The implementation must reject the
	// insert if the range overlaps an existing confirmed or pending
	// booking for the same listing; this is the authoritative overlap
	// guard.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// ExpireStalePending sweeps a renter's pending bookings whose start
	// date is before today to cancelled, returning the swept bookings.
	ExpireStalePending(ctx context.Context, renterID uuid.UUID, today time.Time) ([]*Booking, error)
}
