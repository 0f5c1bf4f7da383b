package listing

import (
	"time"

	"github.com/google/uuid"

	"github.com/kiloukoi/service-booking/internal/platform/domain"
)

// ListingStatus represents the lifecycle state of a listing.
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusArchived ListingStatus = "archived"
)

// Listing is the aggregate root for a rentable item posted by an owner.
type Listing struct {
	id               uuid.UUID
	ownerID          uuid.UUID
	title            string
	description      string
	city             string
	pricePerDayCents int64
	depositCents     int64
	status           ListingStatus
	version          int64
	createdAt        time.Time
	updatedAt        time.Time
}

// NewListing creates a new active listing with validated fields. The
// deposit (caution) is what the renter hands over in person and gets back
// on return; zero means none is asked.
func NewListing(
	ownerID uuid.UUID,
	title, description, city string,
	pricePerDayCents, depositCents int64,
) (*Listing, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if title == "" {
		return nil, domain.NewValidationError("title is required")
	}
	if pricePerDayCents <= 0 {
		return nil, domain.NewValidationError("price per day must be positive")
	}
	if depositCents < 0 {
		return nil, domain.NewValidationError("deposit cannot be negative")
	}

	now := time.Now().UTC()
	return &Listing{
		id:               uuid.New(),
		ownerID:          ownerID,
		title:            title,
		description:      description,
		city:             city,
		pricePerDayCents: pricePerDayCents,
		depositCents:     depositCents,
		status:           ListingStatusActive,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// Reconstruct rebuilds a Listing from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	title, description, city string,
	pricePerDayCents, depositCents int64,
	status ListingStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Listing {
	return &Listing{
		id:               id,
		ownerID:          ownerID,
		title:            title,
		description:      description,
		city:             city,
		pricePerDayCents: pricePerDayCents,
		depositCents:     depositCents,
		status:           status,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// --- Getters ---

func (l *Listing) ID() uuid.UUID           { return l.id }
func (l *Listing) OwnerID() uuid.UUID      { return l.ownerID }
func (l *Listing) Title() string           { return l.title }
func (l *Listing) Description() string     { return l.description }
func (l *Listing) City() string            { return l.city }
func (l *Listing) PricePerDayCents() int64 { return l.pricePerDayCents }
func (l *Listing) DepositCents() int64     { return l.depositCents }
func (l *Listing) Status() ListingStatus   { return l.status }
func (l *Listing) Version() int64          { return l.version }
func (l *Listing) CreatedAt() time.Time    { return l.createdAt }
func (l *Listing) UpdatedAt() time.Time    { return l.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the listing belongs to the given owner.
func (l *Listing) IsOwnedBy(ownerID uuid.UUID) bool {
	return l.ownerID == ownerID
}

// IsActive returns true if the listing is bookable.
func (l *Listing) IsActive() bool {
	return l.status == ListingStatusActive
}

// Update applies partial updates to the listing.
func (l *Listing) Update(title, description, city string, pricePerDayCents, depositCents int64) {
	if title != "" {
		l.title = title
	}
	if description != "" {
		l.description = description
	}
	if city != "" {
		l.city = city
	}
	if pricePerDayCents > 0 {
		l.pricePerDayCents = pricePerDayCents
	}
	if depositCents >= 0 {
		l.depositCents = depositCents
	}
	l.version++
	l.updatedAt = time.Now().UTC()
}

// Archive takes the listing off the marketplace.
func (l *Listing) Archive() {
	l.status = ListingStatusArchived
	l.version++
	l.updatedAt = time.Now().UTC()
}
