package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kiloukoi/service-booking/internal/domain/listing"
	"github.com/kiloukoi/service-booking/internal/platform/domain"
	"github.com/kiloukoi/service-booking/internal/platform/retry"
)

// CreateListingRequest holds the data needed to publish a listing.
type CreateListingRequest struct {
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	City             string `json:"city"`
	PricePerDayCents int64  `json:"price_per_day_cents" binding:"required"`
	DepositCents     int64  `json:"deposit_cents"`
}

// UpdateListingRequest holds the editable listing fields.
type UpdateListingRequest struct {
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	City             string `json:"city"`
	PricePerDayCents int64  `json:"price_per_day_cents" binding:"required"`
	DepositCents     int64  `json:"deposit_cents"`
}

// ListingDTO is the response representation of a listing.
type ListingDTO struct {
	ID               uuid.UUID `json:"id"`
	OwnerID          uuid.UUID `json:"owner_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	City             string    `json:"city"`
	PricePerDayCents int64     `json:"price_per_day_cents"`
	DepositCents     int64     `json:"deposit_cents"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ListingService manages the rental listings bookings run against.
type ListingService struct {
	repo   listing.Repository
	logger *zap.Logger
}

// NewListingService creates a new ListingService.
func NewListingService(repo listing.Repository, logger *zap.Logger) *ListingService {
	return &ListingService{repo: repo, logger: logger}
}

// CreateListing publishes a new listing for the given owner.
func (s *ListingService) CreateListing(ctx context.Context, ownerID uuid.UUID, req CreateListingRequest) (*ListingDTO, error) {
	lst, err := listing.NewListing(ownerID, req.Title, req.Description, req.City, req.PricePerDayCents, req.DepositCents)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, lst); err != nil {
		return nil, err
	}

	result := toListingDTO(lst)
	return &result, nil
}

// GetListing retrieves a listing by ID.
func (s *ListingService) GetListing(ctx context.Context, id uuid.UUID) (*ListingDTO, error) {
	lst, err := retry.Read(ctx, func(ctx context.Context) (*listing.Listing, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	result := toListingDTO(lst)
	return &result, nil
}

// GetMyListings returns all listings owned by the caller.
func (s *ListingService) GetMyListings(ctx context.Context, ownerID uuid.UUID) ([]ListingDTO, error) {
	listings, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ListingDTO, len(listings))
	for i, lst := range listings {
		dtos[i] = toListingDTO(lst)
	}
	return dtos, nil
}

// UpdateListing edits a listing. Only the owner may edit.
func (s *ListingService) UpdateListing(ctx context.Context, id, ownerID uuid.UUID, req UpdateListingRequest) (*ListingDTO, error) {
	lst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lst.IsOwnedBy(ownerID) {
		return nil, domain.NewForbiddenError("only the owner can edit this listing")
	}

	lst.Update(req.Title, req.Description, req.City, req.PricePerDayCents, req.DepositCents)
	if err := s.repo.Update(ctx, lst); err != nil {
		return nil, err
	}

	result := toListingDTO(lst)
	return &result, nil
}

// ArchiveListing takes a listing off the marketplace. Existing bookings
// are untouched; new ones are refused.
func (s *ListingService) ArchiveListing(ctx context.Context, id, ownerID uuid.UUID) error {
	lst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !lst.IsOwnedBy(ownerID) {
		return domain.NewForbiddenError("only the owner can archive this listing")
	}

	lst.Archive()
	return s.repo.Update(ctx, lst)
}

func toListingDTO(lst *listing.Listing) ListingDTO {
	return ListingDTO{
		ID:               lst.ID(),
		OwnerID:          lst.OwnerID(),
		Title:            lst.Title(),
		Description:      lst.Description(),
		City:             lst.City(),
		PricePerDayCents: lst.PricePerDayCents(),
		DepositCents:     lst.DepositCents(),
		Status:           string(lst.Status()),
		CreatedAt:        lst.CreatedAt(),
		UpdatedAt:        lst.UpdatedAt(),
	}
}
