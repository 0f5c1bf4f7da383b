package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	listingDomain "github.com/kiloukoi/service-booking/internal/domain/listing"
	"github.com/kiloukoi/service-booking/internal/platform/domain"
)

// ListingModel is the GORM model for the listings table.
type ListingModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID          uuid.UUID `gorm:"type:uuid;index;not null"`
	Title            string    `gorm:"not null;size:200"`
	Description      string    `gorm:"size:2000"`
	City             string    `gorm:"size:100;index"`
	PricePerDayCents int64     `gorm:"not null"`
	DepositCents     int64     `gorm:"not null;default:0"`
	Status           string    `gorm:"not null;size:20;index"`
	Version          int64     `gorm:"not null;default:1"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ListingModel) TableName() string {
	return "listings"
}

// GormListingRepository is the GORM-based implementation of listing.Repository.
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository.
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID retrieves a listing by its unique identifier.
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listingDomain.Listing, error) {
	var model ListingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Listing", id.String())
		}
		return nil, fmt.Errorf("failed to find listing by ID: %w", err)
	}
	return toDomainListing(&model), nil
}

// FindByOwnerID retrieves all listings belonging to an owner.
func (r *GormListingRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*listingDomain.Listing, error) {
	var models []ListingModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find listings by owner: %w", err)
	}

	listings := make([]*listingDomain.Listing, len(models))
	for i, m := range models {
		listings[i] = toDomainListing(&m)
	}
	return listings, nil
}

// Save persists a new listing.
func (r *GormListingRepository) Save(ctx context.Context, l *listingDomain.Listing) error {
	if err := r.db.WithContext(ctx).Create(toListingModel(l)).Error; err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

// Update persists changes to an existing listing with optimistic locking.
func (r *GormListingRepository) Update(ctx context.Context, l *listingDomain.Listing) error {
	model := toListingModel(l)

	expectedVersion := l.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&ListingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":               model.Title,
			"description":         model.Description,
			"city":                model.City,
			"price_per_day_cents": model.PricePerDayCents,
			"deposit_cents":       model.DepositCents,
			"status":              model.Status,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("listing was modified by another transaction")
	}
	return nil
}

// Delete removes a listing.
func (r *GormListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ListingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Listing", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toListingModel(l *listingDomain.Listing) *ListingModel {
	return &ListingModel{
		ID:               l.ID(),
		OwnerID:          l.OwnerID(),
		Title:            l.Title(),
		Description:      l.Description(),
		City:             l.City(),
		PricePerDayCents: l.PricePerDayCents(),
		DepositCents:     l.DepositCents(),
		Status:           string(l.Status()),
		Version:          l.Version(),
		CreatedAt:        l.CreatedAt(),
		UpdatedAt:        l.UpdatedAt(),
	}
}

func toDomainListing(m *ListingModel) *listingDomain.Listing {
	return listingDomain.Reconstruct(
		m.ID,
		m.OwnerID,
		m.Title,
		m.Description,
		m.City,
		m.PricePerDayCents,
		m.DepositCents,
		listingDomain.ListingStatus(m.Status),
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
