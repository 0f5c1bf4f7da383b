package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	promoDomain "github.com/kiloukoi/service-booking/internal/domain/promotion"
	"github.com/kiloukoi/service-booking/internal/platform/domain"
)

// PromotionModel is the GORM model for the promotions table.
type PromotionModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID       uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null"`
	StartDate       time.Time `gorm:"type:date;not null"`
	EndDate         time.Time `gorm:"type:date;not null"`
	Status          string    `gorm:"not null;size:20;index"`
	AmountPaidCents int64     `gorm:"not null"`
	PaymentID       string    `gorm:"uniqueIndex;not null;size:100"`
	Version         int64     `gorm:"not null;default:1"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PromotionModel) TableName() string {
	return "promotions"
}

// GormPromotionRepository is the GORM-based implementation of promotion.Repository.
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewGormPromotionRepository creates a new GormPromotionRepository.
func NewGormPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// FindByID retrieves a promotion by its unique identifier.
func (r *GormPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*promoDomain.Promotion, error) {
	var model PromotionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Promotion", id.String())
		}
		return nil, fmt.Errorf("failed to find promotion by ID: %w", err)
	}
	return toDomainPromotion(&model)
}

// FindByUserID retrieves all promotions purchased by a user.
func (r *GormPromotionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*promoDomain.Promotion, error) {
	var models []PromotionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find promotions by user: %w", err)
	}
	return toDomainPromotions(models)
}

// FindActiveByListingID returns the listing's active promotion, if any.
func (r *GormPromotionRepository) FindActiveByListingID(ctx context.Context, listingID uuid.UUID) (*promoDomain.Promotion, error) {
	var model PromotionModel
	if err := r.db.WithContext(ctx).
		Where("listing_id = ? AND status = ?", listingID, string(promoDomain.StatusActive)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Promotion", listingID.String())
		}
		return nil, fmt.Errorf("failed to find active promotion: %w", err)
	}
	return toDomainPromotion(&model)
}

// FindByPaymentID retrieves a promotion by its payment reference.
func (r *GormPromotionRepository) FindByPaymentID(ctx context.Context, paymentID string) (*promoDomain.Promotion, error) {
	var model PromotionModel
	if err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Promotion", paymentID)
		}
		return nil, fmt.Errorf("failed to find promotion by payment ID: %w", err)
	}
	return toDomainPromotion(&model)
}

// ListAll retrieves all promotions with pagination (admin).
func (r *GormPromotionRepository) ListAll(ctx context.Context, page, limit int) ([]*promoDomain.Promotion, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&PromotionModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count promotions: %w", err)
	}

	var models []PromotionModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list promotions: %w", err)
	}

	promos, err := toDomainPromotions(models)
	if err != nil {
		return nil, 0, err
	}
	return promos, total, nil
}

// CountByStatus returns promotion counts grouped by status (admin).
func (r *GormPromotionRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&PromotionModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new promotion. The unique index on payment_id makes a
// replayed callback for the same payment fail as a conflict.
func (r *GormPromotionRepository) Save(ctx context.Context, p *promoDomain.Promotion) error {
	model := toPromotionModel(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("a promotion for this payment already exists")
		}
		return fmt.Errorf("failed to save promotion: %w", err)
	}
	return nil
}

// Update persists changes to an existing promotion with optimistic locking.
func (r *GormPromotionRepository) Update(ctx context.Context, p *promoDomain.Promotion) error {
	model := toPromotionModel(p)

	expectedVersion := p.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&PromotionModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update promotion: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("promotion was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toPromotionModel(p *promoDomain.Promotion) *PromotionModel {
	return &PromotionModel{
		ID:              p.ID(),
		ListingID:       p.ListingID(),
		UserID:          p.UserID(),
		StartDate:       p.StartDate(),
		EndDate:         p.EndDate(),
		Status:          string(p.Status()),
		AmountPaidCents: p.AmountPaidCents(),
		PaymentID:       p.PaymentID(),
		Version:         p.Version(),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}
}

func toDomainPromotion(m *PromotionModel) (*promoDomain.Promotion, error) {
	status, err := promoDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return promoDomain.Reconstruct(
		m.ID,
		m.ListingID,
		m.UserID,
		m.StartDate,
		m.EndDate,
		status,
		m.AmountPaidCents,
		m.PaymentID,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainPromotions(models []PromotionModel) ([]*promoDomain.Promotion, error) {
	promos := make([]*promoDomain.Promotion, len(models))
	for i, m := range models {
		p, err := toDomainPromotion(&m)
		if err != nil {
			return nil, err
		}
		promos[i] = p
	}
	return promos, nil
}
