package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/kiloukoi/service-booking/internal/domain/booking"
	"github.com/kiloukoi/service-booking/internal/platform/domain"
)

// blockingStatuses are the statuses whose date ranges make calendar days
// unavailable and participate in the overlap constraint.
var blockingStatuses = []string{
	string(bookingDomain.StatusPending),
	string(bookingDomain.StatusConfirmed),
}

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID       uuid.UUID `gorm:"type:uuid;index;not null"`
	RenterID        uuid.UUID `gorm:"type:uuid;index;not null"`
	OwnerID         uuid.UUID `gorm:"type:uuid;index;not null"`
	StartDate       time.Time `gorm:"type:date;not null"`
	EndDate         time.Time `gorm:"type:date;not null"`
	Status          string    `gorm:"not null;size:20;index"`
	TotalPriceCents int64     `gorm:"not null"`
	Currency        string    `gorm:"not null;size:3;default:'EUR'"`
	CancelNote      string    `gorm:"size:500"`
	Version         int64     `gorm:"not null;default:1"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByRenterID retrieves bookings requested by a renter with pagination.
func (r *GormBookingRepository) FindByRenterID(ctx context.Context, renterID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findBy(ctx, "renter_id = ?", renterID, page, limit)
}

// FindByOwnerID retrieves bookings received by a listing owner with pagination.
func (r *GormBookingRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findBy(ctx, "owner_id = ?", ownerID, page, limit)
}

func (r *GormBookingRepository) findBy(ctx context.Context, cond string, arg interface{}, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where(cond, arg).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// FindBookedRanges returns the blocking calendar projection for a listing.
func (r *GormBookingRepository) FindBookedRanges(ctx context.Context, listingID uuid.UUID) ([]bookingDomain.BookedRange, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Select("start_date", "end_date", "status").
		Where("listing_id = ? AND status IN ?", listingID, blockingStatuses).
		Order("start_date ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find booked ranges: %w", err)
	}

	ranges := make([]bookingDomain.BookedRange, len(models))
	for i, m := range models {
		ranges[i] = bookingDomain.BookedRange{
			Start:  m.StartDate,
			End:    m.EndDate,
			Status: bookingDomain.Status(m.Status),
		}
	}
	return ranges, nil
}

// Save persists a new booking. The listing's blocking bookings are locked
// and re-checked inside the transaction, so two concurrent requests for
// overlapping ranges cannot both commit.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conflicts []BookingModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("listing_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
				model.ListingID, blockingStatuses, model.EndDate, model.StartDate).
			Find(&conflicts).Error; err != nil {
			return fmt.Errorf("failed to check for overlapping bookings: %w", err)
		}
		if len(conflicts) > 0 {
			return domain.NewConflictError("requested dates overlap an existing booking")
		}

		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
	return err
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// Only update if the version matches (current version - 1, since
	// IncrementVersion was called before persisting).
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":      model.Status,
			"cancel_note": model.CancelNote,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
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

// IsParticipant reports whether the user is the renter or the owner of
// the booking.
func (r *GormBookingRepository) IsParticipant(ctx context.Context, bookingID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("id = ? AND (renter_id = ? OR owner_id = ?)", bookingID, userID, userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check booking participant: %w", err)
	}
	return count > 0, nil
}

// ExpireStalePending sweeps a renter's lapsed pending bookings to
// cancelled and returns them post-transition.
func (r *GormBookingRepository) ExpireStalePending(ctx context.Context, renterID uuid.UUID, today time.Time) ([]*bookingDomain.Booking, error) {
	midnight := bookingDomain.DayStart(today)

	var swept []*bookingDomain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var models []BookingModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("renter_id = ? AND status = ? AND start_date < ?",
				renterID, string(bookingDomain.StatusPending), midnight).
			Find(&models).Error; err != nil {
			return fmt.Errorf("failed to find lapsed bookings: %w", err)
		}
		if len(models) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(models))
		for i, m := range models {
			ids[i] = m.ID
		}

		now := time.Now().UTC()
		if err := tx.Model(&BookingModel{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"status":      string(bookingDomain.StatusCancelled),
				"cancel_note": "request lapsed before the start date",
				"version":     gorm.Expr("version + 1"),
				"updated_at":  now,
			}).Error; err != nil {
			return fmt.Errorf("failed to expire lapsed bookings: %w", err)
		}

		swept = make([]*bookingDomain.Booking, 0, len(models))
		for _, m := range models {
			bk, err := toDomainBooking(&m)
			if err != nil {
				return err
			}
			if err := bk.Expire(today); err != nil {
				return err
			}
			bk.IncrementVersion()
			swept = append(swept, bk)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return swept, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:              bk.ID(),
		ListingID:       bk.ListingID(),
		RenterID:        bk.RenterID(),
		OwnerID:         bk.OwnerID(),
		StartDate:       bk.StartDate(),
		EndDate:         bk.EndDate(),
		Status:          string(bk.Status()),
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		CancelNote:      bk.CancelNote(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return bookingDomain.Reconstruct(
		m.ID,
		m.ListingID,
		m.RenterID,
		m.OwnerID,
		m.StartDate,
		m.EndDate,
		status,
		m.TotalPriceCents,
		m.Currency,
		m.CancelNote,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel, total int64) ([]*bookingDomain.Booking, int64, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}
