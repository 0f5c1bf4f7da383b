package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	messageDomain "github.com/kiloukoi/service-booking/internal/domain/message"
	"github.com/kiloukoi/service-booking/internal/platform/domain"
)

// MessageModel is the GORM model for the messages table.
type MessageModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SenderID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	RecipientID uuid.UUID  `gorm:"type:uuid;index;not null"`
	BookingID   *uuid.UUID `gorm:"type:uuid;index"`
	Kind        string     `gorm:"not null;size:20"`
	Body        string     `gorm:"not null;size:2000"`
	CreatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (MessageModel) TableName() string {
	return "messages"
}

// GormMessageRepository is the GORM-based implementation of message.Repository.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Save persists a new message.
func (r *GormMessageRepository) Save(ctx context.Context, msg *messageDomain.Message) error {
	model := &MessageModel{
		ID:          msg.ID(),
		SenderID:    msg.SenderID(),
		RecipientID: msg.RecipientID(),
		BookingID:   msg.BookingID(),
		Kind:        string(msg.Kind()),
		Body:        msg.Body(),
		CreatedAt:   msg.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// FindByID retrieves a message by its unique identifier.
func (r *GormMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*messageDomain.Message, error) {
	var model MessageModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Message", id.String())
		}
		return nil, fmt.Errorf("failed to find message by ID: %w", err)
	}
	return toDomainMessage(&model), nil
}

// FindByRecipientID retrieves messages addressed to a user with pagination.
func (r *GormMessageRepository) FindByRecipientID(ctx context.Context, recipientID uuid.UUID, page, limit int) ([]*messageDomain.Message, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&MessageModel{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	var models []MessageModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find messages: %w", err)
	}

	msgs := make([]*messageDomain.Message, len(models))
	for i, m := range models {
		msgs[i] = toDomainMessage(&m)
	}
	return msgs, total, nil
}

// FindByBookingID retrieves the transactional messages attached to a booking.
func (r *GormMessageRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*messageDomain.Message, error) {
	var models []MessageModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find messages by booking: %w", err)
	}

	msgs := make([]*messageDomain.Message, len(models))
	for i, m := range models {
		msgs[i] = toDomainMessage(&m)
	}
	return msgs, nil
}

func toDomainMessage(m *MessageModel) *messageDomain.Message {
	return messageDomain.Reconstruct(
		m.ID,
		m.SenderID,
		m.RecipientID,
		m.BookingID,
		messageDomain.Kind(m.Kind),
		m.Body,
		m.CreatedAt,
	)
}
