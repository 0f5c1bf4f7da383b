package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kiloukoi/service-booking/internal/domain/message"
	"github.com/kiloukoi/service-booking/internal/platform/domain"
)

// SendMessageRequest holds a user-to-user message to deliver.
type SendMessageRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" binding:"required"`
	Body        string    `json:"body" binding:"required"`
}

// MessageDTO is the response representation of a message.
type MessageDTO struct {
	ID          uuid.UUID  `json:"id"`
	SenderID    uuid.UUID  `json:"sender_id"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	BookingID   *uuid.UUID `json:"booking_id,omitempty"`
	Kind        string     `json:"kind"`
	Body        string     `json:"body"`
	CreatedAt   time.Time  `json:"created_at"`
}

// MessageService handles the user inbox, both direct messages and the
// transactional notices booking lifecycle changes generate.
type MessageService struct {
	repo     message.Repository
	bookings bookingReader
	logger   *zap.Logger
}

// bookingReader is the slice of the booking repository the message
// service needs for access checks.
type bookingReader interface {
	IsParticipant(ctx context.Context, bookingID, userID uuid.UUID) (bool, error)
}

// NewMessageService creates a new MessageService.
func NewMessageService(repo message.Repository, bookings bookingReader, logger *zap.Logger) *MessageService {
	return &MessageService{repo: repo, bookings: bookings, logger: logger}
}

// SendMessage delivers a direct message between users.
func (s *MessageService) SendMessage(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*MessageDTO, error) {
	msg, err := message.NewMessage(senderID, req.RecipientID, req.Body)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, err
	}

	result := toMessageDTO(msg)
	return &result, nil
}

// GetInbox returns the caller's received messages, newest first.
func (s *MessageService) GetInbox(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedResult[MessageDTO], error) {
	messages, total, err := s.repo.FindByRecipientID(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]MessageDTO, len(messages))
	for i, msg := range messages {
		dtos[i] = toMessageDTO(msg)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetBookingThread returns the messages attached to a booking. Only the
// renter and the owner may read the thread.
func (s *MessageService) GetBookingThread(ctx context.Context, bookingID, userID uuid.UUID) ([]MessageDTO, error) {
	ok, err := s.bookings.IsParticipant(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("you are not part of this booking")
	}

	messages, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	dtos := make([]MessageDTO, len(messages))
	for i, msg := range messages {
		dtos[i] = toMessageDTO(msg)
	}
	return dtos, nil
}

func toMessageDTO(msg *message.Message) MessageDTO {
	return MessageDTO{
		ID:          msg.ID(),
		SenderID:    msg.SenderID(),
		RecipientID: msg.RecipientID(),
		BookingID:   msg.BookingID(),
		Kind:        string(msg.Kind()),
		Body:        msg.Body(),
		CreatedAt:   msg.CreatedAt(),
	}
}
