package message

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for messages.
type Repository interface {
	Save(ctx context.Context, msg *Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)
	FindByRecipientID(ctx context.Context, recipientID uuid.UUID, page, limit int) ([]*Message, int64, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*Message, error)
}
