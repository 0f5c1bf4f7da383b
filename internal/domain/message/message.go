package message

import (
	"time"

	"github.com/google/uuid"

	"github.com/kiloukoi/service-booking/internal/platform/domain"
)

// Kind distinguishes user-authored messages from the transactional
// notices the booking flow appends on the users' behalf.
type Kind string

const (
	KindUser          Kind = "user"
	KindTransactional Kind = "transactional"
)

// IsValid returns true if the kind is recognized.
func (k Kind) IsValid() bool {
	return k == KindUser || k == KindTransactional
}

// Message is an append-only entry in a conversation between two users.
type Message struct {
	id          uuid.UUID
	senderID    uuid.UUID
	recipientID uuid.UUID
	bookingID   *uuid.UUID
	kind        Kind
	body        string
	createdAt   time.Time
}

// NewMessage creates a user-authored message.
func NewMessage(senderID, recipientID uuid.UUID, body string) (*Message, error) {
	return newMessage(senderID, recipientID, nil, KindUser, body)
}

// NewTransactionalMessage creates a system-appended notice about a
// booking, sent on behalf of the sender.
func NewTransactionalMessage(senderID, recipientID, bookingID uuid.UUID, body string) (*Message, error) {
	return newMessage(senderID, recipientID, &bookingID, KindTransactional, body)
}

func newMessage(senderID, recipientID uuid.UUID, bookingID *uuid.UUID, kind Kind, body string) (*Message, error) {
	if senderID == uuid.Nil {
		return nil, domain.NewValidationError("sender ID is required")
	}
	if recipientID == uuid.Nil {
		return nil, domain.NewValidationError("recipient ID is required")
	}
	if body == "" {
		return nil, domain.NewValidationError("message body is required")
	}

	return &Message{
		id:          uuid.New(),
		senderID:    senderID,
		recipientID: recipientID,
		bookingID:   bookingID,
		kind:        kind,
		body:        body,
		createdAt:   time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Message from persistence.
func Reconstruct(id, senderID, recipientID uuid.UUID, bookingID *uuid.UUID, kind Kind, body string, createdAt time.Time) *Message {
	return &Message{
		id:          id,
		senderID:    senderID,
		recipientID: recipientID,
		bookingID:   bookingID,
		kind:        kind,
		body:        body,
		createdAt:   createdAt,
	}
}

// Getters.
func (m *Message) ID() uuid.UUID          { return m.id }
func (m *Message) SenderID() uuid.UUID    { return m.senderID }
func (m *Message) RecipientID() uuid.UUID { return m.recipientID }
func (m *Message) BookingID() *uuid.UUID  { return m.bookingID }
func (m *Message) Kind() Kind             { return m.kind }
func (m *Message) Body() string           { return m.body }
func (m *Message) CreatedAt() time.Time   { return m.createdAt }
