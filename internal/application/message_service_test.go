package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/kiloukoi/service-booking/internal/domain/booking"
	"github.com/kiloukoi/service-booking/internal/platform/domain"
)

func TestSendMessageAndInbox(t *testing.T) {
	ctx := context.Background()
	repo := newMemMessageRepo()
	svc := NewMessageService(repo, newMemBookingRepo(), zap.NewNop())

	sender, recipient := uuid.New(), uuid.New()
	dto, err := svc.SendMessage(ctx, sender, SendMessageRequest{
		RecipientID: recipient,
		Body:        "Bonjour, la perceuse est-elle disponible ce week-end ?",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", dto.Kind)
	assert.Nil(t, dto.BookingID)

	inbox, err := svc.GetInbox(ctx, recipient, 1, 20)
	require.NoError(t, err)
	require.Len(t, inbox.Items, 1)
	assert.Equal(t, sender, inbox.Items[0].SenderID)

	// The sender's own inbox stays empty.
	own, err := svc.GetInbox(ctx, sender, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, own.Items)
}

func TestGetBookingThread(t *testing.T) {
	ctx := context.Background()
	messages := newMemMessageRepo()
	bookings := newMemBookingRepo()
	svc := NewMessageService(messages, bookings, zap.NewNop())

	renter, owner := uuid.New(), uuid.New()
	now := time.Now().UTC()
	bk := bookingDomain.Reconstruct(
		uuid.New(), uuid.New(), renter, owner,
		now.AddDate(0, 0, 5), now.AddDate(0, 0, 7),
		bookingDomain.StatusPending,
		2400, "EUR", "", 1, now, now,
	)
	bookings.bookings[bk.ID()] = bk

	bookingSvc := NewBookingService(
		bookings, newMemListingRepo(), messages,
		bookingDomain.NewStandardPricingStrategy(),
		&fakePublisher{}, zap.NewNop(),
	)
	_, err := bookingSvc.ConfirmBooking(ctx, bk.ID(), owner)
	require.NoError(t, err)

	t.Run("participants read the thread", func(t *testing.T) {
		thread, err := svc.GetBookingThread(ctx, bk.ID(), renter)
		require.NoError(t, err)
		require.Len(t, thread, 1)
		assert.Equal(t, "transactional", thread[0].Kind)
		require.NotNil(t, thread[0].BookingID)
		assert.Equal(t, bk.ID(), *thread[0].BookingID)
	})

	t.Run("strangers are refused", func(t *testing.T) {
		_, err := svc.GetBookingThread(ctx, bk.ID(), uuid.New())
		require.Error(t, err)
		kind, _ := domain.KindOf(err)
		assert.Equal(t, domain.KindForbidden, kind)
	})
}
