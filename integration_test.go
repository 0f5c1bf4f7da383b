//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	promoDomain "github.com/kiloukoi/service-booking/internal/domain/promotion"
	bookingEvents "github.com/kiloukoi/service-booking/internal/events"
)

// TestPaymentSucceeded_ActivatesPromotion verifies that when a
// PaymentSucceededEvent is published to payment.events, the booking service
// picks it up, matches it against the stored checkout descriptor and
// activates the boost.
func TestPaymentSucceeded_ActivatesPromotion(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupPromotionStack(t, infra.DB, infra.Redis, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	// Seed a listing and a pending checkout for the weekly plan.
	listingID := uuid.New()
	ownerID := uuid.New()
	seedActiveListing(t, infra.DB, listingID, ownerID)

	desc := promoDomain.NewCheckoutDescriptor(listingID, ownerID, promoDomain.PlanWeek)
	require.NoError(t, stack.Checkouts.Put(context.Background(), desc))

	// Start the consumer.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	// Publish PaymentSucceededEvent.
	paymentID := "pay_" + uuid.New().String()[:8]
	evt := bookingEvents.PaymentSucceededEvent{
		PaymentID:   paymentID,
		ListingID:   listingID,
		UserID:      ownerID,
		AmountCents: promoDomain.PlanWeek.PriceCents,
		Currency:    "EUR",
		OccurredAt:  time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, bookingEvents.TopicPaymentEvents,
		"service-payment", bookingEvents.PaymentSucceeded, evt)

	// Assert: a promotion row appears in "active" status.
	model := waitForPromotion(t, infra.DB, paymentID, "active", 15*time.Second)
	assert.Equal(t, listingID, model.ListingID)
	assert.Equal(t, ownerID, model.UserID)
	assert.Equal(t, promoDomain.PlanWeek.PriceCents, model.AmountPaidCents)

	// The boost runs for the plan's duration, end date inclusive.
	wantEnd := model.StartDate.AddDate(0, 0, promoDomain.PlanWeek.DurationDays-1)
	assert.Equal(t, wantEnd, model.EndDate)

	// Assert: PromotionActivatedEvent on promotion.events.
	ce := consumeOneEvent(t, infra.KafkaBrokers, bookingEvents.TopicPromotionEvents,
		bookingEvents.PromotionActivated, 15*time.Second)

	var activated bookingEvents.PromotionActivatedEvent
	require.NoError(t, ce.ParseData(&activated))
	assert.Equal(t, paymentID, activated.PaymentID)
	assert.Equal(t, listingID, activated.ListingID)

	// The descriptor must be consumed; a replay of the same payment must
	// not create a second promotion.
	_, err := stack.Checkouts.Get(context.Background(), ownerID, listingID)
	assert.Error(t, err)
	require.NoError(t, stack.Service.ActivateFromPayment(context.Background(), evt))

	var count int64
	require.NoError(t, infra.DB.Table("promotions").Where("payment_id = ?", paymentID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
