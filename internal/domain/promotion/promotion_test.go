package promotion

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanByID(t *testing.T) {
	plan, err := PlanByID("boost-7")
	require.NoError(t, err)
	assert.Equal(t, 7, plan.DurationDays)
	assert.Equal(t, int64(499), plan.PriceCents)

	plan, err = PlanByID("boost-30")
	require.NoError(t, err)
	assert.Equal(t, 30, plan.DurationDays)
	assert.Equal(t, int64(1499), plan.PriceCents)

	_, err = PlanByID("boost-90")
	assert.Error(t, err)
}

func TestNewPromotion(t *testing.T) {
	listingID, userID := uuid.New(), uuid.New()
	today := day(2026, time.June, 15)

	t.Run("runs from today, end date inclusive", func(t *testing.T) {
		p, err := NewPromotion(listingID, userID, "pay_1", 499, 7, today)
		require.NoError(t, err)

		assert.Equal(t, StatusActive, p.Status())
		assert.Equal(t, day(2026, time.June, 15), p.StartDate())
		assert.Equal(t, day(2026, time.June, 21), p.EndDate())
		assert.Equal(t, int64(499), p.AmountPaidCents())
		assert.Equal(t, "pay_1", p.PaymentID())
	})

	t.Run("single day boost ends the same day", func(t *testing.T) {
		p, err := NewPromotion(listingID, userID, "pay_2", 100, 1, today)
		require.NoError(t, err)
		assert.Equal(t, p.StartDate(), p.EndDate())
	})

	t.Run("rejects missing payment reference", func(t *testing.T) {
		_, err := NewPromotion(listingID, userID, "", 499, 7, today)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewPromotion(listingID, userID, "pay_3", 0, 7, today)
		assert.Error(t, err)
	})
}

func TestPromotionExpiry(t *testing.T) {
	p, err := NewPromotion(uuid.New(), uuid.New(), "pay_4", 499, 7, day(2026, time.June, 15))
	require.NoError(t, err)

	// Still live on its last day.
	assert.False(t, p.Lapsed(day(2026, time.June, 21)))
	assert.Error(t, p.Expire(day(2026, time.June, 21)))
	assert.Equal(t, StatusActive, p.Status())

	// Lapsed the day after.
	assert.True(t, p.Lapsed(day(2026, time.June, 22)))
	require.NoError(t, p.Expire(day(2026, time.June, 22)))
	assert.Equal(t, StatusExpired, p.Status())

	// Expired is terminal.
	assert.False(t, p.Lapsed(day(2026, time.June, 23)))
	assert.Error(t, p.Cancel())
}

func TestPromotionCancel(t *testing.T) {
	p, err := NewPromotion(uuid.New(), uuid.New(), "pay_5", 1499, 30, day(2026, time.June, 15))
	require.NoError(t, err)

	require.NoError(t, p.Cancel())
	assert.Equal(t, StatusCancelled, p.Status())
	assert.Error(t, p.Cancel())
}

func TestCheckoutDescriptor(t *testing.T) {
	listingID, userID := uuid.New(), uuid.New()
	desc := NewCheckoutDescriptor(listingID, userID, PlanMonth)

	assert.Equal(t, listingID, desc.ListingID)
	assert.Equal(t, userID, desc.UserID)
	assert.Equal(t, "boost-30", desc.PlanID)
	assert.Equal(t, int64(1499), desc.PriceCents)
	assert.Equal(t, 30, desc.DurationDays)
	assert.False(t, desc.CreatedAt.IsZero())
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusActive))
	assert.True(t, StatusActive.CanTransitionTo(StatusExpired))
	assert.True(t, StatusActive.CanTransitionTo(StatusCancelled))

	assert.False(t, StatusExpired.CanTransitionTo(StatusActive))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusActive))

	_, err := ParseStatus("active")
	assert.NoError(t, err)
	_, err = ParseStatus("refunded")
	assert.Error(t, err)
}
