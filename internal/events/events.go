package events

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics shared across Kiloukoi services.
const (
	TopicBookingEvents   = "booking.events"
	TopicPromotionEvents = "promotion.events"
	TopicPaymentEvents   = "payment.events"
)

// Event types.
const (
	BookingRequested = "kiloukoi.booking.requested"
	BookingConfirmed = "kiloukoi.booking.confirmed"
	BookingCancelled = "kiloukoi.booking.cancelled"
	BookingCompleted = "kiloukoi.booking.completed"

	PromotionActivated = "kiloukoi.promotion.activated"
	PromotionExpired   = "kiloukoi.promotion.expired"

	PaymentSucceeded = "kiloukoi.payment.succeeded"
)

// BookingRequestedEvent is published when a renter requests a booking.
type BookingRequestedEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	ListingID       uuid.UUID `json:"listing_id"`
	RenterID        uuid.UUID `json:"renter_id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Currency        string    `json:"currency"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// BookingConfirmedEvent is published when the owner accepts a booking.
type BookingConfirmedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ListingID  uuid.UUID `json:"listing_id"`
	RenterID   uuid.UUID `json:"renter_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking is rejected, withdrawn
// or swept after lapsing.
type BookingCancelledEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	ListingID   uuid.UUID `json:"listing_id"`
	CancelledBy uuid.UUID `json:"cancelled_by"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// BookingCompletedEvent is published when the renter completes a booking.
type BookingCompletedEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	ListingID       uuid.UUID `json:"listing_id"`
	RenterID        uuid.UUID `json:"renter_id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Currency        string    `json:"currency"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// PromotionActivatedEvent is published when a listing boost goes live.
type PromotionActivatedEvent struct {
	PromotionID     uuid.UUID `json:"promotion_id"`
	ListingID       uuid.UUID `json:"listing_id"`
	UserID          uuid.UUID `json:"user_id"`
	PaymentID       string    `json:"payment_id"`
	AmountPaidCents int64     `json:"amount_paid_cents"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// PaymentSucceededEvent arrives from the payment provider integration when
// a checkout is confirmed server-side. It is the verified counterpart of
// the client-asserted callback.
type PaymentSucceededEvent struct {
	PaymentID   string    `json:"payment_id"`
	ListingID   uuid.UUID `json:"listing_id"`
	UserID      uuid.UUID `json:"user_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}
