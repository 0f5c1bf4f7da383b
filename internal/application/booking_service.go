package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/kiloukoi/service-booking/internal/domain/booking"
	"github.com/kiloukoi/service-booking/internal/domain/calendar"
	listingDomain "github.com/kiloukoi/service-booking/internal/domain/listing"
	messageDomain "github.com/kiloukoi/service-booking/internal/domain/message"
	"github.com/kiloukoi/service-booking/internal/events"
	"github.com/kiloukoi/service-booking/internal/platform/domain"
	"github.com/kiloukoi/service-booking/internal/platform/kafka"
	"github.com/kiloukoi/service-booking/internal/platform/retry"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// messageDateLayout is how dates are rendered in transactional messages.
const messageDateLayout = "02/01/2006"

// CreateBookingRequest holds the data needed to request a booking.
type CreateBookingRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	StartDate string    `json:"start_date" binding:"required"`
	EndDate   string    `json:"end_date" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID `json:"id"`
	ListingID       uuid.UUID `json:"listing_id"`
	RenterID        uuid.UUID `json:"renter_id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Currency        string    `json:"currency"`
	CancelNote      string    `json:"cancel_note,omitempty"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AvailabilityDTO is the calendar projection for a listing plus the
// suggested initial selection.
type AvailabilityDTO struct {
	ListingID      uuid.UUID        `json:"listing_id"`
	BookedRanges   []bookedRangeDTO `json:"booked_ranges"`
	NextAvailable  string           `json:"next_available"`
	SuggestedStart string           `json:"suggested_start"`
	SuggestedEnd   string           `json:"suggested_end"`
}

type bookedRangeDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

// EventPublisher is the slice of the Kafka producer the services need.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo     bookingDomain.Repository
	listings listingDomain.Repository
	messages messageDomain.Repository
	pricing  bookingDomain.PricingStrategy
	producer EventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.Repository,
	listings listingDomain.Repository,
	messages messageDomain.Repository,
	pricing bookingDomain.PricingStrategy,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		listings: listings,
		messages: messages,
		pricing:  pricing,
		producer: producer,
		logger:   logger,
	}
}

// GetAvailability returns the blocking ranges for a listing together with
// the first available date and the selection the calendar would
// auto-initialize to.
func (s *BookingService) GetAvailability(ctx context.Context, listingID uuid.UUID) (*AvailabilityDTO, error) {
	ranges, err := retry.Read(ctx, func(ctx context.Context) ([]bookingDomain.BookedRange, error) {
		return s.repo.FindBookedRanges(ctx, listingID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}

	now := time.Now()
	next := bookingDomain.FindNextAvailable(now, now, ranges)
	selector := calendar.NewRangeSelector(now, ranges, nil, nil, nil)

	dto := &AvailabilityDTO{
		ListingID:      listingID,
		BookedRanges:   make([]bookedRangeDTO, len(ranges)),
		NextAvailable:  next.Format(dateLayout),
		SuggestedStart: selector.Start().Format(dateLayout),
		SuggestedEnd:   selector.End().Format(dateLayout),
	}
	for i, r := range ranges {
		dto.BookedRanges[i] = bookedRangeDTO{
			StartDate: r.Start.Format(dateLayout),
			EndDate:   r.End.Format(dateLayout),
			Status:    string(r.Status),
		}
	}
	return dto, nil
}

// CreateBooking creates a pending booking for the given renter. The
// overlap check here is advisory; the repository re-checks inside its
// insert transaction.
func (s *BookingService) CreateBooking(ctx context.Context, renterID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, domain.NewValidationError("start_date must be formatted as YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, domain.NewValidationError("end_date must be formatted as YYYY-MM-DD")
	}

	lst, err := retry.Read(ctx, func(ctx context.Context) (*listingDomain.Listing, error) {
		return s.listings.FindByID(ctx, req.ListingID)
	})
	if err != nil {
		return nil, err
	}
	if !lst.IsActive() {
		return nil, domain.NewValidationError("listing is no longer available")
	}

	ranges, err := s.repo.FindBookedRanges(ctx, req.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}

	now := time.Now()
	if !bookingDomain.IsSelectable(start, now, ranges) {
		return nil, domain.NewValidationError("start date is not available")
	}
	if bookingDomain.HasOverlap(start, end, ranges) {
		return nil, domain.NewValidationError("requested dates overlap an existing booking")
	}

	total, err := s.pricing.Quote(bookingDomain.PricingParams{
		PricePerDayCents: lst.PricePerDayCents(),
		DayCount:         bookingDomain.InclusiveDays(start, end),
	})
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}

	bk, err := bookingDomain.NewBooking(req.ListingID, renterID, lst.OwnerID(), start, end, total)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingRequestedEvent{
		BookingID:       bk.ID(),
		ListingID:       bk.ListingID(),
		RenterID:        bk.RenterID(),
		OwnerID:         bk.OwnerID(),
		StartDate:       bk.StartDate(),
		EndDate:         bk.EndDate(),
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		OccurredAt:      time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingRequested, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// ConfirmBooking accepts a pending booking on behalf of the listing owner.
// A transactional message is appended for the renter on success; message
// failure never rolls the confirmation back.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Confirm(actorID, time.Now()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Your booking request from %s to %s was accepted by the owner.",
		bk.StartDate().Format(messageDateLayout),
		bk.EndDate().Format(messageDateLayout),
	)
	s.notifyRenter(ctx, bk, body)

	evt := events.BookingConfirmedEvent{
		BookingID:  bk.ID(),
		ListingID:  bk.ListingID(),
		RenterID:   bk.RenterID(),
		OwnerID:    bk.OwnerID(),
		StartDate:  bk.StartDate(),
		EndDate:    bk.EndDate(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingConfirmed, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a pending booking. The owner cancels to reject,
// the renter to withdraw; an owner rejection also notifies the renter.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Cancel(actorID, reason); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	if actorID == bk.OwnerID() {
		body := fmt.Sprintf("Your booking request from %s to %s was declined by the owner.",
			bk.StartDate().Format(messageDateLayout),
			bk.EndDate().Format(messageDateLayout),
		)
		s.notifyRenter(ctx, bk, body)
	}

	evt := events.BookingCancelledEvent{
		BookingID:   bk.ID(),
		ListingID:   bk.ListingID(),
		CancelledBy: actorID,
		Reason:      reason,
		OccurredAt:  time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCancelled, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// CompleteBooking marks a confirmed booking as completed once its end date
// has passed. Only the renter may complete.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Complete(actorID, time.Now()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingCompletedEvent{
		BookingID:       bk.ID(),
		ListingID:       bk.ListingID(),
		RenterID:        bk.RenterID(),
		OwnerID:         bk.OwnerID(),
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		OccurredAt:      time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCompleted, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := retry.Read(ctx, func(ctx context.Context) (*bookingDomain.Booking, error) {
		return s.repo.FindByID(ctx, bookingID)
	})
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetSentBookings returns the bookings a renter has requested. Pending
// requests whose start date has passed are swept to cancelled first, so
// the renter never sees a stale pending request.
func (s *BookingService) GetSentBookings(ctx context.Context, renterID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	swept, err := s.repo.ExpireStalePending(ctx, renterID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to sweep lapsed bookings: %w", err)
	}
	for _, bk := range swept {
		evt := events.BookingCancelledEvent{
			BookingID:   bk.ID(),
			ListingID:   bk.ListingID(),
			CancelledBy: bk.RenterID(),
			Reason:      bk.CancelNote(),
			OccurredAt:  time.Now().UTC(),
		}
		s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCancelled, evt)
	}

	bookings, total, err := s.repo.FindByRenterID(ctx, renterID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// GetReceivedBookings returns the bookings requested against an owner's
// listings.
func (s *BookingService) GetReceivedBookings(ctx context.Context, ownerID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByOwnerID(ctx, ownerID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// --- Helpers ---

// notifyRenter appends a transactional message from the owner to the
// renter. Best effort: a failed insert is logged and the lifecycle change
// stands.
func (s *BookingService) notifyRenter(ctx context.Context, bk *bookingDomain.Booking, body string) {
	msg, err := messageDomain.NewTransactionalMessage(bk.OwnerID(), bk.RenterID(), bk.ID(), body)
	if err != nil {
		s.logger.Warn("failed to build booking notice", zap.Error(err))
		return
	}
	if err := s.messages.Save(ctx, msg); err != nil {
		s.logger.Warn("failed to deliver booking notice",
			zap.String("booking_id", bk.ID().String()),
			zap.Error(err),
		)
	}
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		ListingID:       bk.ListingID(),
		RenterID:        bk.RenterID(),
		OwnerID:         bk.OwnerID(),
		StartDate:       bk.StartDate().Format(dateLayout),
		EndDate:         bk.EndDate().Format(dateLayout),
		Status:          string(bk.Status()),
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		CancelNote:      bk.CancelNote(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
