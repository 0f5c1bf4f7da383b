package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/kiloukoi/service-booking/internal/domain/booking"
	listingDomain "github.com/kiloukoi/service-booking/internal/domain/listing"
	messageDomain "github.com/kiloukoi/service-booking/internal/domain/message"
	"github.com/kiloukoi/service-booking/internal/domain/promotion"
	"github.com/kiloukoi/service-booking/internal/platform/domain"
	"github.com/kiloukoi/service-booking/internal/platform/kafka"
)

// fakePublisher records published events instead of writing to Kafka.
type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
	topics []string
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) typesPublished() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

// memBookingRepo is an in-memory booking.Repository.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *memBookingRepo) FindByRenterID(_ context.Context, renterID uuid.UUID, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.RenterID() == renterID {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.OwnerID() == ownerID {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) FindBookedRanges(_ context.Context, listingID uuid.UUID) ([]bookingDomain.BookedRange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []bookingDomain.BookedRange
	for _, bk := range r.bookings {
		if bk.ListingID() == listingID && bk.BookedRange().Blocks() {
			out = append(out, bk.BookedRange())
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListAll(_ context.Context, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*bookingDomain.Booking, 0, len(r.bookings))
	for _, bk := range r.bookings {
		out = append(out, bk)
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

func (r *memBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookings {
		if existing.ListingID() == bk.ListingID() &&
			existing.BookedRange().Blocks() &&
			existing.BookedRange().Overlaps(bk.StartDate(), bk.EndDate()) {
			return domain.NewConflictError("requested dates overlap an existing booking")
		}
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *memBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *memBookingRepo) IsParticipant(_ context.Context, bookingID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[bookingID]
	if !ok {
		return false, nil
	}
	return bk.RenterID() == userID || bk.OwnerID() == userID, nil
}

func (r *memBookingRepo) ExpireStalePending(_ context.Context, renterID uuid.UUID, today time.Time) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var swept []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.RenterID() == renterID && bk.Lapsed(today) {
			if err := bk.Expire(today); err != nil {
				return nil, err
			}
			bk.IncrementVersion()
			swept = append(swept, bk)
		}
	}
	return swept, nil
}

// memListingRepo is an in-memory listing.Repository.
type memListingRepo struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*listingDomain.Listing
}

func newMemListingRepo() *memListingRepo {
	return &memListingRepo{listings: make(map[uuid.UUID]*listingDomain.Listing)}
}

func (r *memListingRepo) FindByID(_ context.Context, id uuid.UUID) (*listingDomain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lst, ok := r.listings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Listing", id.String())
	}
	return lst, nil
}

func (r *memListingRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*listingDomain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*listingDomain.Listing
	for _, lst := range r.listings {
		if lst.OwnerID() == ownerID {
			out = append(out, lst)
		}
	}
	return out, nil
}

func (r *memListingRepo) Save(_ context.Context, lst *listingDomain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[lst.ID()] = lst
	return nil
}

func (r *memListingRepo) Update(_ context.Context, lst *listingDomain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[lst.ID()] = lst
	return nil
}

func (r *memListingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listings, id)
	return nil
}

// memMessageRepo is an in-memory message.Repository.
type memMessageRepo struct {
	mu       sync.Mutex
	messages []*messageDomain.Message
}

func newMemMessageRepo() *memMessageRepo { return &memMessageRepo{} }

func (r *memMessageRepo) Save(_ context.Context, msg *messageDomain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *memMessageRepo) FindByID(_ context.Context, id uuid.UUID) (*messageDomain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.messages {
		if msg.ID() == id {
			return msg, nil
		}
	}
	return nil, domain.NewNotFoundError("Message", id.String())
}

func (r *memMessageRepo) FindByRecipientID(_ context.Context, recipientID uuid.UUID, _, _ int) ([]*messageDomain.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*messageDomain.Message
	for _, msg := range r.messages {
		if msg.RecipientID() == recipientID {
			out = append(out, msg)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memMessageRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*messageDomain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*messageDomain.Message
	for _, msg := range r.messages {
		if msg.BookingID() != nil && *msg.BookingID() == bookingID {
			out = append(out, msg)
		}
	}
	return out, nil
}

// memPromotionRepo is an in-memory promotion.Repository.
type memPromotionRepo struct {
	mu     sync.Mutex
	promos map[uuid.UUID]*promotion.Promotion
}

func newMemPromotionRepo() *memPromotionRepo {
	return &memPromotionRepo{promos: make(map[uuid.UUID]*promotion.Promotion)}
}

func (r *memPromotionRepo) FindByID(_ context.Context, id uuid.UUID) (*promotion.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.promos[id]
	if !ok {
		return nil, domain.NewNotFoundError("Promotion", id.String())
	}
	return p, nil
}

func (r *memPromotionRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*promotion.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*promotion.Promotion
	for _, p := range r.promos {
		if p.UserID() == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPromotionRepo) FindActiveByListingID(_ context.Context, listingID uuid.UUID) (*promotion.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.promos {
		if p.ListingID() == listingID && p.Status() == promotion.StatusActive {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError("Promotion", listingID.String())
}

func (r *memPromotionRepo) FindByPaymentID(_ context.Context, paymentID string) (*promotion.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.promos {
		if p.PaymentID() == paymentID {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError("Promotion", paymentID)
}

func (r *memPromotionRepo) ListAll(_ context.Context, _, _ int) ([]*promotion.Promotion, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*promotion.Promotion, 0, len(r.promos))
	for _, p := range r.promos {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *memPromotionRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, p := range r.promos {
		counts[string(p.Status())]++
	}
	return counts, nil
}

func (r *memPromotionRepo) Save(_ context.Context, p *promotion.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.promos {
		if existing.PaymentID() == p.PaymentID() {
			return domain.NewConflictError("a promotion for this payment already exists")
		}
	}
	r.promos[p.ID()] = p
	return nil
}

func (r *memPromotionRepo) Update(_ context.Context, p *promotion.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.promos[p.ID()]; !ok {
		return domain.NewNotFoundError("Promotion", p.ID().String())
	}
	r.promos[p.ID()] = p
	return nil
}

// memCheckoutStore is an in-memory promotion.CheckoutStore.
type memCheckoutStore struct {
	mu    sync.Mutex
	descs map[string]promotion.CheckoutDescriptor
}

func newMemCheckoutStore() *memCheckoutStore {
	return &memCheckoutStore{descs: make(map[string]promotion.CheckoutDescriptor)}
}

func checkoutKey(userID, listingID uuid.UUID) string {
	return userID.String() + ":" + listingID.String()
}

func (s *memCheckoutStore) Put(_ context.Context, desc promotion.CheckoutDescriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.descs[checkoutKey(desc.UserID, desc.ListingID)] = desc
	return nil
}

func (s *memCheckoutStore) Get(_ context.Context, userID, listingID uuid.UUID) (*promotion.CheckoutDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	desc, ok := s.descs[checkoutKey(userID, listingID)]
	if !ok {
		return nil, domain.NewNotFoundError("Checkout", listingID.String())
	}
	return &desc, nil
}

func (s *memCheckoutStore) Delete(_ context.Context, userID, listingID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.descs, checkoutKey(userID, listingID))
	return nil
}
