package application

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	listingDomain "github.com/kiloukoi/service-booking/internal/domain/listing"
	"github.com/kiloukoi/service-booking/internal/domain/promotion"
	"github.com/kiloukoi/service-booking/internal/events"
	"github.com/kiloukoi/service-booking/internal/platform/domain"
	"github.com/kiloukoi/service-booking/internal/platform/kafka"
	"github.com/kiloukoi/service-booking/internal/platform/retry"
)

// StartCheckoutRequest selects a plan for a listing.
type StartCheckoutRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	PlanID    string    `json:"plan_id" binding:"required"`
}

// CheckoutDTO carries the redirect the client should follow.
type CheckoutDTO struct {
	CheckoutURL string `json:"checkout_url"`
}

// ReconcileRequest is what the client reports back after the payment
// redirect. Status is asserted by the client; the amount and duration are
// never taken from it.
type ReconcileRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	Status    string    `json:"status"`
	PaymentID string    `json:"payment_id"`
}

// PromotionDTO is the response representation of a promotion.
type PromotionDTO struct {
	ID              uuid.UUID `json:"id"`
	ListingID       uuid.UUID `json:"listing_id"`
	UserID          uuid.UUID `json:"user_id"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	Status          string    `json:"status"`
	AmountPaidCents int64     `json:"amount_paid_cents"`
	PaymentID       string    `json:"payment_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// PromotionService orchestrates listing boosts: plan selection, the
// checkout round trip and activation.
type PromotionService struct {
	promos    promotion.Repository
	checkouts promotion.CheckoutStore
	listings  listingDomain.Repository
	producer  EventPublisher
	logger    *zap.Logger

	checkoutURL string
	returnURL   string
}

// NewPromotionService creates a new PromotionService.
func NewPromotionService(
	promos promotion.Repository,
	checkouts promotion.CheckoutStore,
	listings listingDomain.Repository,
	producer EventPublisher,
	logger *zap.Logger,
	checkoutURL, returnURL string,
) *PromotionService {
	return &PromotionService{
		promos:      promos,
		checkouts:   checkouts,
		listings:    listings,
		producer:    producer,
		logger:      logger,
		checkoutURL: checkoutURL,
		returnURL:   returnURL,
	}
}

// ListPlans returns the purchasable plan catalog.
func (s *PromotionService) ListPlans() []promotion.Plan {
	return promotion.Plans()
}

// StartCheckout stores a checkout descriptor for the selected plan and
// returns the payment page URL to redirect to. Only the listing owner can
// boost a listing, and a listing carries at most one live boost.
func (s *PromotionService) StartCheckout(ctx context.Context, userID uuid.UUID, req StartCheckoutRequest) (*CheckoutDTO, error) {
	plan, err := promotion.PlanByID(req.PlanID)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	lst, err := retry.Read(ctx, func(ctx context.Context) (*listingDomain.Listing, error) {
		return s.listings.FindByID(ctx, req.ListingID)
	})
	if err != nil {
		return nil, err
	}
	if !lst.IsOwnedBy(userID) {
		return nil, domain.NewForbiddenError("only the listing owner can boost it")
	}

	if existing, err := s.promos.FindActiveByListingID(ctx, req.ListingID); err == nil && existing != nil {
		return nil, domain.NewConflictError("listing already has an active boost")
	} else if err != nil {
		if kind, ok := domain.KindOf(err); !ok || kind != domain.KindNotFound {
			return nil, err
		}
	}

	desc := promotion.NewCheckoutDescriptor(req.ListingID, userID, plan)
	if err := s.checkouts.Put(ctx, desc); err != nil {
		return nil, fmt.Errorf("failed to store checkout: %w", err)
	}

	q := url.Values{}
	q.Set("listing_id", req.ListingID.String())
	q.Set("amount", fmt.Sprintf("%d", plan.PriceCents))
	q.Set("return_url", s.returnURL)
	return &CheckoutDTO{CheckoutURL: s.checkoutURL + "?" + q.Encode()}, nil
}

// ReconcileCallback handles the client's return from the payment page. The
// promotion's price and duration come from the stored descriptor; the
// client only asserts the outcome. Whatever happens, the descriptor is
// cleared so a stale checkout can never activate later.
func (s *PromotionService) ReconcileCallback(ctx context.Context, userID uuid.UUID, req ReconcileRequest) (*PromotionDTO, error) {
	desc, err := s.checkouts.Get(ctx, userID, req.ListingID)
	if err != nil {
		if kind, ok := domain.KindOf(err); ok && kind == domain.KindNotFound {
			return nil, domain.NewValidationError("missing checkout information")
		}
		return nil, fmt.Errorf("failed to read checkout: %w", err)
	}
	defer func() {
		if err := s.checkouts.Delete(ctx, userID, req.ListingID); err != nil {
			s.logger.Warn("failed to clear checkout descriptor",
				zap.String("user_id", userID.String()),
				zap.String("listing_id", req.ListingID.String()),
				zap.Error(err),
			)
		}
	}()

	if req.Status == "" {
		return nil, domain.NewValidationError("missing checkout information")
	}
	if req.Status != "success" {
		return nil, domain.NewValidationError("payment was not completed")
	}

	paymentID := req.PaymentID
	if paymentID == "" {
		paymentID = fmt.Sprintf("callback-%s-%d", userID, time.Now().UnixMilli())
	}

	return s.activate(ctx, desc.ListingID, userID, paymentID, desc.PriceCents, desc.DurationDays)
}

// ActivateFromPayment applies a server-verified payment event. Idempotent:
// replays of the same payment ID are ignored.
func (s *PromotionService) ActivateFromPayment(ctx context.Context, evt events.PaymentSucceededEvent) error {
	if _, err := s.promos.FindByPaymentID(ctx, evt.PaymentID); err == nil {
		return nil
	} else if kind, ok := domain.KindOf(err); !ok || kind != domain.KindNotFound {
		return err
	}

	desc, err := s.checkouts.Get(ctx, evt.UserID, evt.ListingID)
	if err != nil {
		if kind, ok := domain.KindOf(err); ok && kind == domain.KindNotFound {
			// Callback already consumed the descriptor, or the checkout
			// expired. Fall back to matching the paid amount to a plan.
			return s.activateFromAmount(ctx, evt)
		}
		return fmt.Errorf("failed to read checkout: %w", err)
	}

	if _, err := s.activate(ctx, desc.ListingID, desc.UserID, evt.PaymentID, desc.PriceCents, desc.DurationDays); err != nil {
		return err
	}
	if err := s.checkouts.Delete(ctx, evt.UserID, evt.ListingID); err != nil {
		s.logger.Warn("failed to clear checkout descriptor", zap.Error(err))
	}
	return nil
}

func (s *PromotionService) activateFromAmount(ctx context.Context, evt events.PaymentSucceededEvent) error {
	for _, plan := range promotion.Plans() {
		if plan.PriceCents == evt.AmountCents {
			_, err := s.activate(ctx, evt.ListingID, evt.UserID, evt.PaymentID, plan.PriceCents, plan.DurationDays)
			return err
		}
	}
	return domain.NewValidationError("paid amount matches no promotion plan")
}

func (s *PromotionService) activate(ctx context.Context, listingID, userID uuid.UUID, paymentID string, amountCents int64, durationDays int) (*PromotionDTO, error) {
	promo, err := promotion.NewPromotion(listingID, userID, paymentID, amountCents, durationDays, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.promos.Save(ctx, promo); err != nil {
		return nil, err
	}

	evt := events.PromotionActivatedEvent{
		PromotionID:     promo.ID(),
		ListingID:       promo.ListingID(),
		UserID:          promo.UserID(),
		PaymentID:       promo.PaymentID(),
		AmountPaidCents: promo.AmountPaidCents(),
		StartDate:       promo.StartDate(),
		EndDate:         promo.EndDate(),
		OccurredAt:      time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicPromotionEvents, events.PromotionActivated, evt)

	result := toPromotionDTO(promo)
	return &result, nil
}

// GetMyPromotions returns the caller's promotions. Active boosts past
// their end date are swept to expired first.
func (s *PromotionService) GetMyPromotions(ctx context.Context, userID uuid.UUID) ([]PromotionDTO, error) {
	promos, err := s.promos.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	dtos := make([]PromotionDTO, 0, len(promos))
	for _, promo := range promos {
		if promo.Lapsed(today) {
			if err := promo.Expire(today); err == nil {
				promo.IncrementVersion()
				if err := s.promos.Update(ctx, promo); err != nil {
					s.logger.Warn("failed to expire promotion",
						zap.String("promotion_id", promo.ID().String()),
						zap.Error(err),
					)
				}
			}
		}
		dtos = append(dtos, toPromotionDTO(promo))
	}
	return dtos, nil
}

// GetActivePromotion returns the live boost on a listing, if any.
func (s *PromotionService) GetActivePromotion(ctx context.Context, listingID uuid.UUID) (*PromotionDTO, error) {
	promo, err := retry.Read(ctx, func(ctx context.Context) (*promotion.Promotion, error) {
		return s.promos.FindActiveByListingID(ctx, listingID)
	})
	if err != nil {
		return nil, err
	}
	result := toPromotionDTO(promo)
	return &result, nil
}

// --- Admin methods ---

// PromotionStatsDTO holds promotion statistics for the admin dashboard.
type PromotionStatsDTO struct {
	TotalPromotions int64            `json:"total_promotions"`
	RevenueCents    int64            `json:"revenue_cents"`
	ByStatus        map[string]int64 `json:"by_status"`
}

// ListAllPromotions returns a paginated list of all promotions (admin).
func (s *PromotionService) ListAllPromotions(ctx context.Context, page, limit int) ([]PromotionDTO, int64, error) {
	promos, total, err := s.promos.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list promotions: %w", err)
	}
	dtos := make([]PromotionDTO, len(promos))
	for i, promo := range promos {
		dtos[i] = toPromotionDTO(promo)
	}
	return dtos, total, nil
}

// GetPromotionStats returns aggregate promotion statistics (admin).
func (s *PromotionService) GetPromotionStats(ctx context.Context) (*PromotionStatsDTO, error) {
	counts, err := s.promos.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get promotion stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	// Revenue is computed page by page to keep the query simple; counts
	// stay small at this service's scale.
	promos, _, err := s.promos.ListAll(ctx, 1, 1000)
	if err != nil {
		return nil, fmt.Errorf("failed to get promotion stats: %w", err)
	}
	var revenue int64
	for _, promo := range promos {
		if promo.Status() != promotion.StatusCancelled {
			revenue += promo.AmountPaidCents()
		}
	}
	return &PromotionStatsDTO{TotalPromotions: total, RevenueCents: revenue, ByStatus: counts}, nil
}

func (s *PromotionService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
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

func toPromotionDTO(promo *promotion.Promotion) PromotionDTO {
	return PromotionDTO{
		ID:              promo.ID(),
		ListingID:       promo.ListingID(),
		UserID:          promo.UserID(),
		StartDate:       promo.StartDate().Format(dateLayout),
		EndDate:         promo.EndDate().Format(dateLayout),
		Status:          string(promo.Status()),
		AmountPaidCents: promo.AmountPaidCents(),
		PaymentID:       promo.PaymentID(),
		CreatedAt:       promo.CreatedAt(),
	}
}
