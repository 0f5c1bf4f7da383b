package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	promoDomain "github.com/kiloukoi/service-booking/internal/domain/promotion"
	"github.com/kiloukoi/service-booking/internal/platform/domain"
)

// checkoutTTL bounds how long a pending checkout survives. The external
// payment page times sessions out well before this, so anything older is
// abandoned.
const checkoutTTL = 24 * time.Hour

// RedisCheckoutStore keeps pending checkout descriptors in Redis between
// the redirect to the payment page and the return callback.
type RedisCheckoutStore struct {
	client *redis.Client
}

// NewRedisCheckoutStore creates a checkout store on the given client.
func NewRedisCheckoutStore(client *redis.Client) *RedisCheckoutStore {
	return &RedisCheckoutStore{client: client}
}

func checkoutKey(userID, listingID uuid.UUID) string {
	return fmt.Sprintf("checkout:%s:%s", userID, listingID)
}

// Put stores a descriptor, replacing any previous one for the same user
// and listing.
func (s *RedisCheckoutStore) Put(ctx context.Context, desc promoDomain.CheckoutDescriptor) error {
	payload, err := json.Marshal(desc)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout descriptor: %w", err)
	}
	key := checkoutKey(desc.UserID, desc.ListingID)
	if err := s.client.Set(ctx, key, payload, checkoutTTL).Err(); err != nil {
		return fmt.Errorf("failed to store checkout descriptor: %w", err)
	}
	return nil
}

// Get retrieves the pending descriptor for a user and listing.
func (s *RedisCheckoutStore) Get(ctx context.Context, userID, listingID uuid.UUID) (*promoDomain.CheckoutDescriptor, error) {
	payload, err := s.client.Get(ctx, checkoutKey(userID, listingID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.NewNotFoundError("CheckoutDescriptor", listingID.String())
		}
		return nil, fmt.Errorf("failed to read checkout descriptor: %w", err)
	}

	var desc promoDomain.CheckoutDescriptor
	if err := json.Unmarshal(payload, &desc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkout descriptor: %w", err)
	}
	return &desc, nil
}

// Delete removes the descriptor. Deleting a missing key is not an error;
// the callback clears descriptors unconditionally.
func (s *RedisCheckoutStore) Delete(ctx context.Context, userID, listingID uuid.UUID) error {
	if err := s.client.Del(ctx, checkoutKey(userID, listingID)).Err(); err != nil {
		return fmt.Errorf("failed to delete checkout descriptor: %w", err)
	}
	return nil
}
