package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kiloukoi/service-booking/internal/platform/kafka"
)

// PromotionActivator applies a server-verified payment to a promotion.
type PromotionActivator interface {
	ActivateFromPayment(ctx context.Context, evt PaymentSucceededEvent) error
}

// PaymentEventConsumer listens to payment events and activates promotions.
// It is the verified counterpart of the client-asserted checkout callback:
// a payment confirmed here activates the boost even if the user never came
// back from the payment page.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	service  PromotionActivator
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service PromotionActivator,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case PaymentSucceeded:
		return c.handlePaymentSucceeded(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentSucceeded(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt PaymentSucceededEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentSucceededEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment succeeded event",
		zap.String("payment_id", evt.PaymentID),
		zap.String("listing_id", evt.ListingID.String()),
	)

	if err := c.service.ActivateFromPayment(ctx, evt); err != nil {
		c.logger.Error("failed to activate promotion after payment",
			zap.String("payment_id", evt.PaymentID),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("promotion activated after payment",
		zap.String("payment_id", evt.PaymentID),
	)
	return nil
}
