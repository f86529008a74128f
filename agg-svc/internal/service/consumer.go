package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tpv-system/agg-svc/internal/domain"
	"tpv-system/config"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	consumerModule = "agg_consumer"
	maxRetryDelay  = 30 * time.Second
)

type Consumer struct {
	Reader     MessageReader
	Store      StoreInterface
	Logger     *logrus.Logger
	RetryDelay time.Duration
}

func NewConsumer(reader MessageReader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
		Logger: config.GetLogger(),
	}
}

// Start reads the orders topic until ctx is cancelled. Offsets are committed
// only after an event is applied, so a crash replays it and RecordEvent
// drops the duplicate.
func (c *Consumer) Start(ctx context.Context) {
	c.Logger.Info("Starting Aggregation Service consumer...")
	fetchDelay := c.retryDelay()
	for {
		message, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.Logger.Info("Aggregation Service consumer stopped")
				return
			}
			config.LogError(c.Logger, consumerModule, "Start", "fetch message", nil, err)
			if !sleep(ctx, fetchDelay) {
				c.Logger.Info("Aggregation Service consumer stopped")
				return
			}
			fetchDelay = backoff(fetchDelay)
			continue
		}
		fetchDelay = c.retryDelay()

		if !c.handleWithRetry(ctx, message) {
			return
		}
		if err := c.Reader.CommitMessages(ctx, message); err != nil {
			config.LogError(c.Logger, consumerModule, "Start", "commit offset", message.Offset, err)
		}
	}
}

// handleWithRetry retries storage failures until they succeed. Malformed
// messages are logged and skipped. It returns false when ctx is cancelled.
func (c *Consumer) handleWithRetry(ctx context.Context, message kafka.Message) bool {
	delay := c.retryDelay()
	for {
		err := c.handle(ctx, message)
		if err == nil {
			return true
		}
		config.LogError(c.Logger, consumerModule, "Start", "process message", string(message.Key), err)
		if errors.Is(err, domain.ErrMalformedEvent) {
			return true
		}

		if !sleep(ctx, delay) {
			return false
		}
		delay = backoff(delay)
	}
}

func (c *Consumer) retryDelay() time.Duration {
	if c.RetryDelay <= 0 {
		return time.Second
	}
	return c.RetryDelay
}

func backoff(delay time.Duration) time.Duration {
	if delay < maxRetryDelay {
		return delay * 2
	}
	return delay
}

// sleep waits for d and reports false if ctx ends first.
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (c *Consumer) handle(ctx context.Context, message kafka.Message) error {
	var event domain.OrderEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}
	return c.ProcessEvent(ctx, event)
}

func (c *Consumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	switch event.Type {
	case domain.TypeOrderCreated, domain.TypeOrderPaid:
	case domain.TypeOrderStatusChanged:
		c.Logger.WithFields(logrus.Fields{"orderId": event.OrderID, "status": event.Status}).Debug("status change ignored")
		return nil
	default:
		return fmt.Errorf("%w: unknown type %q", domain.ErrMalformedEvent, event.Type)
	}

	applied, err := c.Store.RecordEvent(ctx, event)
	if err != nil {
		return fmt.Errorf("record %s for order %d: %w", event.Type, event.OrderID, err)
	}
	if !applied {
		c.Logger.WithField("eventId", event.ID).Info("duplicate event skipped")
		return nil
	}

	// Redis counters are a read cache; the dashboard falls back to the database.
	if err := c.Store.UpdateCounters(ctx, event); err != nil {
		config.LogError(c.Logger, consumerModule, "ProcessEvent", "update counters", event.OrderID, err)
	}

	c.Logger.WithFields(logrus.Fields{
		"type":       event.Type,
		"orderId":    event.OrderID,
		"locationId": event.LocationID,
	}).Info("order event aggregated")
	return nil
}

var _ ConsumerInterface = (*Consumer)(nil)
