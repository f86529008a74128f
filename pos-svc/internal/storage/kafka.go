package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"tpv-system/pos-svc/internal/domain"
	"tpv-system/pos-svc/internal/service"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

// PublishOrderEvent keys messages by order id so one order's events stay in
// a single partition.
func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.OrderID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	})
}

var _ service.EventPublisher = (*KafkaPublisher)(nil)
