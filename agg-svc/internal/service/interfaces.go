package service

import (
	"context"

	"tpv-system/agg-svc/internal/domain"
	"tpv-system/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	// RecordEvent applies the event to the durable aggregates once. It
	// reports false when the event id was already applied.
	RecordEvent(ctx context.Context, event domain.OrderEvent) (bool, error)
	UpdateCounters(ctx context.Context, event domain.OrderEvent) error
}

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessEvent(ctx context.Context, event domain.OrderEvent) error
}

var (
	_ StoreInterface = (*storage.Store)(nil)
	_ MessageReader  = (*kafka.Reader)(nil)
)
