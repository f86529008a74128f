package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tpv-system/agg-svc/internal/service"
	"tpv-system/agg-svc/internal/storage"
	"tpv-system/config"
)

func main() {
	cfg := config.MustLoad()
	logger := config.GetLogger()

	db := config.MustInitPostgres(cfg)
	defer db.Close()

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	store := storage.NewStore(db, rdb)
	schemaCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.EnsureSchema(schemaCtx); err != nil {
		logger.Fatalf("Failed to ensure schema: %v", err)
	}
	cancel()

	reader := config.NewKafkaReader(cfg, cfg.OrdersTopic, cfg.ConsumerGroup)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service.NewConsumer(reader, store).Start(ctx)
}
