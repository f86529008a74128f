package main

import (
	"context"
	"time"

	"tpv-system/config"
	httpapi "tpv-system/pos-svc/internal/api/http"
	"tpv-system/pos-svc/internal/service"
	"tpv-system/pos-svc/internal/storage"
)

func main() {
	cfg := config.MustLoad()
	logger := config.GetLogger()

	db := config.MustInitPostgres(cfg)
	defer db.Close()

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	writer := config.NewKafkaWriter(cfg, cfg.OrdersTopic)
	defer writer.Close()

	store := storage.NewPostgresStore(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatalf("Failed to ensure schema: %v", err)
	}
	cancel()

	cache := storage.NewRedisCache(rdb, cfg.MenuCacheTTL)
	orders := service.NewOrderService(store, cfg.DefaultLocationID,
		service.WithEvents(storage.NewKafkaPublisher(writer)),
		service.WithMenuCache(cache),
		service.WithQRGenerator(service.ReceiptQRGenerator{BaseURL: cfg.QRBaseURL}),
		service.WithLogger(logger),
	)

	handler := httpapi.NewHandler(
		service.NewTableService(store),
		service.NewMenuService(store, cache, cfg.DefaultLocationID),
		service.NewInventoryService(store, cache, cfg.DefaultLocationID),
		orders,
		cfg,
	)

	httpapi.StartServer(cfg.HTTPAddr, httpapi.NewRouter(handler))
}
