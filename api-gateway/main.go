package main

import (
	"net/http"
	"time"

	"tpv-system/api-gateway/internal/gateway"
	"tpv-system/config"

	"github.com/rs/cors"
)

func main() {
	cfg := config.MustLoad()
	logger := config.GetLogger()

	gw := gateway.NewGateway(gateway.ConfigFrom(cfg), &http.Client{Timeout: 30 * time.Second})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           c.Handler(gw.SetupRoutes()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Infof("API Gateway starting on %s (pos=%s dashboard=%s)", cfg.HTTPAddr, cfg.POSSvcURL, cfg.DashboardSvcURL)
	logger.Fatal(srv.ListenAndServe())
}
