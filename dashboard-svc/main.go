package main

import (
	"tpv-system/config"
	httpapi "tpv-system/dashboard-svc/internal/api/http"
	"tpv-system/dashboard-svc/internal/service"
)

func main() {
	cfg := config.MustLoad()

	db := config.MustInitPostgres(cfg)
	defer db.Close()

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	dashboard := service.NewDashboardService(db, rdb, cfg.DefaultLocationID)
	handler := httpapi.NewHandler(dashboard, cfg)

	httpapi.StartServer(cfg.HTTPAddr, httpapi.NewRouter(handler))
}
