package service

import (
	"context"

	"tpv-system/dashboard-svc/internal/domain"
)

type DashboardInterface interface {
	Today(ctx context.Context, locationID int) (domain.TodayStats, error)
	TopProducts(ctx context.Context, period string, locationID, limit int) (domain.TopProducts, error)
	InventorySummary(ctx context.Context, locationID int) (domain.InventorySummary, error)
	Metrics(ctx context.Context, filter domain.Filter) (domain.Metrics, error)
	Sales(ctx context.Context, filter domain.Filter) ([]domain.SalesPoint, error)
}

var _ DashboardInterface = (*DashboardService)(nil)
