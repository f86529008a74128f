package mocks

import (
	"context"

	"tpv-system/dashboard-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type DashboardInterface struct {
	mock.Mock
}

func (_m *DashboardInterface) Today(ctx context.Context, locationID int) (domain.TodayStats, error) {
	ret := _m.Called(ctx, locationID)
	return ret.Get(0).(domain.TodayStats), ret.Error(1)
}

func (_m *DashboardInterface) TopProducts(ctx context.Context, period string, locationID, limit int) (domain.TopProducts, error) {
	ret := _m.Called(ctx, period, locationID, limit)
	return ret.Get(0).(domain.TopProducts), ret.Error(1)
}

func (_m *DashboardInterface) InventorySummary(ctx context.Context, locationID int) (domain.InventorySummary, error) {
	ret := _m.Called(ctx, locationID)
	return ret.Get(0).(domain.InventorySummary), ret.Error(1)
}

func (_m *DashboardInterface) Metrics(ctx context.Context, filter domain.Filter) (domain.Metrics, error) {
	ret := _m.Called(ctx, filter)
	return ret.Get(0).(domain.Metrics), ret.Error(1)
}

func (_m *DashboardInterface) Sales(ctx context.Context, filter domain.Filter) ([]domain.SalesPoint, error) {
	ret := _m.Called(ctx, filter)
	var r0 []domain.SalesPoint
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.SalesPoint)
	}
	return r0, ret.Error(1)
}

func NewDashboardInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *DashboardInterface {
	m := &DashboardInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
