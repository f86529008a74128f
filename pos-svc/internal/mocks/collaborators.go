package mocks

import (
	"context"

	"tpv-system/pos-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type EventPublisher struct {
	mock.Mock
}

func (_m *EventPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

func NewEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type MenuCache struct {
	mock.Mock
}

func (_m *MenuCache) GetMenu(ctx context.Context, locationID int) ([]domain.Product, bool, error) {
	ret := _m.Called(ctx, locationID)
	var r0 []domain.Product
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Product)
	}
	var r1 bool
	if v := ret.Get(1); v != nil {
		r1 = v.(bool)
	}
	return r0, r1, ret.Error(2)
}

func (_m *MenuCache) SetMenu(ctx context.Context, locationID int, products []domain.Product) error {
	ret := _m.Called(ctx, locationID, products)
	return ret.Error(0)
}

func (_m *MenuCache) InvalidateMenu(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func NewMenuCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *MenuCache {
	m := &MenuCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type QRGenerator struct {
	mock.Mock
}

func (_m *QRGenerator) Generate(orderID int) ([]byte, error) {
	ret := _m.Called(orderID)
	var r0 []byte
	if v := ret.Get(0); v != nil {
		r0 = v.([]byte)
	}
	return r0, ret.Error(1)
}

func NewQRGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
