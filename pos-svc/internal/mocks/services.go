package mocks

import (
	"context"

	"tpv-system/pos-svc/internal/domain"
	"tpv-system/pos-svc/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type TableServiceInterface struct {
	mock.Mock
}

func (_m *TableServiceInterface) List(ctx context.Context, locationID int) ([]domain.Table, error) {
	ret := _m.Called(ctx, locationID)
	var r0 []domain.Table
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Table)
	}
	return r0, ret.Error(1)
}

func (_m *TableServiceInterface) ListAvailable(ctx context.Context, locationID int) ([]domain.Table, error) {
	ret := _m.Called(ctx, locationID)
	var r0 []domain.Table
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Table)
	}
	return r0, ret.Error(1)
}

func (_m *TableServiceInterface) Release(ctx context.Context, p domain.Principal, tableID int) (*domain.Table, error) {
	ret := _m.Called(ctx, p, tableID)
	var r0 *domain.Table
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Table)
	}
	return r0, ret.Error(1)
}

func NewTableServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *TableServiceInterface {
	m := &TableServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type MenuServiceInterface struct {
	mock.Mock
}

func (_m *MenuServiceInterface) Products(ctx context.Context, locationID int) ([]domain.Product, error) {
	ret := _m.Called(ctx, locationID)
	var r0 []domain.Product
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Product)
	}
	return r0, ret.Error(1)
}

func (_m *MenuServiceInterface) Customizations(ctx context.Context) (*domain.CustomizationMenu, error) {
	ret := _m.Called(ctx)
	var r0 *domain.CustomizationMenu
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.CustomizationMenu)
	}
	return r0, ret.Error(1)
}

func (_m *MenuServiceInterface) Categories(ctx context.Context) ([]domain.Category, error) {
	ret := _m.Called(ctx)
	var r0 []domain.Category
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Category)
	}
	return r0, ret.Error(1)
}

func (_m *MenuServiceInterface) DailySpecials(ctx context.Context, locationID int) ([]domain.Product, error) {
	ret := _m.Called(ctx, locationID)
	var r0 []domain.Product
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Product)
	}
	return r0, ret.Error(1)
}

func NewMenuServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *MenuServiceInterface {
	m := &MenuServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type InventoryServiceInterface struct {
	mock.Mock
}

func (_m *InventoryServiceInterface) Stock(ctx context.Context, locationID int) ([]domain.InventoryRecord, error) {
	ret := _m.Called(ctx, locationID)
	var r0 []domain.InventoryRecord
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.InventoryRecord)
	}
	return r0, ret.Error(1)
}

func (_m *InventoryServiceInterface) Provision(ctx context.Context, p domain.Principal, in service.ProvisionInput) (*domain.InventoryRecord, error) {
	ret := _m.Called(ctx, p, in)
	var r0 *domain.InventoryRecord
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.InventoryRecord)
	}
	return r0, ret.Error(1)
}

func (_m *InventoryServiceInterface) RecordMovement(ctx context.Context, p domain.Principal, in service.MovementInput) (*domain.Movement, error) {
	ret := _m.Called(ctx, p, in)
	var r0 *domain.Movement
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Movement)
	}
	return r0, ret.Error(1)
}

func (_m *InventoryServiceInterface) Movements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error) {
	ret := _m.Called(ctx, filter)
	var r0 []domain.Movement
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Movement)
	}
	return r0, ret.Error(1)
}

func NewInventoryServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *InventoryServiceInterface {
	m := &InventoryServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type OrderServiceInterface struct {
	mock.Mock
}

func (_m *OrderServiceInterface) Create(ctx context.Context, p domain.Principal, in domain.CreateOrderInput) (*domain.CreateOrderResult, error) {
	ret := _m.Called(ctx, p, in)
	var r0 *domain.CreateOrderResult
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.CreateOrderResult)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) AdvanceStatus(ctx context.Context, p domain.Principal, orderID int, target string) (domain.OrderStatus, error) {
	ret := _m.Called(ctx, p, orderID, target)
	var r0 domain.OrderStatus
	if v := ret.Get(0); v != nil {
		r0 = v.(domain.OrderStatus)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) Pay(ctx context.Context, p domain.Principal, orderID int, amount decimal.Decimal, method string) (*domain.Payment, error) {
	ret := _m.Called(ctx, p, orderID, amount, method)
	var r0 *domain.Payment
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Payment)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) Get(ctx context.Context, orderID int) (*domain.Order, error) {
	ret := _m.Called(ctx, orderID)
	var r0 *domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) StatusBoard(ctx context.Context) (domain.StatusBoard, error) {
	ret := _m.Called(ctx)
	var r0 domain.StatusBoard
	if v := ret.Get(0); v != nil {
		r0 = v.(domain.StatusBoard)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	ret := _m.Called(ctx, orderID)
	var r0 []byte
	if v := ret.Get(0); v != nil {
		r0 = v.([]byte)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) QRLink(orderID int) string {
	ret := _m.Called(orderID)
	var r0 string
	if v := ret.Get(0); v != nil {
		r0 = v.(string)
	}
	return r0
}

func (_m *OrderServiceInterface) Customers(ctx context.Context, p domain.Principal) ([]domain.Customer, error) {
	ret := _m.Called(ctx, p)
	var r0 []domain.Customer
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Customer)
	}
	return r0, ret.Error(1)
}

func NewOrderServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
