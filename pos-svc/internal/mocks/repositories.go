package mocks

import (
	"context"

	"tpv-system/pos-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type TableRepository struct {
	mock.Mock
}

func (_m *TableRepository) ListTables(ctx context.Context, locationID int, onlyAvailable bool) ([]domain.Table, error) {
	ret := _m.Called(ctx, locationID, onlyAvailable)
	var r0 []domain.Table
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Table)
	}
	return r0, ret.Error(1)
}

func (_m *TableRepository) GetTableForUpdate(ctx context.Context, tableID int) (*domain.Table, error) {
	ret := _m.Called(ctx, tableID)
	var r0 *domain.Table
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Table)
	}
	return r0, ret.Error(1)
}

func (_m *TableRepository) SetTableState(ctx context.Context, tableID int, state domain.TableState) error {
	ret := _m.Called(ctx, tableID, state)
	return ret.Error(0)
}

func NewTableRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *TableRepository {
	m := &TableRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type CatalogRepository struct {
	mock.Mock
}

func (_m *CatalogRepository) ListMenu(ctx context.Context, locationID int) ([]domain.Product, error) {
	ret := _m.Called(ctx, locationID)
	var r0 []domain.Product
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Product)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) ListDailySpecials(ctx context.Context, locationID int) ([]domain.Product, error) {
	ret := _m.Called(ctx, locationID)
	var r0 []domain.Product
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Product)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) ListCustomizations(ctx context.Context) ([]domain.Customization, error) {
	ret := _m.Called(ctx)
	var r0 []domain.Customization
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Customization)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ret := _m.Called(ctx)
	var r0 []domain.Category
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Category)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) ProductsByIDs(ctx context.Context, ids []int) (map[int]domain.Product, error) {
	ret := _m.Called(ctx, ids)
	var r0 map[int]domain.Product
	if v := ret.Get(0); v != nil {
		r0 = v.(map[int]domain.Product)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) CustomizationsByIDs(ctx context.Context, ids []int) (map[int]domain.Customization, error) {
	ret := _m.Called(ctx, ids)
	var r0 map[int]domain.Customization
	if v := ret.Get(0); v != nil {
		r0 = v.(map[int]domain.Customization)
	}
	return r0, ret.Error(1)
}

func NewCatalogRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogRepository {
	m := &CatalogRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type InventoryRepository struct {
	mock.Mock
}

func (_m *InventoryRepository) LockStock(ctx context.Context, productIDs []int, locationID int) (map[int]int, error) {
	ret := _m.Called(ctx, productIDs, locationID)
	var r0 map[int]int
	if v := ret.Get(0); v != nil {
		r0 = v.(map[int]int)
	}
	return r0, ret.Error(1)
}

func (_m *InventoryRepository) Decrement(ctx context.Context, productID int, locationID int, qty int) error {
	ret := _m.Called(ctx, productID, locationID, qty)
	return ret.Error(0)
}

func (_m *InventoryRepository) Increment(ctx context.Context, productID int, locationID int, qty int) error {
	ret := _m.Called(ctx, productID, locationID, qty)
	return ret.Error(0)
}

func (_m *InventoryRepository) Provision(ctx context.Context, rec domain.InventoryRecord) error {
	ret := _m.Called(ctx, rec)
	return ret.Error(0)
}

func (_m *InventoryRepository) RecordMovement(ctx context.Context, m *domain.Movement) error {
	ret := _m.Called(ctx, m)
	return ret.Error(0)
}

func (_m *InventoryRepository) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error) {
	ret := _m.Called(ctx, filter)
	var r0 []domain.Movement
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Movement)
	}
	return r0, ret.Error(1)
}

func (_m *InventoryRepository) ListStock(ctx context.Context, locationID int) ([]domain.InventoryRecord, error) {
	ret := _m.Called(ctx, locationID)
	var r0 []domain.InventoryRecord
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.InventoryRecord)
	}
	return r0, ret.Error(1)
}

func NewInventoryRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *InventoryRepository {
	m := &InventoryRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type OrderRepository struct {
	mock.Mock
}

func (_m *OrderRepository) InsertOrder(ctx context.Context, order *domain.Order) error {
	ret := _m.Called(ctx, order)
	return ret.Error(0)
}

func (_m *OrderRepository) InsertItem(ctx context.Context, orderID int, item domain.OrderItem) error {
	ret := _m.Called(ctx, orderID, item)
	return ret.Error(0)
}

func (_m *OrderRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	ret := _m.Called(ctx, orderID)
	var r0 *domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) GetOrderForUpdate(ctx context.Context, orderID int) (*domain.Order, error) {
	ret := _m.Called(ctx, orderID)
	var r0 *domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) UpdateStatus(ctx context.Context, orderID int, from domain.OrderStatus, to domain.OrderStatus) error {
	ret := _m.Called(ctx, orderID, from, to)
	return ret.Error(0)
}

func (_m *OrderRepository) InsertPayment(ctx context.Context, payment *domain.Payment) error {
	ret := _m.Called(ctx, payment)
	return ret.Error(0)
}

func (_m *OrderRepository) ListByStatus(ctx context.Context, statuses []domain.OrderStatus) ([]domain.Order, error) {
	ret := _m.Called(ctx, statuses)
	var r0 []domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) CountUnpaidForTable(ctx context.Context, tableID int) (int, error) {
	ret := _m.Called(ctx, tableID)
	var r0 int
	if v := ret.Get(0); v != nil {
		r0 = v.(int)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	ret := _m.Called(ctx, orderID, qr)
	return ret.Error(0)
}

func (_m *OrderRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	ret := _m.Called(ctx, orderID)
	var r0 []byte
	if v := ret.Get(0); v != nil {
		r0 = v.([]byte)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	ret := _m.Called(ctx)
	var r0 []domain.Customer
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Customer)
	}
	return r0, ret.Error(1)
}

func NewOrderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
