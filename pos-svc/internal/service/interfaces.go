package service

import (
	"context"

	"tpv-system/pos-svc/internal/domain"

	"github.com/shopspring/decimal"
)

type TableRepository interface {
	ListTables(ctx context.Context, locationID int, onlyAvailable bool) ([]domain.Table, error)
	GetTableForUpdate(ctx context.Context, tableID int) (*domain.Table, error)
	SetTableState(ctx context.Context, tableID int, state domain.TableState) error
}

type CatalogRepository interface {
	ListMenu(ctx context.Context, locationID int) ([]domain.Product, error)
	ListDailySpecials(ctx context.Context, locationID int) ([]domain.Product, error)
	ListCustomizations(ctx context.Context) ([]domain.Customization, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ProductsByIDs(ctx context.Context, ids []int) (map[int]domain.Product, error)
	CustomizationsByIDs(ctx context.Context, ids []int) (map[int]domain.Customization, error)
}

type InventoryRepository interface {
	LockStock(ctx context.Context, productIDs []int, locationID int) (map[int]int, error)
	Decrement(ctx context.Context, productID, locationID, qty int) error
	Increment(ctx context.Context, productID, locationID, qty int) error
	Provision(ctx context.Context, rec domain.InventoryRecord) error
	RecordMovement(ctx context.Context, m *domain.Movement) error
	ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error)
	ListStock(ctx context.Context, locationID int) ([]domain.InventoryRecord, error)
}

type OrderRepository interface {
	InsertOrder(ctx context.Context, order *domain.Order) error
	InsertItem(ctx context.Context, orderID int, item domain.OrderItem) error
	GetOrder(ctx context.Context, orderID int) (*domain.Order, error)
	GetOrderForUpdate(ctx context.Context, orderID int) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int, from, to domain.OrderStatus) error
	InsertPayment(ctx context.Context, payment *domain.Payment) error
	ListByStatus(ctx context.Context, statuses []domain.OrderStatus) ([]domain.Order, error)
	CountUnpaidForTable(ctx context.Context, tableID int) (int, error)
	SaveQRCode(ctx context.Context, orderID int, qr []byte) error
	GetQRCode(ctx context.Context, orderID int) ([]byte, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

// Repositories is one consistent view of storage. Inside WithinTx every
// repository shares the same transaction.
type Repositories struct {
	Tables    TableRepository
	Catalog   CatalogRepository
	Inventory InventoryRepository
	Orders    OrderRepository
}

type Store interface {
	Repos() Repositories
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(Repositories) error) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type MenuCache interface {
	GetMenu(ctx context.Context, locationID int) ([]domain.Product, bool, error)
	SetMenu(ctx context.Context, locationID int, products []domain.Product) error
	InvalidateMenu(ctx context.Context) error
}

type TableServiceInterface interface {
	List(ctx context.Context, locationID int) ([]domain.Table, error)
	ListAvailable(ctx context.Context, locationID int) ([]domain.Table, error)
	Release(ctx context.Context, p domain.Principal, tableID int) (*domain.Table, error)
}

type MenuServiceInterface interface {
	Products(ctx context.Context, locationID int) ([]domain.Product, error)
	Customizations(ctx context.Context) (*domain.CustomizationMenu, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	DailySpecials(ctx context.Context, locationID int) ([]domain.Product, error)
}

type InventoryServiceInterface interface {
	Stock(ctx context.Context, locationID int) ([]domain.InventoryRecord, error)
	Provision(ctx context.Context, p domain.Principal, in ProvisionInput) (*domain.InventoryRecord, error)
	RecordMovement(ctx context.Context, p domain.Principal, in MovementInput) (*domain.Movement, error)
	Movements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error)
}

type OrderServiceInterface interface {
	Create(ctx context.Context, p domain.Principal, in domain.CreateOrderInput) (*domain.CreateOrderResult, error)
	AdvanceStatus(ctx context.Context, p domain.Principal, orderID int, target string) (domain.OrderStatus, error)
	Pay(ctx context.Context, p domain.Principal, orderID int, amount decimal.Decimal, method string) (*domain.Payment, error)
	Get(ctx context.Context, orderID int) (*domain.Order, error)
	StatusBoard(ctx context.Context) (domain.StatusBoard, error)
	GetQRCode(ctx context.Context, orderID int) ([]byte, error)
	QRLink(orderID int) string
	Customers(ctx context.Context, p domain.Principal) ([]domain.Customer, error)
}
