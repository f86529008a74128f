package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"tpv-system/config"
	"tpv-system/pos-svc/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	orderModule = "order_service"

	defaultPublishTimeout = 2 * time.Second
)

var staffRoles = []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee}

type OrderService struct {
	store             Store
	events            EventPublisher
	cache             MenuCache
	qrEncoder         QRGenerator
	logger            *logrus.Logger
	defaultLocationID int
	publishTimeout    time.Duration
}

type OrderServiceOption func(*OrderService)

func WithEvents(p EventPublisher) OrderServiceOption {
	return func(s *OrderService) { s.events = p }
}

func WithMenuCache(c MenuCache) OrderServiceOption {
	return func(s *OrderService) { s.cache = c }
}

func WithQRGenerator(g QRGenerator) OrderServiceOption {
	return func(s *OrderService) { s.qrEncoder = g }
}

func WithLogger(l *logrus.Logger) OrderServiceOption {
	return func(s *OrderService) { s.logger = l }
}

// WithPublishTimeout bounds how long a request waits on the event broker.
func WithPublishTimeout(d time.Duration) OrderServiceOption {
	return func(s *OrderService) { s.publishTimeout = d }
}

func NewOrderService(store Store, defaultLocationID int, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		store:             store,
		logger:            config.GetLogger(),
		defaultLocationID: defaultLocationID,
		publishTimeout:    defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates a cart, then inside one transaction locks the table and
// the stock rows, writes the order with its lines and decrements inventory.
func (s *OrderService) Create(ctx context.Context, p domain.Principal, in domain.CreateOrderInput) (*domain.CreateOrderResult, error) {
	in = in.Normalize()
	if err := s.validateCreate(p, in); err != nil {
		return nil, err
	}

	var order *domain.Order
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		placed, err := s.placeOrder(ctx, repos, p, in)
		if err != nil {
			return err
		}
		order = placed
		return nil
	})
	if err != nil {
		return nil, asTransactionFailure(err)
	}

	s.afterCreate(ctx, order)

	return &domain.CreateOrderResult{
		OrderID: order.ID,
		Total:   order.Total,
		QRCode:  s.QRLink(order.ID),
	}, nil
}

func (s *OrderService) validateCreate(p domain.Principal, in domain.CreateOrderInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if (in.TableID == nil) == (in.CustomerID == nil) {
		return domain.Invalid("tableId", "exactly one of tableId or customerId is required")
	}
	if p.Role == domain.RoleCustomer {
		if in.CustomerID == nil || *in.CustomerID != p.UserID {
			return fmt.Errorf("customers may only order for themselves: %w", domain.ErrForbidden)
		}
	}
	return nil
}

func (s *OrderService) placeOrder(ctx context.Context, repos Repositories, p domain.Principal, in domain.CreateOrderInput) (*domain.Order, error) {
	locationID := in.LocationID
	if in.TableID != nil {
		table, err := repos.Tables.GetTableForUpdate(ctx, *in.TableID)
		if err != nil {
			return nil, err
		}
		if table.State != domain.TableAvailable {
			return nil, domain.Conflictf("table %d is %s", table.Number, table.State)
		}
		locationID = table.LocationID
	}
	if locationID == 0 {
		locationID = s.defaultLocationID
	}

	requested := make(map[int]int)
	customizationSet := make(map[int]struct{})
	for _, line := range in.Items {
		requested[line.ProductID] += line.Quantity
		for _, id := range line.CustomizationIDs {
			customizationSet[id] = struct{}{}
		}
	}
	productIDs := sortedKeys(requested)

	products, err := repos.Catalog.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range productIDs {
		product, ok := products[id]
		if !ok {
			return nil, domain.NotFoundf("product %d", id)
		}
		if !product.Available {
			return nil, domain.Conflictf("product %q is not available", product.Name)
		}
	}

	customizations := map[int]domain.Customization{}
	if len(customizationSet) > 0 {
		customizations, err = repos.Catalog.CustomizationsByIDs(ctx, sortedKeys(customizationSet))
		if err != nil {
			return nil, err
		}
		for id := range customizationSet {
			if c, ok := customizations[id]; !ok || !c.Active {
				return nil, domain.NotFoundf("customization %d", id)
			}
		}
	}

	stock, err := repos.Inventory.LockStock(ctx, productIDs, locationID)
	if err != nil {
		return nil, err
	}
	for _, id := range productIDs {
		available, ok := stock[id]
		if !ok {
			return nil, domain.NotFoundf("inventory for product %d at location %d", id, locationID)
		}
		if requested[id] > available {
			return nil, &domain.StockError{
				ProductID:   id,
				ProductName: products[id].Name,
				Requested:   requested[id],
				Available:   available,
			}
		}
	}

	order := &domain.Order{
		TableID:    in.TableID,
		CustomerID: in.CustomerID,
		LocationID: locationID,
		Status:     domain.StatusPending,
		Total:      decimal.Zero,
		Notes:      in.Notes,
		CreatedBy:  p.UserID,
	}
	for _, line := range in.Items {
		product := products[line.ProductID]
		extras := make([]decimal.Decimal, 0, len(line.CustomizationIDs))
		for _, id := range line.CustomizationIDs {
			extras = append(extras, customizations[id].ExtraPrice)
		}
		extra, subtotal := domain.LineSubtotal(product.Price, extras, line.Quantity)
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:          product.ID,
			ProductName:        product.Name,
			Quantity:           line.Quantity,
			UnitPrice:          product.Price,
			CustomizationPrice: extra,
			Subtotal:           subtotal,
			Customizations:     line.CustomizationIDs,
		})
		order.Total = order.Total.Add(subtotal)
	}

	if err := repos.Orders.InsertOrder(ctx, order); err != nil {
		return nil, err
	}
	for _, item := range order.Items {
		if err := repos.Orders.InsertItem(ctx, order.ID, item); err != nil {
			return nil, err
		}
	}

	for _, id := range productIDs {
		if err := repos.Inventory.Decrement(ctx, id, locationID, requested[id]); err != nil {
			var stockErr *domain.StockError
			if errors.As(err, &stockErr) {
				stockErr.ProductName = products[id].Name
			}
			return nil, err
		}
	}
	orderID := order.ID
	for _, item := range order.Items {
		if err := repos.Inventory.RecordMovement(ctx, &domain.Movement{
			ProductID:  item.ProductID,
			LocationID: locationID,
			Quantity:   item.Quantity,
			Direction:  domain.DirectionOut,
			Reason:     domain.ReasonSale,
			Note:       fmt.Sprintf("order #%d", order.ID),
			OrderID:    &orderID,
			CreatedBy:  p.UserID,
		}); err != nil {
			return nil, err
		}
	}

	if in.TableID != nil {
		if err := repos.Tables.SetTableState(ctx, *in.TableID, domain.TableOccupied); err != nil {
			return nil, err
		}
	}

	return order, nil
}

func (s *OrderService) afterCreate(ctx context.Context, order *domain.Order) {
	s.logger.WithFields(logrus.Fields{
		"orderId":    order.ID,
		"locationId": order.LocationID,
		"total":      order.Total.StringFixed(2),
	}).Info("order created")

	event := newEvent(domain.EventOrderCreated, order)
	for _, item := range order.Items {
		event.Items = append(event.Items, domain.EventItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
	}
	s.publish(ctx, event)

	if s.cache != nil {
		if err := s.cache.InvalidateMenu(ctx); err != nil {
			config.LogError(s.logger, orderModule, "Create", "invalidate menu cache", nil, err)
		}
	}

	if s.qrEncoder != nil {
		if qr, err := s.qrEncoder.Generate(order.ID); err == nil {
			if err := s.store.Repos().Orders.SaveQRCode(ctx, order.ID, qr); err != nil {
				config.LogError(s.logger, orderModule, "Create", "save qr code", order.ID, err)
			}
		}
	}
}

// AdvanceStatus moves an order to the single status after its current one.
// Paid is reached only through Pay.
func (s *OrderService) AdvanceStatus(ctx context.Context, p domain.Principal, orderID int, target string) (domain.OrderStatus, error) {
	if !p.HasRole(staffRoles...) {
		return "", fmt.Errorf("only staff may change order status: %w", domain.ErrForbidden)
	}
	to, ok := domain.ParseStatus(target)
	if !ok {
		return "", domain.Invalid("newStatus", fmt.Sprintf("unknown status %q", target))
	}

	var order *domain.Order
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		current, err := repos.Orders.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		next, ok := current.Status.Next()
		if !ok || next != to || to == domain.StatusPaid {
			return fmt.Errorf("%s -> %s: %w", current.Status, to, domain.ErrInvalidTransition)
		}
		if err := repos.Orders.UpdateStatus(ctx, orderID, current.Status, to); err != nil {
			return err
		}
		current.Status = to
		order = current
		return nil
	})
	if err != nil {
		return "", asTransactionFailure(err)
	}

	s.publish(ctx, newEvent(domain.EventOrderStatusChanged, order))
	return to, nil
}

// Pay records a payment for a delivered order and closes it.
func (s *OrderService) Pay(ctx context.Context, p domain.Principal, orderID int, amount decimal.Decimal, method string) (*domain.Payment, error) {
	if !p.HasRole(staffRoles...) {
		return nil, fmt.Errorf("only staff may take payments: %w", domain.ErrForbidden)
	}
	if !amount.IsPositive() {
		return nil, domain.Invalid("amountTotal", "must be greater than 0")
	}
	pm := domain.PaymentMethod(method)
	if method == "" {
		pm = domain.PaymentCash
	}
	if !pm.Valid() {
		return nil, domain.Invalid("method", "must be one of: cash card transfer")
	}

	var (
		order   *domain.Order
		payment *domain.Payment
	)
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		current, err := repos.Orders.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if current.Status != domain.StatusDelivered {
			return fmt.Errorf("order %d is %s, must be delivered: %w", orderID, current.Status, domain.ErrInvalidState)
		}
		if current.Total.Sub(amount).Abs().GreaterThan(domain.PaymentTolerance) {
			return fmt.Errorf("expected %s, received %s: %w",
				current.Total.StringFixed(2), amount.StringFixed(2), domain.ErrAmountMismatch)
		}
		pay := &domain.Payment{
			OrderID:   orderID,
			Method:    pm,
			Amount:    amount,
			CreatedBy: p.UserID,
		}
		if err := repos.Orders.InsertPayment(ctx, pay); err != nil {
			return err
		}
		if err := repos.Orders.UpdateStatus(ctx, orderID, domain.StatusDelivered, domain.StatusPaid); err != nil {
			return err
		}
		current.Status = domain.StatusPaid
		order, payment = current, pay
		return nil
	})
	if err != nil {
		return nil, asTransactionFailure(err)
	}

	s.logger.WithFields(logrus.Fields{
		"orderId": orderID,
		"amount":  amount.StringFixed(2),
		"method":  pm,
	}).Info("payment processed")
	s.publish(ctx, newEvent(domain.EventOrderPaid, order))
	return payment, nil
}

func (s *OrderService) Get(ctx context.Context, orderID int) (*domain.Order, error) {
	return s.store.Repos().Orders.GetOrder(ctx, orderID)
}

func (s *OrderService) StatusBoard(ctx context.Context) (domain.StatusBoard, error) {
	orders, err := s.store.Repos().Orders.ListByStatus(ctx, domain.BoardStatuses)
	if err != nil {
		return nil, err
	}
	board := domain.StatusBoard{}
	for _, st := range domain.BoardStatuses {
		board[st] = []domain.Order{}
	}
	for _, o := range orders {
		board[o.Status] = append(board[o.Status], o)
	}
	return board, nil
}

func (s *OrderService) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	orders := s.store.Repos().Orders
	qr, err := orders.GetQRCode(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		if regenerated, err := s.qrEncoder.Generate(orderID); err == nil {
			if err := orders.SaveQRCode(ctx, orderID, regenerated); err != nil {
				config.LogError(s.logger, orderModule, "GetQRCode", "save regenerated qr code", orderID, err)
			}
			return regenerated, nil
		}
	}
	return qr, nil
}

// Customers lists registered customers so staff can open an order on
// their behalf.
func (s *OrderService) Customers(ctx context.Context, p domain.Principal) ([]domain.Customer, error) {
	if !p.HasRole(staffRoles...) {
		return nil, fmt.Errorf("only staff may list customers: %w", domain.ErrForbidden)
	}
	customers, err := s.store.Repos().Orders.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	return customers, nil
}

func (s *OrderService) QRLink(orderID int) string {
	return fmt.Sprintf("/api/orders/%d/qrcode", orderID)
}

func (s *OrderService) publish(ctx context.Context, event domain.OrderEvent) {
	if s.events == nil {
		return
	}
	// The order is already committed; a client disconnect must not drop the event.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.events.PublishOrderEvent(ctx, event); err != nil {
		config.LogError(s.logger, orderModule, "publish", string(event.Type), event.OrderID, err)
	}
}

func newEvent(t domain.EventType, order *domain.Order) domain.OrderEvent {
	return domain.OrderEvent{
		ID:         uuid.NewString(),
		Type:       t,
		OrderID:    order.ID,
		LocationID: order.LocationID,
		Status:     order.Status,
		Total:      order.Total,
		OccurredAt: time.Now().UTC(),
	}
}

var domainErrors = []error{
	domain.ErrValidation,
	domain.ErrNotFound,
	domain.ErrConflict,
	domain.ErrInsufficientStock,
	domain.ErrInvalidTransition,
	domain.ErrInvalidState,
	domain.ErrAmountMismatch,
	domain.ErrForbidden,
	domain.ErrTransaction,
}

// asTransactionFailure tags storage errors that carry no domain meaning.
func asTransactionFailure(err error) error {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrTransaction, err)
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

var _ OrderServiceInterface = (*OrderService)(nil)
