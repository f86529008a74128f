package tests

import (
	"context"
	"sort"
	"sync"
	"time"

	"tpv-system/pos-svc/internal/domain"
	"tpv-system/pos-svc/internal/service"

	"github.com/shopspring/decimal"
)

type stockKey struct{ product, location int }

type memState struct {
	tables         map[int]domain.Table
	products       map[int]domain.Product
	customizations map[int]domain.Customization
	stock          map[stockKey]domain.InventoryRecord
	movements      []domain.Movement
	orders         map[int]domain.Order
	payments       map[int]domain.Payment
	qr             map[int][]byte
	qrSaveErr      error
	customers      []domain.Customer
	nextOrder      int
	nextMovement   int
	nextPayment    int
}

func newMemState() *memState {
	return &memState{
		tables:         map[int]domain.Table{},
		products:       map[int]domain.Product{},
		customizations: map[int]domain.Customization{},
		stock:          map[stockKey]domain.InventoryRecord{},
		orders:         map[int]domain.Order{},
		payments:       map[int]domain.Payment{},
		qr:             map[int][]byte{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.tables {
		c.tables[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.customizations {
		c.customizations[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	c.movements = append([]domain.Movement(nil), s.movements...)
	for k, v := range s.orders {
		v.Items = append([]domain.OrderItem(nil), v.Items...)
		c.orders[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.qr {
		c.qr[k] = v
	}
	c.qrSaveErr = s.qrSaveErr
	c.customers = s.customers
	c.nextOrder, c.nextMovement, c.nextPayment = s.nextOrder, s.nextMovement, s.nextPayment
	return c
}

// memStore serializes transactions the way row locks would for a single hot
// product, and discards the working copy on rollback.
type memStore struct {
	mu        sync.Mutex
	state     *memState
	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{state: newMemState()}
}

func repositoriesFor(st *memState) service.Repositories {
	r := &memRepos{st: st}
	return service.Repositories{Tables: r, Catalog: r, Inventory: r, Orders: r}
}

func (m *memStore) Repos() service.Repositories {
	return repositoriesFor(m.state)
}

func (m *memStore) WithinTx(ctx context.Context, fn func(service.Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.state.clone()
	if err := fn(repositoriesFor(work)); err != nil {
		m.rollbacks++
		return err
	}
	m.state = work
	m.commits++
	return nil
}

func (m *memStore) seedTable(t domain.Table) { m.state.tables[t.ID] = t }

func (m *memStore) seedProduct(p domain.Product, location, qty int) {
	m.state.products[p.ID] = p
	if qty >= 0 {
		m.state.stock[stockKey{p.ID, location}] = domain.InventoryRecord{
			ProductID: p.ID, ProductName: p.Name, LocationID: location, Available: qty, Min: 2, Max: 50,
		}
	}
}

func (m *memStore) seedCustomization(c domain.Customization) { m.state.customizations[c.ID] = c }

func (m *memStore) stockOf(product, location int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.stock[stockKey{product, location}].Available
}

func (m *memStore) tableState(id int) domain.TableState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.tables[id].State
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.orders)
}

type memRepos struct {
	st *memState
}

func (r *memRepos) ListTables(ctx context.Context, locationID int, onlyAvailable bool) ([]domain.Table, error) {
	out := []domain.Table{}
	for _, t := range r.st.tables {
		if locationID > 0 && t.LocationID != locationID {
			continue
		}
		if onlyAvailable && t.State != domain.TableAvailable {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *memRepos) GetTableForUpdate(ctx context.Context, tableID int) (*domain.Table, error) {
	t, ok := r.st.tables[tableID]
	if !ok {
		return nil, domain.NotFoundf("table %d", tableID)
	}
	return &t, nil
}

func (r *memRepos) SetTableState(ctx context.Context, tableID int, state domain.TableState) error {
	t, ok := r.st.tables[tableID]
	if !ok {
		return domain.NotFoundf("table %d", tableID)
	}
	t.State = state
	r.st.tables[tableID] = t
	return nil
}

func (r *memRepos) ListMenu(ctx context.Context, locationID int) ([]domain.Product, error) {
	out := []domain.Product{}
	for _, p := range r.st.products {
		if !p.Available {
			continue
		}
		p.Stock = r.st.stock[stockKey{p.ID, locationID}].Available
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memRepos) ListDailySpecials(ctx context.Context, locationID int) ([]domain.Product, error) {
	menu, _ := r.ListMenu(ctx, locationID)
	out := []domain.Product{}
	for _, p := range menu {
		if p.IsDailySpecial {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memRepos) ListCustomizations(ctx context.Context) ([]domain.Customization, error) {
	out := []domain.Customization{}
	for _, c := range r.st.customizations {
		if c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepos) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return []domain.Category{}, nil
}

func (r *memRepos) ProductsByIDs(ctx context.Context, ids []int) (map[int]domain.Product, error) {
	out := map[int]domain.Product{}
	for _, id := range ids {
		if p, ok := r.st.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *memRepos) CustomizationsByIDs(ctx context.Context, ids []int) (map[int]domain.Customization, error) {
	out := map[int]domain.Customization{}
	for _, id := range ids {
		if c, ok := r.st.customizations[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (r *memRepos) LockStock(ctx context.Context, productIDs []int, locationID int) (map[int]int, error) {
	out := map[int]int{}
	for _, id := range productIDs {
		if rec, ok := r.st.stock[stockKey{id, locationID}]; ok {
			out[id] = rec.Available
		}
	}
	return out, nil
}

func (r *memRepos) Decrement(ctx context.Context, productID, locationID, qty int) error {
	key := stockKey{productID, locationID}
	rec, ok := r.st.stock[key]
	if !ok {
		return domain.NotFoundf("inventory for product %d", productID)
	}
	if rec.Available < qty {
		return &domain.StockError{ProductID: productID, Requested: qty, Available: rec.Available}
	}
	rec.Available -= qty
	r.st.stock[key] = rec
	return nil
}

func (r *memRepos) Increment(ctx context.Context, productID, locationID, qty int) error {
	key := stockKey{productID, locationID}
	rec, ok := r.st.stock[key]
	if !ok {
		return domain.NotFoundf("inventory for product %d", productID)
	}
	rec.Available += qty
	r.st.stock[key] = rec
	return nil
}

func (r *memRepos) Provision(ctx context.Context, rec domain.InventoryRecord) error {
	key := stockKey{rec.ProductID, rec.LocationID}
	if _, ok := r.st.stock[key]; ok {
		return domain.Conflictf("already stocked")
	}
	r.st.stock[key] = rec
	return nil
}

func (r *memRepos) RecordMovement(ctx context.Context, m *domain.Movement) error {
	r.st.nextMovement++
	m.ID = r.st.nextMovement
	m.CreatedAt = time.Now()
	r.st.movements = append(r.st.movements, *m)
	return nil
}

func (r *memRepos) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error) {
	out := []domain.Movement{}
	for i := len(r.st.movements) - 1; i >= 0; i-- {
		m := r.st.movements[i]
		if filter.Direction != "" && m.Direction != filter.Direction {
			continue
		}
		if filter.ProductID > 0 && m.ProductID != filter.ProductID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *memRepos) ListStock(ctx context.Context, locationID int) ([]domain.InventoryRecord, error) {
	out := []domain.InventoryRecord{}
	for _, rec := range r.st.stock {
		if locationID == 0 || rec.LocationID == locationID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *memRepos) InsertOrder(ctx context.Context, order *domain.Order) error {
	r.st.nextOrder++
	order.ID = r.st.nextOrder
	order.CreatedAt = time.Now().Add(time.Duration(order.ID) * time.Millisecond)
	stored := *order
	stored.Items = nil
	r.st.orders[order.ID] = stored
	return nil
}

func (r *memRepos) InsertItem(ctx context.Context, orderID int, item domain.OrderItem) error {
	o := r.st.orders[orderID]
	o.Items = append(o.Items, item)
	r.st.orders[orderID] = o
	return nil
}

func (r *memRepos) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	o, ok := r.st.orders[orderID]
	if !ok {
		return nil, domain.NotFoundf("order %d", orderID)
	}
	o.Items = append([]domain.OrderItem{}, o.Items...)
	return &o, nil
}

func (r *memRepos) GetOrderForUpdate(ctx context.Context, orderID int) (*domain.Order, error) {
	return r.GetOrder(ctx, orderID)
}

func (r *memRepos) UpdateStatus(ctx context.Context, orderID int, from, to domain.OrderStatus) error {
	o, ok := r.st.orders[orderID]
	if !ok || o.Status != from {
		return domain.ErrInvalidTransition
	}
	o.Status = to
	r.st.orders[orderID] = o
	return nil
}

func (r *memRepos) InsertPayment(ctx context.Context, payment *domain.Payment) error {
	if _, ok := r.st.payments[payment.OrderID]; ok {
		return domain.Conflictf("already paid")
	}
	r.st.nextPayment++
	payment.ID = r.st.nextPayment
	payment.CreatedAt = time.Now()
	r.st.payments[payment.OrderID] = *payment
	return nil
}

func (r *memRepos) ListByStatus(ctx context.Context, statuses []domain.OrderStatus) ([]domain.Order, error) {
	rank := map[domain.OrderStatus]int{}
	for i, s := range statuses {
		rank[s] = i + 1
	}
	out := []domain.Order{}
	for _, o := range r.st.orders {
		if rank[o.Status] > 0 {
			o.Items = append([]domain.OrderItem{}, o.Items...)
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if rank[out[i].Status] != rank[out[j].Status] {
			return rank[out[i].Status] < rank[out[j].Status]
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memRepos) CountUnpaidForTable(ctx context.Context, tableID int) (int, error) {
	n := 0
	for _, o := range r.st.orders {
		if o.TableID != nil && *o.TableID == tableID && o.Status != domain.StatusPaid {
			n++
		}
	}
	return n, nil
}

func (r *memRepos) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	if r.st.qrSaveErr != nil {
		return r.st.qrSaveErr
	}
	r.st.qr[orderID] = qr
	return nil
}

func (r *memRepos) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	if _, ok := r.st.orders[orderID]; !ok {
		return nil, domain.NotFoundf("order %d", orderID)
	}
	return r.st.qr[orderID], nil
}

func (r *memRepos) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	out := append([]domain.Customer(nil), r.st.customers...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intp(n int) *int {
	return &n
}

var _ service.Store = (*memStore)(nil)
