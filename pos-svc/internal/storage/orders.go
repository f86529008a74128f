package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tpv-system/pos-svc/internal/domain"

	"github.com/lib/pq"
)

type OrderRepository struct {
	q querier
}

func (r *OrderRepository) InsertOrder(ctx context.Context, order *domain.Order) error {
	return r.q.QueryRowContext(ctx, `
		INSERT INTO orders (table_id, customer_id, location_id, status, total, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		RETURNING id, created_at`,
		order.TableID, order.CustomerID, order.LocationID, order.Status, order.Total, order.Notes, order.CreatedBy,
	).Scan(&order.ID, &order.CreatedAt)
}

func (r *OrderRepository) InsertItem(ctx context.Context, orderID int, item domain.OrderItem) error {
	var itemID int
	if err := r.q.QueryRowContext(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, customization_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		orderID, item.ProductID, item.Quantity, item.UnitPrice, item.CustomizationPrice, item.Subtotal,
	).Scan(&itemID); err != nil {
		return err
	}

	for _, customizationID := range item.Customizations {
		if _, err := r.q.ExecContext(ctx, `
			INSERT INTO order_item_customizations (order_id, order_item_id, product_id, customization_id)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT DO NOTHING`,
			orderID, itemID, item.ProductID, customizationID); err != nil {
			return err
		}
	}
	return nil
}

const orderHeaderColumns = `
	o.id, o.table_id, o.customer_id, o.location_id, o.status, o.total,
	COALESCE(o.notes, ''), o.created_by, o.created_at,
	t.number, t.state, u.name, u.email`

const orderHeaderJoins = `
	FROM orders o
	LEFT JOIN dining_tables t ON t.id = o.table_id
	LEFT JOIN users u ON u.id = o.customer_id`

func scanOrderHeader(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var (
		o                   domain.Order
		tableID, customerID sql.NullInt64
		tableNumber         sql.NullInt64
		tableState          sql.NullString
		customerName, email sql.NullString
	)
	if err := row.Scan(&o.ID, &tableID, &customerID, &o.LocationID, &o.Status, &o.Total,
		&o.Notes, &o.CreatedBy, &o.CreatedAt,
		&tableNumber, &tableState, &customerName, &email); err != nil {
		return nil, err
	}
	o.TableID = intPtr(tableID)
	o.CustomerID = intPtr(customerID)
	if tableNumber.Valid {
		o.Table = &domain.TableRef{Number: int(tableNumber.Int64), State: domain.TableState(tableState.String)}
	}
	if customerName.Valid {
		o.Customer = &domain.CustomerRef{Name: customerName.String, Email: email.String}
	}
	o.Items = []domain.OrderItem{}
	return &o, nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	order, err := scanOrderHeader(r.q.QueryRowContext(ctx,
		"SELECT"+orderHeaderColumns+orderHeaderJoins+"\n\tWHERE o.id = $1", orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("order %d", orderID)
	}
	if err != nil {
		return nil, err
	}

	items, err := r.itemsFor(ctx, []int{orderID})
	if err != nil {
		return nil, err
	}
	if lines, ok := items[orderID]; ok {
		order.Items = lines
	}
	return order, nil
}

func (r *OrderRepository) GetOrderForUpdate(ctx context.Context, orderID int) (*domain.Order, error) {
	var (
		o                   domain.Order
		tableID, customerID sql.NullInt64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, table_id, customer_id, location_id, status, total, COALESCE(notes, ''), created_by, created_at
		FROM orders
		WHERE id = $1
		FOR UPDATE`, orderID).
		Scan(&o.ID, &tableID, &customerID, &o.LocationID, &o.Status, &o.Total, &o.Notes, &o.CreatedBy, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("order %d", orderID)
	}
	if err != nil {
		return nil, err
	}
	o.TableID = intPtr(tableID)
	o.CustomerID = intPtr(customerID)
	return &o, nil
}

// UpdateStatus only succeeds while the order is still in status from.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int, from, to domain.OrderStatus) error {
	res, err := r.q.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3",
		to, orderID, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("order %d is no longer %s: %w", orderID, from, domain.ErrInvalidTransition)
	}
	return nil
}

func (r *OrderRepository) InsertPayment(ctx context.Context, payment *domain.Payment) error {
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO payments (order_id, method, amount, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		payment.OrderID, payment.Method, payment.Amount, payment.CreatedBy,
	).Scan(&payment.ID, &payment.CreatedAt)
	if pqCode(err) == pqUniqueViolation {
		return domain.Conflictf("order %d is already paid", payment.OrderID)
	}
	return err
}

func (r *OrderRepository) ListByStatus(ctx context.Context, statuses []domain.OrderStatus) ([]domain.Order, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	rows, err := r.q.QueryContext(ctx, "SELECT"+orderHeaderColumns+orderHeaderJoins+`
	WHERE o.status = ANY($1)
	ORDER BY CASE o.status
		WHEN 'pending' THEN 1
		WHEN 'in_preparation' THEN 2
		WHEN 'delivered' THEN 3
		ELSE 4
	END, o.created_at DESC`, pq.StringArray(names))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	var ids []int
	for rows.Next() {
		o, err := scanOrderHeader(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if lines, ok := items[orders[i].ID]; ok {
			orders[i].Items = lines
		}
	}
	return orders, nil
}

func (r *OrderRepository) itemsFor(ctx context.Context, orderIDs []int) (map[int][]domain.OrderItem, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT oi.order_id, oi.product_id, p.name, oi.quantity, oi.unit_price, oi.customization_price, oi.subtotal,
			COALESCE(array_agg(oic.customization_id) FILTER (WHERE oic.customization_id IS NOT NULL), '{}')
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		LEFT JOIN order_item_customizations oic ON oic.order_item_id = oi.id
		WHERE oi.order_id = ANY($1)
		GROUP BY oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.unit_price, oi.customization_price, oi.subtotal
		ORDER BY oi.order_id, oi.id`, int64s(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			orderID        int
			item           domain.OrderItem
			customizations pq.Int64Array
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.ProductName, &item.Quantity,
			&item.UnitPrice, &item.CustomizationPrice, &item.Subtotal, &customizations); err != nil {
			return nil, err
		}
		for _, c := range customizations {
			item.Customizations = append(item.Customizations, int(c))
		}
		items[orderID] = append(items[orderID], item)
	}
	return items, rows.Err()
}

func (r *OrderRepository) CountUnpaidForTable(ctx context.Context, tableID int) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM orders WHERE table_id = $1 AND status <> 'paid'", tableID).Scan(&n)
	return n, err
}

func (r *OrderRepository) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	_, err := r.q.ExecContext(ctx, "UPDATE orders SET qr_code = $1 WHERE id = $2", qr, orderID)
	return err
}

func (r *OrderRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	var qrCode []byte
	err := r.q.QueryRowContext(ctx, "SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qrCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("order %d", orderID)
	}
	if err != nil {
		return nil, err
	}
	return qrCode, nil
}

func (r *OrderRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, email
		FROM users
		WHERE role = 'cliente'
		ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
