package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tpv-system/pos-svc/internal/domain"
)

const movementHistoryLimit = 500

type InventoryRepository struct {
	q querier
}

// LockStock locks the inventory rows of the given products at a location and
// returns their quantities. Products without a row are absent from the map.
func (r *InventoryRepository) LockStock(ctx context.Context, productIDs []int, locationID int) (map[int]int, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT product_id, available_quantity
		FROM inventory
		WHERE location_id = $1 AND product_id = ANY($2)
		ORDER BY product_id
		FOR UPDATE`, locationID, int64s(productIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stock := make(map[int]int, len(productIDs))
	for rows.Next() {
		var id, qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, err
		}
		stock[id] = qty
	}
	return stock, rows.Err()
}

// Decrement subtracts qty only when enough stock remains.
func (r *InventoryRepository) Decrement(ctx context.Context, productID, locationID, qty int) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE inventory
		SET available_quantity = available_quantity - $1, updated_at = NOW()
		WHERE product_id = $2 AND location_id = $3 AND available_quantity >= $1`,
		qty, productID, locationID)
	if err != nil {
		if pqCode(err) == pqCheckViolation {
			return &domain.StockError{ProductID: productID, Requested: qty}
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var available int
	err = r.q.QueryRowContext(ctx,
		"SELECT available_quantity FROM inventory WHERE product_id = $1 AND location_id = $2",
		productID, locationID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf("inventory for product %d at location %d", productID, locationID)
	}
	if err != nil {
		return err
	}
	return &domain.StockError{ProductID: productID, Requested: qty, Available: available}
}

func (r *InventoryRepository) Increment(ctx context.Context, productID, locationID, qty int) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE inventory
		SET available_quantity = available_quantity + $1, updated_at = NOW()
		WHERE product_id = $2 AND location_id = $3`,
		qty, productID, locationID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("inventory for product %d at location %d", productID, locationID)
	}
	return nil
}

func (r *InventoryRepository) Provision(ctx context.Context, rec domain.InventoryRecord) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO inventory (product_id, location_id, available_quantity, min_quantity, max_quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, location_id) DO NOTHING`,
		rec.ProductID, rec.LocationID, rec.Available, rec.Min, rec.Max)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.Conflictf("product %d is already stocked at location %d", rec.ProductID, rec.LocationID)
	}
	return nil
}

func (r *InventoryRepository) RecordMovement(ctx context.Context, m *domain.Movement) error {
	return r.q.QueryRowContext(ctx, `
		INSERT INTO inventory_movements (product_id, location_id, quantity, direction, reason, note, order_id, created_by)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
		RETURNING id, created_at`,
		m.ProductID, m.LocationID, m.Quantity, m.Direction, m.Reason, m.Note, m.OrderID, m.CreatedBy,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *InventoryRepository) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.From != nil {
		add("m.created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("m.created_at <= $%d", *filter.To)
	}
	if filter.Direction != "" {
		add("m.direction = $%d", filter.Direction)
	}
	if filter.LocationID > 0 {
		add("m.location_id = $%d", filter.LocationID)
	}
	if filter.ProductID > 0 {
		add("m.product_id = $%d", filter.ProductID)
	}

	query := `
		SELECT m.id, m.product_id, p.name, m.location_id, m.quantity, m.direction, m.reason,
			COALESCE(m.note, ''), m.order_id, m.created_by, m.created_at
		FROM inventory_movements m
		JOIN products p ON p.id = m.product_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf("\n\t\tORDER BY m.created_at DESC, m.id DESC\n\t\tLIMIT %d", movementHistoryLimit)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := []domain.Movement{}
	for rows.Next() {
		var (
			m       domain.Movement
			orderID sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &m.ProductName, &m.LocationID, &m.Quantity,
			&m.Direction, &m.Reason, &m.Note, &orderID, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.OrderID = intPtr(orderID)
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func (r *InventoryRepository) ListStock(ctx context.Context, locationID int) ([]domain.InventoryRecord, error) {
	query := `
		SELECT i.product_id, p.name, i.location_id, i.available_quantity, i.min_quantity, i.max_quantity
		FROM inventory i
		JOIN products p ON p.id = i.product_id`
	var args []any
	if locationID > 0 {
		query += " WHERE i.location_id = $1"
		args = append(args, locationID)
	}
	query += " ORDER BY p.name, i.location_id"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.InventoryRecord{}
	for rows.Next() {
		var rec domain.InventoryRecord
		if err := rows.Scan(&rec.ProductID, &rec.ProductName, &rec.LocationID, &rec.Available, &rec.Min, &rec.Max); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
