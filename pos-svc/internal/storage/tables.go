package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tpv-system/pos-svc/internal/domain"
)

type TableRepository struct {
	q querier
}

func (r *TableRepository) ListTables(ctx context.Context, locationID int, onlyAvailable bool) ([]domain.Table, error) {
	var (
		where []string
		args  []any
	)
	if locationID > 0 {
		args = append(args, locationID)
		where = append(where, fmt.Sprintf("location_id = $%d", len(args)))
	}
	if onlyAvailable {
		where = append(where, "state = 'available'")
	}

	query := "SELECT id, number, capacity, location_id, state FROM dining_tables"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY CASE state WHEN 'available' THEN 1 WHEN 'occupied' THEN 2 ELSE 3 END, number`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []domain.Table{}
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.Number, &t.Capacity, &t.LocationID, &t.State); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (r *TableRepository) GetTableForUpdate(ctx context.Context, tableID int) (*domain.Table, error) {
	var t domain.Table
	err := r.q.QueryRowContext(ctx, `
		SELECT id, number, capacity, location_id, state
		FROM dining_tables
		WHERE id = $1
		FOR UPDATE`, tableID).
		Scan(&t.ID, &t.Number, &t.Capacity, &t.LocationID, &t.State)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("table %d", tableID)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) SetTableState(ctx context.Context, tableID int, state domain.TableState) error {
	res, err := r.q.ExecContext(ctx, "UPDATE dining_tables SET state = $1 WHERE id = $2", state, tableID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("table %d", tableID)
	}
	return nil
}
