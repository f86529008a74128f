package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tpv-system/pos-svc/internal/service"

	"github.com/lib/pq"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func newRepositories(q querier) service.Repositories {
	return service.Repositories{
		Tables:    &TableRepository{q: q},
		Catalog:   &CatalogRepository{q: q},
		Inventory: &InventoryRepository{q: q},
		Orders:    &OrderRepository{q: q},
	}
}

// Repos returns repositories running on the connection pool, one statement
// per call. Use WithinTx for anything that writes more than one row.
func (s *PostgresStore) Repos() service.Repositories {
	return newRepositories(s.DB)
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(service.Repositories) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'cliente'
	)`,
	`CREATE TABLE IF NOT EXISTS dining_tables (
		id SERIAL PRIMARY KEY,
		number INTEGER NOT NULL,
		capacity INTEGER NOT NULL DEFAULT 4,
		location_id INTEGER NOT NULL REFERENCES locations(id),
		state TEXT NOT NULL DEFAULT 'available' CHECK (state IN ('available', 'occupied', 'cleaning')),
		UNIQUE (location_id, number)
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		available BOOLEAN NOT NULL DEFAULT TRUE,
		category_id INTEGER REFERENCES categories(id),
		is_daily_special BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS customizations (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		category TEXT,
		extra_price NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (extra_price >= 0),
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		product_id INTEGER NOT NULL REFERENCES products(id),
		location_id INTEGER NOT NULL REFERENCES locations(id),
		available_quantity INTEGER NOT NULL CHECK (available_quantity >= 0),
		min_quantity INTEGER NOT NULL DEFAULT 0,
		max_quantity INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (product_id, location_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		table_id INTEGER REFERENCES dining_tables(id),
		customer_id INTEGER REFERENCES users(id),
		location_id INTEGER NOT NULL REFERENCES locations(id),
		status TEXT NOT NULL CHECK (status IN ('pending', 'in_preparation', 'delivered', 'paid')),
		total NUMERIC(12,2) NOT NULL,
		notes TEXT,
		created_by INTEGER NOT NULL,
		qr_code BYTEA,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK ((table_id IS NULL) <> (customer_id IS NULL))
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INTEGER NOT NULL REFERENCES orders(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12,2) NOT NULL,
		customization_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		subtotal NUMERIC(12,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_item_customizations (
		order_id INTEGER NOT NULL REFERENCES orders(id),
		order_item_id INTEGER NOT NULL REFERENCES order_items(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		customization_id INTEGER NOT NULL REFERENCES customizations(id),
		PRIMARY KEY (order_item_id, customization_id)
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_movements (
		id SERIAL PRIMARY KEY,
		product_id INTEGER NOT NULL REFERENCES products(id),
		location_id INTEGER NOT NULL REFERENCES locations(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		direction TEXT NOT NULL CHECK (direction IN ('in', 'out')),
		reason TEXT NOT NULL CHECK (reason IN ('purchase', 'sale', 'spoilage', 'count_adjustment')),
		note TEXT,
		order_id INTEGER REFERENCES orders(id),
		created_by INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id SERIAL PRIMARY KEY,
		order_id INTEGER NOT NULL UNIQUE REFERENCES orders(id),
		method TEXT NOT NULL CHECK (method IN ('cash', 'card', 'transfer')),
		amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
		created_by INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status, created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_movements_created ON inventory_movements (created_at DESC)",
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%.40s`: %w", stmt, err)
		}
	}
	return nil
}

const (
	pqCheckViolation  = "23514"
	pqUniqueViolation = "23505"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func int64s(ids []int) pq.Int64Array {
	out := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

var _ service.Store = (*PostgresStore)(nil)
