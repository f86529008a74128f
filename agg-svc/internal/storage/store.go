package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"tpv-system/agg-svc/internal/domain"
	"tpv-system/counters"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	db  *sql.DB
	rdb *redis.Client
}

func NewStore(db *sql.DB, rdb *redis.Client) *Store {
	return &Store{
		db:  db,
		rdb: rdb,
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS agg_processed_events (
		event_id TEXT PRIMARY KEY,
		processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS daily_sales (
		day DATE NOT NULL,
		location_id INTEGER NOT NULL,
		orders INTEGER NOT NULL DEFAULT 0,
		items INTEGER NOT NULL DEFAULT 0,
		paid_orders INTEGER NOT NULL DEFAULT 0,
		revenue NUMERIC(14,2) NOT NULL DEFAULT 0,
		PRIMARY KEY (day, location_id)
	)`,
	`CREATE TABLE IF NOT EXISTS daily_product_sales (
		day DATE NOT NULL,
		location_id INTEGER NOT NULL,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0,
		revenue NUMERIC(14,2) NOT NULL DEFAULT 0,
		PRIMARY KEY (day, location_id, product_id)
	)`,
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *Store) RecordEvent(ctx context.Context, event domain.OrderEvent) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO agg_processed_events (event_id) VALUES ($1) ON CONFLICT DO NOTHING", event.ID)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return false, err
	}

	day := counters.Day(event.OccurredAt)
	switch event.Type {
	case domain.TypeOrderCreated:
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO daily_sales (day, location_id, orders, items)
			VALUES ($1::date, $2, 1, $3)
			ON CONFLICT (day, location_id) DO UPDATE
			SET orders = daily_sales.orders + 1, items = daily_sales.items + EXCLUDED.items`,
			day, event.LocationID, event.Units()); err != nil {
			return false, err
		}
		for _, item := range event.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO daily_product_sales (day, location_id, product_id, quantity, revenue)
				VALUES ($1::date, $2, $3, $4, $5)
				ON CONFLICT (day, location_id, product_id) DO UPDATE
				SET quantity = daily_product_sales.quantity + EXCLUDED.quantity,
					revenue = daily_product_sales.revenue + EXCLUDED.revenue`,
				day, event.LocationID, item.ProductID, item.Quantity, item.Subtotal); err != nil {
				return false, err
			}
		}
	case domain.TypeOrderPaid:
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO daily_sales (day, location_id, paid_orders, revenue)
			VALUES ($1::date, $2, 1, $3)
			ON CONFLICT (day, location_id) DO UPDATE
			SET paid_orders = daily_sales.paid_orders + 1, revenue = daily_sales.revenue + EXCLUDED.revenue`,
			day, event.LocationID, event.Total); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) UpdateCounters(ctx context.Context, event domain.OrderEvent) error {
	day := counters.Day(event.OccurredAt)
	salesKey := counters.DailySalesKey(day, event.LocationID)

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		switch event.Type {
		case domain.TypeOrderCreated:
			pipe.HIncrBy(ctx, salesKey, counters.FieldOrders, 1)
			pipe.HIncrBy(ctx, salesKey, counters.FieldItems, int64(event.Units()))

			dailyKey := counters.DailyPopularityKey(day, event.LocationID)
			allTimeKey := counters.AllTimePopularityKey(event.LocationID)
			for _, item := range event.Items {
				member := strconv.Itoa(item.ProductID)
				pipe.ZIncrBy(ctx, dailyKey, float64(item.Quantity), member)
				pipe.ZIncrBy(ctx, allTimeKey, float64(item.Quantity), member)
			}
			pipe.Expire(ctx, dailyKey, counters.Retention)
		case domain.TypeOrderPaid:
			pipe.HIncrBy(ctx, salesKey, counters.FieldPaidOrders, 1)
			pipe.HIncrBy(ctx, salesKey, counters.FieldRevenue, counters.ToMinorUnits(event.Total))
		}
		pipe.Expire(ctx, salesKey, counters.Retention)
		return nil
	})
	return err
}
