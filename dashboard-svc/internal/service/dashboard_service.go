package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"tpv-system/config"
	"tpv-system/counters"
	"tpv-system/dashboard-svc/internal/domain"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTopLimit = 5
	MaxTopLimit     = 50
	movementDays    = 7
)

// DashboardService answers the back-office reads. Counters written by the
// aggregator are preferred; PostgreSQL is the fallback and the source for
// anything the counters do not hold.
type DashboardService struct {
	db              *sql.DB
	rdb             *redis.Client
	defaultLocation int
	logger          *logrus.Logger

	Now func() time.Time
}

func NewDashboardService(db *sql.DB, rdb *redis.Client, defaultLocation int) *DashboardService {
	return &DashboardService{
		db:              db,
		rdb:             rdb,
		defaultLocation: defaultLocation,
		logger:          config.GetLogger(),
		Now:             time.Now,
	}
}

func (s *DashboardService) location(id int) int {
	if id > 0 {
		return id
	}
	return s.defaultLocation
}

func (s *DashboardService) cacheMiss(fn, key string, err error) {
	if err != nil && err != redis.Nil {
		config.LogError(s.logger, "dashboard-svc", fn, "counter read failed, using database", map[string]interface{}{"key": key}, err)
	}
}

func (s *DashboardService) Today(ctx context.Context, locationID int) (domain.TodayStats, error) {
	loc := s.location(locationID)
	now := s.Now().UTC()
	day := counters.Day(now)
	stats := domain.TodayStats{Day: day, LocationID: loc}

	key := counters.DailySalesKey(day, loc)
	fields, err := s.rdb.HGetAll(ctx, key).Result()
	if err == nil && len(fields) > 0 {
		if err = parseSalesHash(fields, &stats); err == nil {
			stats.Source = domain.SourceCache
			return stats, nil
		}
	}
	s.cacheMiss("Today", key, err)

	from, to := domain.FilterDaily.Window(now)
	err = s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM orders
				WHERE location_id = $1 AND created_at >= $2 AND created_at < $3),
			(SELECT COALESCE(SUM(oi.quantity), 0) FROM order_items oi
				JOIN orders o ON o.id = oi.order_id
				WHERE o.location_id = $1 AND o.created_at >= $2 AND o.created_at < $3),
			(SELECT COUNT(*) FROM payments p
				JOIN orders o ON o.id = p.order_id
				WHERE o.location_id = $1 AND p.created_at >= $2 AND p.created_at < $3),
			(SELECT COALESCE(SUM(p.amount), 0) FROM payments p
				JOIN orders o ON o.id = p.order_id
				WHERE o.location_id = $1 AND p.created_at >= $2 AND p.created_at < $3)`,
		loc, from, to).Scan(&stats.Orders, &stats.Items, &stats.PaidOrders, &stats.Revenue)
	if err != nil {
		return domain.TodayStats{}, fmt.Errorf("today stats: %w", err)
	}
	stats.Source = domain.SourceDatabase
	return stats, nil
}

func parseSalesHash(fields map[string]string, stats *domain.TodayStats) error {
	ints := map[string]*int64{
		counters.FieldOrders:     &stats.Orders,
		counters.FieldItems:      &stats.Items,
		counters.FieldPaidOrders: &stats.PaidOrders,
	}
	for field, dst := range ints {
		raw, ok := fields[field]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		*dst = n
	}
	stats.Revenue = decimal.Zero
	if raw, ok := fields[counters.FieldRevenue]; ok {
		cents, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("field %s: %w", counters.FieldRevenue, err)
		}
		stats.Revenue = counters.FromMinorUnits(cents)
	}
	return nil
}

func (s *DashboardService) TopProducts(ctx context.Context, period string, locationID, limit int) (domain.TopProducts, error) {
	loc := s.location(locationID)
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if limit > MaxTopLimit {
		limit = MaxTopLimit
	}
	now := s.Now().UTC()
	result := domain.TopProducts{Period: period, LocationID: loc, Products: []domain.ProductRank{}}

	key := counters.AllTimePopularityKey(loc)
	if period == domain.PeriodToday {
		key = counters.DailyPopularityKey(counters.Day(now), loc)
	}
	scores, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err == nil && len(scores) > 0 {
		ranks, err := s.rankFromScores(ctx, scores)
		if err != nil {
			return domain.TopProducts{}, err
		}
		result.Products = ranks
		result.Source = domain.SourceCache
		return result, nil
	}
	s.cacheMiss("TopProducts", key, err)

	var from time.Time
	if period == domain.PeriodToday {
		from, _ = domain.FilterDaily.Window(now)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, SUM(oi.quantity) AS quantity
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.location_id = $1 AND o.created_at >= $2
		GROUP BY p.id, p.name
		ORDER BY quantity DESC, p.id
		LIMIT $3`, loc, from, limit)
	if err != nil {
		return domain.TopProducts{}, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rank domain.ProductRank
		if err := rows.Scan(&rank.ProductID, &rank.Name, &rank.Quantity); err != nil {
			return domain.TopProducts{}, fmt.Errorf("scan top product: %w", err)
		}
		result.Products = append(result.Products, rank)
	}
	if err := rows.Err(); err != nil {
		return domain.TopProducts{}, fmt.Errorf("top products: %w", err)
	}
	result.Source = domain.SourceDatabase
	return result, nil
}

func (s *DashboardService) rankFromScores(ctx context.Context, scores []redis.Z) ([]domain.ProductRank, error) {
	ranks := make([]domain.ProductRank, 0, len(scores))
	ids := make(pq.Int64Array, 0, len(scores))
	for _, z := range scores {
		member, _ := z.Member.(string)
		id, err := strconv.Atoi(member)
		if err != nil {
			continue
		}
		ids = append(ids, int64(id))
		ranks = append(ranks, domain.ProductRank{ProductID: id, Quantity: int64(z.Score)})
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM products WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("product names: %w", err)
	}
	defer rows.Close()

	names := make(map[int]string, len(ids))
	for rows.Next() {
		var (
			id   int
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan product name: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("product names: %w", err)
	}

	named := ranks[:0]
	for _, rank := range ranks {
		name, ok := names[rank.ProductID]
		if !ok {
			continue
		}
		rank.Name = name
		named = append(named, rank)
	}
	return named, nil
}

func (s *DashboardService) InventorySummary(ctx context.Context, locationID int) (domain.InventorySummary, error) {
	loc := s.location(locationID)
	today, _ := domain.FilterDaily.Window(s.Now())
	summary := domain.InventorySummary{
		LocationID:     loc,
		Alerts:         []domain.StockAlert{},
		MovementsSince: today.AddDate(0, 0, 1-movementDays),
		Movements:      []domain.MovementTotal{},
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, i.available_quantity, i.min_quantity,
			CASE
				WHEN i.available_quantity <= 0 THEN 'out_of_stock'
				WHEN i.available_quantity * 2 <= i.min_quantity THEN 'critical'
				WHEN i.available_quantity <= i.min_quantity THEN 'low'
				ELSE 'ok'
			END AS status
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE i.location_id = $1
		ORDER BY i.available_quantity, p.name`, loc)
	if err != nil {
		return domain.InventorySummary{}, fmt.Errorf("stock levels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var alert domain.StockAlert
		if err := rows.Scan(&alert.ProductID, &alert.Name, &alert.Available, &alert.MinQuantity, &alert.Status); err != nil {
			return domain.InventorySummary{}, fmt.Errorf("scan stock level: %w", err)
		}
		summary.TotalProducts++
		switch alert.Status {
		case "out_of_stock":
			summary.OutOfStock++
		case "critical", "low":
			summary.LowStock++
		default:
			continue
		}
		summary.Alerts = append(summary.Alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return domain.InventorySummary{}, fmt.Errorf("stock levels: %w", err)
	}

	movements, err := s.db.QueryContext(ctx, `
		SELECT direction, reason, COALESCE(SUM(quantity), 0)
		FROM inventory_movements
		WHERE location_id = $1 AND created_at >= $2
		GROUP BY direction, reason
		ORDER BY direction, reason`, loc, summary.MovementsSince)
	if err != nil {
		return domain.InventorySummary{}, fmt.Errorf("movement totals: %w", err)
	}
	defer movements.Close()

	for movements.Next() {
		var total domain.MovementTotal
		if err := movements.Scan(&total.Direction, &total.Reason, &total.Quantity); err != nil {
			return domain.InventorySummary{}, fmt.Errorf("scan movement total: %w", err)
		}
		summary.Movements = append(summary.Movements, total)
	}
	if err := movements.Err(); err != nil {
		return domain.InventorySummary{}, fmt.Errorf("movement totals: %w", err)
	}
	return summary, nil
}

func (s *DashboardService) Metrics(ctx context.Context, filter domain.Filter) (domain.Metrics, error) {
	from, to := filter.Window(s.Now())
	metrics := domain.Metrics{Filter: filter}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'cliente'),
			(SELECT COUNT(*) FROM orders
				WHERE status IN ('delivered', 'paid') AND created_at >= $1 AND created_at < $2),
			(SELECT COALESCE(SUM(amount), 0) FROM payments
				WHERE created_at >= $1 AND created_at < $2),
			(SELECT COUNT(*) FROM orders WHERE status IN ('pending', 'in_preparation'))`,
		from, to).Scan(&metrics.TotalUsers, &metrics.TotalOrders, &metrics.Revenue, &metrics.ActiveOrders)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("metrics: %w", err)
	}
	return metrics, nil
}

// Sales charts revenue for the filter window. The daily chart is bucketed by
// hour from payments; longer windows read the aggregator's daily_sales rows.
func (s *DashboardService) Sales(ctx context.Context, filter domain.Filter) ([]domain.SalesPoint, error) {
	from, to := filter.Window(s.Now())
	if filter == domain.FilterDaily {
		return s.hourlySales(ctx, from, to)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT day, SUM(revenue)
		FROM daily_sales
		WHERE day >= $1::date AND day < $2::date
		GROUP BY day
		ORDER BY day`, from.Format(counters.DayLayout), to.Format(counters.DayLayout))
	if err != nil {
		return nil, fmt.Errorf("sales series: %w", err)
	}
	defer rows.Close()

	points := []domain.SalesPoint{}
	index := map[string]int{}
	for rows.Next() {
		var (
			day     time.Time
			revenue decimal.Decimal
		)
		if err := rows.Scan(&day, &revenue); err != nil {
			return nil, fmt.Errorf("scan sales point: %w", err)
		}
		label := filter.BucketLabel(day)
		if i, ok := index[label]; ok {
			points[i].Value = points[i].Value.Add(revenue)
			continue
		}
		index[label] = len(points)
		points = append(points, domain.SalesPoint{Label: label, Value: revenue})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales series: %w", err)
	}
	return points, nil
}

func (s *DashboardService) hourlySales(ctx context.Context, from, to time.Time) ([]domain.SalesPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT EXTRACT(HOUR FROM created_at AT TIME ZONE 'UTC')::int AS hour, SUM(amount)
		FROM payments
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY hour
		ORDER BY hour`, from, to)
	if err != nil {
		return nil, fmt.Errorf("hourly sales: %w", err)
	}
	defer rows.Close()

	points := []domain.SalesPoint{}
	for rows.Next() {
		var (
			hour    int
			revenue decimal.Decimal
		)
		if err := rows.Scan(&hour, &revenue); err != nil {
			return nil, fmt.Errorf("scan hourly sales: %w", err)
		}
		points = append(points, domain.SalesPoint{Label: fmt.Sprintf("%d:00", hour), Value: revenue})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hourly sales: %w", err)
	}
	return points, nil
}
