// Package counters names the Redis keys shared by the aggregation consumer
// and the dashboard readers.
package counters

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DayLayout = "2006-01-02"

	// Retention keeps a week of daily keys plus one day of slack.
	Retention = 8 * 24 * time.Hour

	FieldOrders     = "orders"
	FieldItems      = "items"
	FieldPaidOrders = "paid_orders"
	FieldRevenue    = "revenue_cents"

	// MinorUnitExp is the decimal exponent of the integers stored in FieldRevenue.
	MinorUnitExp = -2
)

// ToMinorUnits rounds an amount to cents so it can be summed with HINCRBY.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(-MinorUnitExp).Round(0).IntPart()
}

func FromMinorUnits(n int64) decimal.Decimal {
	return decimal.New(n, MinorUnitExp)
}

func Day(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// DailySalesKey is a hash with the FieldOrders, FieldItems, FieldPaidOrders
// and FieldRevenue counters of one location and day. Revenue is kept in
// minor units.
func DailySalesKey(day string, locationID int) string {
	return fmt.Sprintf("sales:daily:%s:%d", day, locationID)
}

// DailyPopularityKey is a sorted set of product ids scored by units sold.
func DailyPopularityKey(day string, locationID int) string {
	return fmt.Sprintf("popularity:daily:%s:%d", day, locationID)
}

func AllTimePopularityKey(locationID int) string {
	return fmt.Sprintf("popularity:alltime:%d", locationID)
}
