package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleAdmin   = "administrador"
	RoleManager = "manager"
)

const (
	SourceCache    = "cache"
	SourceDatabase = "database"
)

type TodayStats struct {
	Day        string          `json:"day"`
	LocationID int             `json:"locationId"`
	Orders     int64           `json:"orders"`
	Items      int64           `json:"items"`
	PaidOrders int64           `json:"paidOrders"`
	Revenue    decimal.Decimal `json:"revenue"`
	Source     string          `json:"source"`
}

type ProductRank struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
}

type TopProducts struct {
	Period     string        `json:"period"`
	LocationID int           `json:"locationId"`
	Products   []ProductRank `json:"products"`
	Source     string        `json:"source"`
}

type StockAlert struct {
	ProductID   int    `json:"productId"`
	Name        string `json:"name"`
	Available   int    `json:"available"`
	MinQuantity int    `json:"minQuantity"`
	Status      string `json:"status"`
}

type MovementTotal struct {
	Direction string `json:"direction"`
	Reason    string `json:"reason"`
	Quantity  int64  `json:"quantity"`
}

type InventorySummary struct {
	LocationID     int             `json:"locationId"`
	TotalProducts  int             `json:"totalProducts"`
	LowStock       int             `json:"lowStock"`
	OutOfStock     int             `json:"outOfStock"`
	Alerts         []StockAlert    `json:"alerts"`
	MovementsSince time.Time       `json:"movementsSince"`
	Movements      []MovementTotal `json:"movements"`
}

type Metrics struct {
	TotalUsers   int64           `json:"totalUsers"`
	TotalOrders  int64           `json:"totalOrders"`
	Revenue      decimal.Decimal `json:"revenue"`
	ActiveOrders int64           `json:"activeOrders"`
	Filter       Filter          `json:"filter"`
}

type SalesPoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"valor"`
}
