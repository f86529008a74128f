package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TableState string

const (
	TableAvailable TableState = "available"
	TableOccupied  TableState = "occupied"
	TableCleaning  TableState = "cleaning"
)

type Table struct {
	ID         int        `json:"id"`
	Number     int        `json:"number"`
	Capacity   int        `json:"capacity"`
	LocationID int        `json:"locationId"`
	State      TableState `json:"state"`
}

type Category struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ProductCount int    `json:"productCount"`
}

type Product struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Available      bool            `json:"available"`
	CategoryID     int             `json:"categoryId"`
	CategoryName   string          `json:"categoryName"`
	IsDailySpecial bool            `json:"isDailySpecial"`
	// Stock is resolved for the location the menu was read for.
	Stock int `json:"stock"`
}

type Customization struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	ExtraPrice  decimal.Decimal `json:"extraPrice"`
	Active      bool            `json:"active"`
}

type CustomizationMenu struct {
	Items   []Customization            `json:"items"`
	Grouped map[string][]Customization `json:"grouped"`
}

type StockLevel string

const (
	StockOut      StockLevel = "out_of_stock"
	StockCritical StockLevel = "critical"
	StockLow      StockLevel = "low"
	StockOK       StockLevel = "ok"
)

type InventoryRecord struct {
	ProductID   int        `json:"productId"`
	ProductName string     `json:"productName"`
	LocationID  int        `json:"locationId"`
	Available   int        `json:"availableQuantity"`
	Min         int        `json:"minQuantity"`
	Max         int        `json:"maxQuantity"`
	Level       StockLevel `json:"status"`
}

// Classify labels a stock quantity against its minimum.
func Classify(available, min int) StockLevel {
	switch {
	case available <= 0:
		return StockOut
	case available*2 <= min:
		return StockCritical
	case available <= min:
		return StockLow
	default:
		return StockOK
	}
}

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

type MovementReason string

const (
	ReasonPurchase        MovementReason = "purchase"
	ReasonSale            MovementReason = "sale"
	ReasonSpoilage        MovementReason = "spoilage"
	ReasonCountAdjustment MovementReason = "count_adjustment"
)

// Allows reports whether a reason may be recorded in the given direction.
func (r MovementReason) Allows(d Direction) bool {
	switch r {
	case ReasonPurchase:
		return d == DirectionIn
	case ReasonSale, ReasonSpoilage:
		return d == DirectionOut
	case ReasonCountAdjustment:
		return d == DirectionIn || d == DirectionOut
	}
	return false
}

type Movement struct {
	ID          int            `json:"id"`
	ProductID   int            `json:"productId"`
	ProductName string         `json:"productName,omitempty"`
	LocationID  int            `json:"locationId"`
	Quantity    int            `json:"quantity"`
	Direction   Direction      `json:"direction"`
	Reason      MovementReason `json:"reason"`
	Note        string         `json:"note,omitempty"`
	OrderID     *int           `json:"orderId,omitempty"`
	CreatedBy   int            `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type MovementFilter struct {
	From       *time.Time
	To         *time.Time
	Direction  Direction
	LocationID int
	ProductID  int
}
