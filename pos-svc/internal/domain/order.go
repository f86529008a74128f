package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending       OrderStatus = "pending"
	StatusInPreparation OrderStatus = "in_preparation"
	StatusDelivered     OrderStatus = "delivered"
	StatusPaid          OrderStatus = "paid"
)

// BoardStatuses is the lifecycle order, also used to sort the status board.
var BoardStatuses = []OrderStatus{StatusPending, StatusInPreparation, StatusDelivered, StatusPaid}

func ParseStatus(s string) (OrderStatus, bool) {
	for _, st := range BoardStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Next returns the only status reachable from s. Paid is terminal.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case StatusPending:
		return StatusInPreparation, true
	case StatusInPreparation:
		return StatusDelivered, true
	case StatusDelivered:
		return StatusPaid, true
	}
	return "", false
}

// PaymentTolerance is the largest accepted difference between an order total
// and the amount tendered.
var PaymentTolerance = decimal.NewFromFloat(0.01)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentTransfer
}

type TableRef struct {
	Number int        `json:"number"`
	State  TableState `json:"state"`
}

// Customer is a registered user with the cliente role.
type Customer struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CustomerRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Order struct {
	ID         int             `json:"id"`
	TableID    *int            `json:"tableId,omitempty"`
	CustomerID *int            `json:"customerId,omitempty"`
	LocationID int             `json:"locationId"`
	Status     OrderStatus     `json:"status"`
	Total      decimal.Decimal `json:"total"`
	Notes      string          `json:"notes,omitempty"`
	CreatedBy  int             `json:"createdBy"`
	CreatedAt  time.Time       `json:"createdAt"`
	Table      *TableRef       `json:"table,omitempty"`
	Customer   *CustomerRef    `json:"customer,omitempty"`
	Items      []OrderItem     `json:"items"`
}

type OrderItem struct {
	ProductID          int             `json:"productId"`
	ProductName        string          `json:"productName"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	CustomizationPrice decimal.Decimal `json:"customizationPrice"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Customizations     []int           `json:"customizations,omitempty"`
}

// LineSubtotal is (unit price + sum of extras) multiplied by quantity.
func LineSubtotal(unit decimal.Decimal, extras []decimal.Decimal, qty int) (decimal.Decimal, decimal.Decimal) {
	extra := decimal.Zero
	for _, e := range extras {
		extra = extra.Add(e)
	}
	return extra, unit.Add(extra).Mul(decimal.NewFromInt(int64(qty)))
}

type Payment struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"orderId"`
	Method    PaymentMethod   `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedBy int             `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
}

type StatusBoard map[OrderStatus][]Order

type CreateOrderInput struct {
	TableID    *int        `json:"tableId" validate:"omitempty,gt=0"`
	CustomerID *int        `json:"customerId" validate:"omitempty,gt=0"`
	LocationID int         `json:"locationId" validate:"gte=0"`
	Notes      string      `json:"notes" validate:"max=500"`
	Items      []LineInput `json:"products" validate:"required,min=1,dive"`
}

// Normalize treats a zero table or customer id as not supplied.
func (in CreateOrderInput) Normalize() CreateOrderInput {
	if in.TableID != nil && *in.TableID == 0 {
		in.TableID = nil
	}
	if in.CustomerID != nil && *in.CustomerID == 0 {
		in.CustomerID = nil
	}
	return in
}

type LineInput struct {
	ProductID        int   `json:"productId" validate:"gt=0"`
	Quantity         int   `json:"quantity" validate:"gt=0"`
	CustomizationIDs []int `json:"customizations" validate:"unique,dive,gt=0"`
	// Subtotal is accepted from clients and ignored; totals are recomputed.
	Subtotal *decimal.Decimal `json:"subtotal,omitempty"`
}

type CreateOrderResult struct {
	OrderID int             `json:"orderId"`
	Total   decimal.Decimal `json:"total"`
	QRCode  string          `json:"qrCode,omitempty"`
}

type Role string

const (
	RoleAdmin    Role = "administrador"
	RoleManager  Role = "manager"
	RoleEmployee Role = "empleado"
	RoleCustomer Role = "cliente"
)

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID int
	Role   Role
}

func (p Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

type EventType string

const (
	EventOrderCreated       EventType = "order_created"
	EventOrderStatusChanged EventType = "order_status_changed"
	EventOrderPaid          EventType = "order_paid"
)

type OrderEvent struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	OrderID    int             `json:"orderId"`
	LocationID int             `json:"locationId"`
	Status     OrderStatus     `json:"status"`
	Total      decimal.Decimal `json:"total"`
	Items      []EventItem     `json:"items,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type EventItem struct {
	ProductID int             `json:"productId"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
