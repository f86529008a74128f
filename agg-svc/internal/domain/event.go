package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeOrderCreated       = "order_created"
	TypeOrderStatusChanged = "order_status_changed"
	TypeOrderPaid          = "order_paid"
)

var ErrMalformedEvent = errors.New("malformed order event")

// OrderEvent is the message pos-svc publishes on the orders topic.
type OrderEvent struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OrderID    int             `json:"orderId"`
	LocationID int             `json:"locationId"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
	Items      []EventItem     `json:"items,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type EventItem struct {
	ProductID int             `json:"productId"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func (e OrderEvent) Validate() error {
	if e.ID == "" || e.OrderID <= 0 || e.LocationID <= 0 || e.OccurredAt.IsZero() {
		return ErrMalformedEvent
	}
	return nil
}

func (e OrderEvent) Units() int {
	n := 0
	for _, item := range e.Items {
		n += item.Quantity
	}
	return n
}
