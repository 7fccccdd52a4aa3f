package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tastebite/tastebite-backend/pkg/enums"
)

// PlacedOrder is returned once an order has been committed.
type PlacedOrder struct {
	OrderID     uuid.UUID         `json:"order_id"`
	CustID      string            `json:"cust_id"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Status      enums.OrderStatus `json:"status"`
	PlacedAt    time.Time         `json:"placed_at"`
	ItemCount   int               `json:"item_count"`
}

// HistoryRow is one entry in a customer's order history. The label fields
// carry the exact display strings so every client renders them identically.
type HistoryRow struct {
	OrderID     uuid.UUID         `json:"order_id"`
	Status      enums.OrderStatus `json:"status"`
	ItemCount   int               `json:"item_count"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	PlacedAt    time.Time         `json:"placed_at"`
	ItemsLabel  string            `json:"items_label"`
	AmountLabel string            `json:"amount_label"`
	PlacedLabel string            `json:"placed_label"`
}

// PlacedEvent is the payload published on the orders channel after commit.
type PlacedEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	CustID      string    `json:"cust_id"`
	TotalAmount string    `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	PlacedAt    time.Time `json:"placed_at"`
}
