package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one priced line item returned to clients.
type CartLine struct {
	FoodID    uuid.UUID       `json:"food_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Qty       int             `json:"qty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartView is the full cart snapshot returned after every read or mutation.
// CartID is nil until the first add creates the cart.
type CartView struct {
	CartID    *uuid.UUID      `json:"cart_id,omitempty"`
	CustID    string          `json:"cust_id"`
	Items     []CartLine      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}
