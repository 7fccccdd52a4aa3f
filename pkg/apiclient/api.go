package apiclient

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is the public account shape returned by the API.
type Customer struct {
	CustID    string    `json:"cust_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	MobileNo  *string   `json:"mobile_no,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResult carries the token and customer returned by signup or login.
type AuthResult struct {
	AccessToken string    `json:"access_token"`
	Customer    *Customer `json:"customer"`
}

// SignupInput mirrors the signup request body.
type SignupInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	MobileNo *string `json:"mobile_no,omitempty"`
}

// FoodItem is one dish on the menu.
type FoodItem struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Rating   *float64        `json:"rating,omitempty"`
	ImageURL *string         `json:"image_url,omitempty"`
}

// CartLine is one priced line in a cart snapshot.
type CartLine struct {
	FoodID    uuid.UUID       `json:"food_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Qty       int             `json:"qty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Cart is the server's authoritative cart snapshot. CartID is nil until the
// first add creates the cart.
type Cart struct {
	CartID    *uuid.UUID      `json:"cart_id,omitempty"`
	CustID    string          `json:"cust_id"`
	Items     []CartLine      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// PlacedOrder is returned when a cart commits.
type PlacedOrder struct {
	OrderID     uuid.UUID       `json:"order_id"`
	CustID      string          `json:"cust_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	PlacedAt    time.Time       `json:"placed_at"`
	ItemCount   int             `json:"item_count"`
}

// HistoryRow is one order history entry with its display labels.
type HistoryRow struct {
	OrderID     uuid.UUID       `json:"order_id"`
	Status      string          `json:"status"`
	ItemCount   int             `json:"item_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PlacedAt    time.Time       `json:"placed_at"`
	ItemsLabel  string          `json:"items_label"`
	AmountLabel string          `json:"amount_label"`
	PlacedLabel string          `json:"placed_label"`
}

// Signup creates an account and returns the first session token.
func (c *Client) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout revokes the session behind the client's token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
}

// Me returns the authenticated customer's profile.
func (c *Client) Me(ctx context.Context) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Menu lists every active dish.
func (c *Client) Menu(ctx context.Context) ([]FoodItem, error) {
	var result struct {
		Items []FoodItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/menu", nil, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// MenuItem fetches one dish by id.
func (c *Client) MenuItem(ctx context.Context, foodID uuid.UUID) (*FoodItem, error) {
	var item FoodItem
	if err := c.do(ctx, http.MethodGet, "/api/v1/menu/"+pathEscape(foodID.String()), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Cart fetches the customer's current cart snapshot.
func (c *Client) Cart(ctx context.Context, custID string) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/api/v1/cart/"+pathEscape(custID), nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds a dish to the open cart. Qty above one adds that many
// units in one step; zero or one adds a single unit.
func (c *Client) AddToCart(ctx context.Context, custID string, foodID uuid.UUID, qty int) (*Cart, error) {
	body := map[string]any{"cust_id": custID, "food_id": foodID}
	if qty > 1 {
		body["qty"] = qty
	}
	var cart Cart
	if err := c.do(ctx, http.MethodPost, "/api/v1/cart/add", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateCartItem sets the absolute quantity for a line. Quantities below one
// remove the line.
func (c *Client) UpdateCartItem(ctx context.Context, cartID, foodID uuid.UUID, qty int) (*Cart, error) {
	body := map[string]any{"transaction_id": cartID, "food_id": foodID, "qty": qty}
	var cart Cart
	if err := c.do(ctx, http.MethodPut, "/api/v1/cart/update", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveCartItem deletes a line from the open cart.
func (c *Client) RemoveCartItem(ctx context.Context, cartID, foodID uuid.UUID) (*Cart, error) {
	body := map[string]any{"transaction_id": cartID, "food_id": foodID}
	var cart Cart
	if err := c.do(ctx, http.MethodDelete, "/api/v1/cart/remove", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// PlaceOrder commits the open cart into an order.
func (c *Client) PlaceOrder(ctx context.Context, cartID uuid.UUID, custID string) (*PlacedOrder, error) {
	body := map[string]any{"transaction_id": cartID, "cust_id": custID}
	var placed PlacedOrder
	if err := c.do(ctx, http.MethodPost, "/api/v1/cart/placeOrder", body, &placed); err != nil {
		return nil, err
	}
	return &placed, nil
}

// Orders returns the customer's order history, newest first.
func (c *Client) Orders(ctx context.Context, custID string) ([]HistoryRow, error) {
	var result struct {
		Orders []HistoryRow `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/user-orders/"+pathEscape(custID), nil, &result); err != nil {
		return nil, err
	}
	return result.Orders, nil
}
