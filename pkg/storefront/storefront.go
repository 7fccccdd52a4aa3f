// Package storefront keeps a client-side mirror of the server cart. Every
// mutation applies optimistically, calls the API, then re-fetches the
// authoritative snapshot so the mirror never drifts from the server.
package storefront

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tastebite/tastebite-backend/pkg/apiclient"
)

var (
	ErrNotLoggedIn = errors.New("storefront: not logged in")
	ErrNoCartID    = errors.New("storefront: cart has not been created yet")
	ErrCartEmpty   = errors.New("storefront: cart is empty")
)

const (
	etaBaseMinutes    = 20
	etaPerItemMinutes = 3
	etaPerItemCap     = 20
	etaVisibleWindow  = 120 * time.Minute
)

type cartAPI interface {
	Cart(ctx context.Context, custID string) (*apiclient.Cart, error)
	AddToCart(ctx context.Context, custID string, foodID uuid.UUID, qty int) (*apiclient.Cart, error)
	UpdateCartItem(ctx context.Context, cartID, foodID uuid.UUID, qty int) (*apiclient.Cart, error)
	RemoveCartItem(ctx context.Context, cartID, foodID uuid.UUID) (*apiclient.Cart, error)
	PlaceOrder(ctx context.Context, cartID uuid.UUID, custID string) (*apiclient.PlacedOrder, error)
	Orders(ctx context.Context, custID string) ([]apiclient.HistoryRow, error)
}

// Mirror holds the local cart state for one signed-in customer.
type Mirror struct {
	mu     sync.Mutex
	api    cartAPI
	custID string
	cart   apiclient.Cart
}

// NewMirror builds a mirror bound to the given customer. An empty custID
// yields a mirror that rejects every operation with ErrNotLoggedIn.
func NewMirror(api cartAPI, custID string) (*Mirror, error) {
	if api == nil {
		return nil, errors.New("storefront: api client required")
	}
	return &Mirror{
		api:    api,
		custID: custID,
		cart:   apiclient.Cart{CustID: custID, Items: []apiclient.CartLine{}},
	}, nil
}

// Snapshot returns a copy of the current local cart state.
func (m *Mirror) Snapshot() apiclient.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyCart(m.cart)
}

// Refresh replaces the local state with the server's snapshot.
func (m *Mirror) Refresh(ctx context.Context) error {
	if m.custID == "" {
		return ErrNotLoggedIn
	}
	cart, err := m.api.Cart(ctx, m.custID)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.cart = copyCart(*cart)
	m.mu.Unlock()
	return nil
}

// Add puts one unit of the dish in the cart. The local line increments
// immediately; the server snapshot fetched afterwards is authoritative
// whether or not the call succeeded.
func (m *Mirror) Add(ctx context.Context, foodID uuid.UUID) error {
	if m.custID == "" {
		return ErrNotLoggedIn
	}

	m.mu.Lock()
	m.applyIncrement(foodID)
	m.mu.Unlock()

	_, err := m.api.AddToCart(ctx, m.custID, foodID, 1)
	if refreshErr := m.Refresh(ctx); err == nil {
		err = refreshErr
	}
	return err
}

// Decrease lowers a line by one unit, removing the line when it would drop
// below one.
func (m *Mirror) Decrease(ctx context.Context, foodID uuid.UUID) error {
	if m.custID == "" {
		return ErrNotLoggedIn
	}

	m.mu.Lock()
	if m.cart.CartID == nil {
		m.mu.Unlock()
		return ErrNoCartID
	}
	cartID := *m.cart.CartID
	qty := m.lineQty(foodID)
	m.applyDecrement(foodID)
	m.mu.Unlock()

	var err error
	if qty <= 1 {
		_, err = m.api.RemoveCartItem(ctx, cartID, foodID)
	} else {
		_, err = m.api.UpdateCartItem(ctx, cartID, foodID, qty-1)
	}
	if refreshErr := m.Refresh(ctx); err == nil {
		err = refreshErr
	}
	return err
}

// Remove deletes a line outright.
func (m *Mirror) Remove(ctx context.Context, foodID uuid.UUID) error {
	if m.custID == "" {
		return ErrNotLoggedIn
	}

	m.mu.Lock()
	if m.cart.CartID == nil {
		m.mu.Unlock()
		return ErrNoCartID
	}
	cartID := *m.cart.CartID
	m.applyRemove(foodID)
	m.mu.Unlock()

	_, err := m.api.RemoveCartItem(ctx, cartID, foodID)
	if refreshErr := m.Refresh(ctx); err == nil {
		err = refreshErr
	}
	return err
}

// PlaceOrder commits the mirrored cart. The local guards fail fast; the
// server remains the final authority on cart contents.
func (m *Mirror) PlaceOrder(ctx context.Context) (*apiclient.PlacedOrder, error) {
	if m.custID == "" {
		return nil, ErrNotLoggedIn
	}

	m.mu.Lock()
	cartID := m.cart.CartID
	itemCount := m.cart.ItemCount
	m.mu.Unlock()

	if cartID == nil {
		return nil, ErrNoCartID
	}
	if itemCount == 0 {
		return nil, ErrCartEmpty
	}

	placed, err := m.api.PlaceOrder(ctx, *cartID, m.custID)
	if err != nil {
		return nil, err
	}

	// the commit emptied the server cart; clearing here means a failed
	// refresh leaves the mirror cleared, never showing pre-commit items
	m.mu.Lock()
	m.cart = apiclient.Cart{CustID: m.custID, Items: []apiclient.CartLine{}}
	m.mu.Unlock()

	_ = m.Refresh(ctx)
	return placed, nil
}

// Orders returns the order history projected for display. Confirmed orders
// placed within the last two hours carry a delivery estimate.
func (m *Mirror) Orders(ctx context.Context, now time.Time) ([]OrderView, error) {
	if m.custID == "" {
		return nil, ErrNotLoggedIn
	}

	rows, err := m.api.Orders(ctx, m.custID)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		views = append(views, projectRow(row, now))
	}
	return views, nil
}

func (m *Mirror) lineQty(foodID uuid.UUID) int {
	for _, line := range m.cart.Items {
		if line.FoodID == foodID {
			return line.Qty
		}
	}
	return 0
}

func (m *Mirror) applyIncrement(foodID uuid.UUID) {
	for i, line := range m.cart.Items {
		if line.FoodID == foodID {
			m.cart.Items[i].Qty++
			m.cart.ItemCount++
			return
		}
	}
	m.cart.Items = append(m.cart.Items, apiclient.CartLine{FoodID: foodID, Qty: 1})
	m.cart.ItemCount++
}

func (m *Mirror) applyDecrement(foodID uuid.UUID) {
	for i, line := range m.cart.Items {
		if line.FoodID != foodID {
			continue
		}
		if line.Qty <= 1 {
			m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
		} else {
			m.cart.Items[i].Qty--
		}
		if m.cart.ItemCount > 0 {
			m.cart.ItemCount--
		}
		return
	}
}

func (m *Mirror) applyRemove(foodID uuid.UUID) {
	for i, line := range m.cart.Items {
		if line.FoodID == foodID {
			m.cart.ItemCount -= line.Qty
			if m.cart.ItemCount < 0 {
				m.cart.ItemCount = 0
			}
			m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
			return
		}
	}
}

func copyCart(cart apiclient.Cart) apiclient.Cart {
	out := cart
	out.Items = make([]apiclient.CartLine, len(cart.Items))
	copy(out.Items, cart.Items)
	if cart.CartID != nil {
		id := *cart.CartID
		out.CartID = &id
	}
	return out
}
