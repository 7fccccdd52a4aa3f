package orders

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastebite/tastebite-backend/internal/cart"
	"github.com/tastebite/tastebite-backend/pkg/db"
	"github.com/tastebite/tastebite-backend/pkg/db/models"
	"github.com/tastebite/tastebite-backend/pkg/enums"
	pkgerrors "github.com/tastebite/tastebite-backend/pkg/errors"
)

type capturingBroadcaster struct {
	mu       sync.Mutex
	messages map[string][][]byte
	err      error
}

func (c *capturingBroadcaster) Publish(ctx context.Context, channel string, payload any) error {
	if c.err != nil {
		return c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.messages == nil {
		c.messages = make(map[string][][]byte)
	}
	c.messages[channel] = append(c.messages[channel], payload.([]byte))
	return nil
}

type capturingNotifier struct {
	notes []*models.Notification
	err   error
}

func (c *capturingNotifier) Create(ctx context.Context, notification *models.Notification) error {
	if c.err != nil {
		return c.err
	}
	c.notes = append(c.notes, notification)
	return nil
}

type orderServiceFixture struct {
	svc    Service
	client *db.Client
	events *capturingBroadcaster
	notes  *capturingNotifier
}

func newOrderService(t *testing.T) *orderServiceFixture {
	t.Helper()

	conn := setupOrdersTestDB(t)
	client := db.NewWithConn(conn)
	events := &capturingBroadcaster{}
	notes := &capturingNotifier{}

	cartRepo := cart.NewRepository(conn)
	svc, err := NewService(NewRepository(conn), cartRepo, client, events, notes, nil, "orders:placed")
	require.NoError(t, err)

	return &orderServiceFixture{svc: svc, client: client, events: events, notes: notes}
}

func seedOpenCart(t *testing.T, fx *orderServiceFixture, custID string) *models.Cart {
	t.Helper()
	conn := fx.client.DB()

	dosa := &models.FoodItem{ID: uuid.New(), Name: "Masala Dosa", Price: decimal.RequireFromString("120.00"), IsActive: true}
	naan := &models.FoodItem{ID: uuid.New(), Name: "Butter Naan", Price: decimal.RequireFromString("45.00"), IsActive: true}
	require.NoError(t, conn.Create(dosa).Error)
	require.NoError(t, conn.Create(naan).Error)

	cartRow := &models.Cart{ID: uuid.New(), CustID: custID, CartTotal: decimal.RequireFromString("285.00")}
	require.NoError(t, conn.Create(cartRow).Error)
	require.NoError(t, conn.Create(&models.CartItem{ID: uuid.New(), CartID: cartRow.ID, FoodID: dosa.ID, Qty: 2}).Error)
	require.NoError(t, conn.Create(&models.CartItem{ID: uuid.New(), CartID: cartRow.ID, FoodID: naan.ID, Qty: 1}).Error)
	return cartRow
}

func TestPlaceOrderFromCartCommitsAtomically(t *testing.T) {
	fx := newOrderService(t)
	ctx := context.Background()

	cartRow := seedOpenCart(t, fx, "NS101")

	placed, err := fx.svc.PlaceOrderFromCart(ctx, "NS101", cartRow.ID)
	require.NoError(t, err)

	assert.Equal(t, cartRow.ID, placed.OrderID, "order id reuses the cart id")
	assert.True(t, placed.TotalAmount.Equal(decimal.RequireFromString("285")), "got %s", placed.TotalAmount)
	assert.Equal(t, 3, placed.ItemCount)
	assert.Equal(t, enums.OrderStatusPending, placed.Status)

	var status string
	require.NoError(t, fx.client.DB().Raw(`SELECT status FROM carts WHERE id = ?`, cartRow.ID).Scan(&status).Error)
	assert.Equal(t, "converted", status)

	var itemCount int64
	require.NoError(t, fx.client.DB().Raw(`SELECT COUNT(*) FROM order_items WHERE order_id = ?`, cartRow.ID).Scan(&itemCount).Error)
	assert.EqualValues(t, 2, itemCount)

	// the commit must leave the cart emptied, not just closed
	var leftoverLines int64
	require.NoError(t, fx.client.DB().Raw(`SELECT COUNT(*) FROM cart_items WHERE cart_id = ?`, cartRow.ID).Scan(&leftoverLines).Error)
	assert.EqualValues(t, 0, leftoverLines, "cart lines survive the commit")

	var cartTotal decimal.Decimal
	require.NoError(t, fx.client.DB().Raw(`SELECT cart_total FROM carts WHERE id = ?`, cartRow.ID).Scan(&cartTotal).Error)
	assert.True(t, cartTotal.IsZero(), "cart total not reset, got %s", cartTotal)
}

func TestPlaceOrderEmptyCartRejected(t *testing.T) {
	fx := newOrderService(t)
	ctx := context.Background()

	empty := &models.Cart{ID: uuid.New(), CustID: "NS101", CartTotal: decimal.Zero}
	require.NoError(t, fx.client.DB().Create(empty).Error)

	_, err := fx.svc.PlaceOrderFromCart(ctx, "NS101", empty.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeEmptyCart, typed.Code())

	var orderCount int64
	require.NoError(t, fx.client.DB().Raw(`SELECT COUNT(*) FROM orders`).Scan(&orderCount).Error)
	assert.EqualValues(t, 0, orderCount, "empty cart must not leave a partial order")
}

func TestPlaceOrderMismatchedCartIDRejected(t *testing.T) {
	fx := newOrderService(t)
	ctx := context.Background()

	seedOpenCart(t, fx, "NS101")

	_, err := fx.svc.PlaceOrderFromCart(ctx, "NS101", uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestPlaceOrderTwiceRejected(t *testing.T) {
	fx := newOrderService(t)
	ctx := context.Background()

	cartRow := seedOpenCart(t, fx, "NS101")

	_, err := fx.svc.PlaceOrderFromCart(ctx, "NS101", cartRow.ID)
	require.NoError(t, err)

	_, err = fx.svc.PlaceOrderFromCart(ctx, "NS101", cartRow.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code(), "converted cart no longer resolves as open")
}

func TestPlaceOrderAnnouncesAfterCommit(t *testing.T) {
	fx := newOrderService(t)
	ctx := context.Background()

	cartRow := seedOpenCart(t, fx, "NS101")

	placed, err := fx.svc.PlaceOrderFromCart(ctx, "NS101", cartRow.ID)
	require.NoError(t, err)

	require.Len(t, fx.notes.notes, 1)
	note := fx.notes.notes[0]
	assert.Equal(t, "NS101", note.CustID)
	assert.Equal(t, NotificationKindOrderPlaced, note.Kind)
	require.NotNil(t, note.OrderID)
	assert.Equal(t, placed.OrderID, *note.OrderID)

	published := fx.events.messages["orders:placed"]
	require.Len(t, published, 1)
	var event PlacedEvent
	require.NoError(t, json.Unmarshal(published[0], &event))
	assert.Equal(t, placed.OrderID, event.OrderID)
	assert.Equal(t, 3, event.ItemCount)
}

func TestPlaceOrderSurvivesAnnounceFailure(t *testing.T) {
	fx := newOrderService(t)
	ctx := context.Background()

	fx.events.err = assert.AnError
	fx.notes.err = assert.AnError

	cartRow := seedOpenCart(t, fx, "NS101")

	placed, err := fx.svc.PlaceOrderFromCart(ctx, "NS101", cartRow.ID)
	require.NoError(t, err, "broadcast failures must not fail the commit")
	assert.Equal(t, cartRow.ID, placed.OrderID)
}

func TestListOrdersRendersLabels(t *testing.T) {
	fx := newOrderService(t)
	ctx := context.Background()

	cartRow := seedOpenCart(t, fx, "NS101")
	_, err := fx.svc.PlaceOrderFromCart(ctx, "NS101", cartRow.ID)
	require.NoError(t, err)

	rows, err := fx.svc.ListOrders(ctx, "NS101")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, cartRow.ID, row.OrderID)
	assert.Equal(t, 3, row.ItemCount)
	assert.Equal(t, "3 items", row.ItemsLabel)
	assert.Equal(t, "₹285", row.AmountLabel)
	assert.Equal(t, row.PlacedAt.Format("2006-01-02 at 03:04 PM"), row.PlacedLabel)
	assert.Equal(t, enums.OrderStatusPending, row.Status)
}

func TestNormalizeStatusDefaultsToDelivered(t *testing.T) {
	assert.Equal(t, enums.OrderStatusDelivered, NormalizeStatus(""))
	assert.Equal(t, enums.OrderStatusDelivered, NormalizeStatus("archived"))
	assert.Equal(t, enums.OrderStatusConfirmed, NormalizeStatus("confirmed"))
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "₹1,375", formatAmountLabel(decimal.RequireFromString("1375")))
	assert.Equal(t, "₹285", formatAmountLabel(decimal.RequireFromString("285.40")))
	assert.Equal(t, "₹1,234,568", formatAmountLabel(decimal.RequireFromString("1234567.80")))
}
