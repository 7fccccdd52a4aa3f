package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastebite/tastebite-backend/internal/menu"
	"github.com/tastebite/tastebite-backend/pkg/db"
	pkgerrors "github.com/tastebite/tastebite-backend/pkg/errors"
)

func newCartService(t *testing.T) (Service, *serviceFixture) {
	t.Helper()

	conn := setupCartTestDB(t)
	client := db.NewWithConn(conn)
	svc, err := NewService(NewRepository(conn), client, menu.NewRepository(conn))
	require.NoError(t, err)
	return svc, &serviceFixture{t: t, conn: client}
}

type serviceFixture struct {
	t    *testing.T
	conn *db.Client
}

func TestAddItemCreatesCartLazily(t *testing.T) {
	svc, fx := newCartService(t)
	ctx := context.Background()

	dosa := mustCreateFood(t, fx.conn.DB(), "Masala Dosa", "120.00")

	view, err := svc.GetCart(ctx, "NS101")
	require.NoError(t, err)
	assert.Nil(t, view.CartID)
	assert.Empty(t, view.Items)

	view, err = svc.AddItem(ctx, "NS101", dosa.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, view.CartID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Qty)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("120")))
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	svc, fx := newCartService(t)
	ctx := context.Background()

	dosa := mustCreateFood(t, fx.conn.DB(), "Masala Dosa", "120.00")

	_, err := svc.AddItem(ctx, "NS101", dosa.ID, 1)
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, "NS101", dosa.ID, 1)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Qty)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("240")))
	assert.Equal(t, 2, view.ItemCount)
}

func TestAddItemWithQtyIncrementsByAmount(t *testing.T) {
	svc, fx := newCartService(t)
	ctx := context.Background()

	dosa := mustCreateFood(t, fx.conn.DB(), "Masala Dosa", "120.00")

	_, err := svc.AddItem(ctx, "NS101", dosa.ID, 3)
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, "NS101", dosa.ID, 2)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Qty, "adding onto an existing line increments, never overwrites")
	assert.True(t, view.Total.Equal(decimal.RequireFromString("600")))
}

func TestSetQuantityWritesAbsoluteValue(t *testing.T) {
	svc, fx := newCartService(t)
	ctx := context.Background()

	dosa := mustCreateFood(t, fx.conn.DB(), "Masala Dosa", "120.00")

	view, err := svc.AddItem(ctx, "NS101", dosa.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, view.CartID)
	cartID := *view.CartID

	view, err = svc.SetQuantity(ctx, "NS101", cartID, dosa.ID, 5)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Qty)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("600")))
}

func TestSetQuantityBelowOneRemovesLine(t *testing.T) {
	svc, fx := newCartService(t)
	ctx := context.Background()

	dosa := mustCreateFood(t, fx.conn.DB(), "Masala Dosa", "120.00")
	naan := mustCreateFood(t, fx.conn.DB(), "Butter Naan", "45.00")

	_, err := svc.AddItem(ctx, "NS101", dosa.ID, 1)
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, "NS101", naan.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, view.CartID)
	cartID := *view.CartID

	view, err = svc.SetQuantity(ctx, "NS101", cartID, dosa.ID, 0)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, naan.ID, view.Items[0].FoodID)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("45")))
}

func TestSetQuantityMissingLineReturnsNotFound(t *testing.T) {
	svc, fx := newCartService(t)
	ctx := context.Background()

	dosa := mustCreateFood(t, fx.conn.DB(), "Masala Dosa", "120.00")
	naan := mustCreateFood(t, fx.conn.DB(), "Butter Naan", "45.00")

	view, err := svc.AddItem(ctx, "NS101", dosa.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, view.CartID)

	_, err = svc.SetQuantity(ctx, "NS101", *view.CartID, naan.ID, 2)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSetQuantityRejectsForeignCartID(t *testing.T) {
	svc, fx := newCartService(t)
	ctx := context.Background()

	dosa := mustCreateFood(t, fx.conn.DB(), "Masala Dosa", "120.00")

	_, err := svc.AddItem(ctx, "NS101", dosa.ID, 1)
	require.NoError(t, err)

	_, err = svc.SetQuantity(ctx, "NS101", uuid.New(), dosa.ID, 4)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	view, err := svc.GetCart(ctx, "NS101")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Qty, "mismatched cart id must not mutate the open cart")
}

func TestRemoveItemRecomputesTotal(t *testing.T) {
	svc, fx := newCartService(t)
	ctx := context.Background()

	dosa := mustCreateFood(t, fx.conn.DB(), "Masala Dosa", "120.00")
	naan := mustCreateFood(t, fx.conn.DB(), "Butter Naan", "45.00")

	_, err := svc.AddItem(ctx, "NS101", dosa.ID, 1)
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, "NS101", naan.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, view.CartID)
	cartID := *view.CartID

	view, err = svc.RemoveItem(ctx, "NS101", cartID, dosa.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("45")))
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	svc, fx := newCartService(t)
	ctx := context.Background()

	dosa := mustCreateFood(t, fx.conn.DB(), "Masala Dosa", "120.00")

	view, err := svc.AddItem(ctx, "NS101", dosa.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, view.CartID)
	cartID := *view.CartID

	view, err = svc.RemoveItem(ctx, "NS101", cartID, dosa.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())

	view, err = svc.RemoveItem(ctx, "NS101", cartID, dosa.ID)
	require.NoError(t, err, "removing an absent line is a no-op")
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
}

func TestRemoveItemWithoutCartIsNoOp(t *testing.T) {
	svc, fx := newCartService(t)
	ctx := context.Background()

	dosa := mustCreateFood(t, fx.conn.DB(), "Masala Dosa", "120.00")

	view, err := svc.RemoveItem(ctx, "NS101", uuid.New(), dosa.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
}

func TestRemoveItemRejectsForeignCartID(t *testing.T) {
	svc, fx := newCartService(t)
	ctx := context.Background()

	dosa := mustCreateFood(t, fx.conn.DB(), "Masala Dosa", "120.00")

	_, err := svc.AddItem(ctx, "NS101", dosa.ID, 1)
	require.NoError(t, err)

	_, err = svc.RemoveItem(ctx, "NS101", uuid.New(), dosa.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAddUnknownFoodReturnsNotFound(t *testing.T) {
	svc, _ := newCartService(t)

	_, err := svc.AddItem(context.Background(), "NS101", uuid.New(), 1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAddInactiveFoodRejected(t *testing.T) {
	svc, fx := newCartService(t)
	ctx := context.Background()

	stale := mustCreateFood(t, fx.conn.DB(), "Retired Dish", "99.00")
	require.NoError(t, fx.conn.DB().Exec(`UPDATE food_items SET is_active = 0 WHERE id = ?`, stale.ID).Error)

	_, err := svc.AddItem(ctx, "NS101", stale.ID, 1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCartsAreIsolatedPerCustomer(t *testing.T) {
	svc, fx := newCartService(t)
	ctx := context.Background()

	dosa := mustCreateFood(t, fx.conn.DB(), "Masala Dosa", "120.00")

	_, err := svc.AddItem(ctx, "NS101", dosa.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "NS102", dosa.ID, 1)
	require.NoError(t, err)

	first, err := svc.GetCart(ctx, "NS101")
	require.NoError(t, err)
	second, err := svc.GetCart(ctx, "NS102")
	require.NoError(t, err)

	require.NotNil(t, first.CartID)
	require.NotNil(t, second.CartID)
	assert.NotEqual(t, *first.CartID, *second.CartID)
	assert.Equal(t, 1, first.ItemCount)
	assert.Equal(t, 1, second.ItemCount)
}
