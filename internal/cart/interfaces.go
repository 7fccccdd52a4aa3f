package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tastebite/tastebite-backend/pkg/db/models"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Repository defines persistence operations for carts and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOpenCart(ctx context.Context, custID string) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) error
	FindItem(ctx context.Context, cartID, foodID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQty(ctx context.Context, itemID uuid.UUID, qty int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	ClearLines(ctx context.Context, cartID uuid.UUID) error
	RecomputeTotal(ctx context.Context, cartID uuid.UUID) (decimal.Decimal, error)
	ListLines(ctx context.Context, cartID uuid.UUID) ([]LineRow, error)
}

// LineRow joins one cart line with its catalog entry.
type LineRow struct {
	FoodID    uuid.UUID       `gorm:"column:food_id"`
	Name      string          `gorm:"column:name"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price"`
	Qty       int             `gorm:"column:qty"`
}
