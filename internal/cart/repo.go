package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tastebite/tastebite-backend/pkg/db/models"
	"github.com/tastebite/tastebite-backend/pkg/enums"
)

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindOpenCart(ctx context.Context, custID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("cust_id = ? AND status = ?", custID, enums.CartStatusOpen).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repositoryImpl) CreateCart(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *repositoryImpl) FindItem(ctx context.Context, cartID, foodID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND food_id = ?", cartID, foodID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repositoryImpl) UpdateItemQty(ctx context.Context, itemID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		UpdateColumn("qty", qty).Error
}

func (r *repositoryImpl) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.CartItem{}).Error
}

// ClearLines deletes every line item belonging to the cart.
func (r *repositoryImpl) ClearLines(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

// RecomputeTotal rewrites cart_total from the line items joined to the
// catalog prices, then returns the stored value. Runs inside the same
// transaction as the line mutation that triggered it.
func (r *repositoryImpl) RecomputeTotal(ctx context.Context, cartID uuid.UUID) (decimal.Decimal, error) {
	err := r.db.WithContext(ctx).Exec(`
UPDATE carts
SET cart_total = COALESCE((
    SELECT SUM(ci.qty * f.price)
    FROM cart_items ci
    JOIN food_items f ON f.id = ci.food_id
    WHERE ci.cart_id = carts.id
), 0)
WHERE id = ?`, cartID).Error
	if err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	err = r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Pluck("cart_total", &total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *repositoryImpl) ListLines(ctx context.Context, cartID uuid.UUID) ([]LineRow, error) {
	var lines []LineRow
	err := r.db.WithContext(ctx).
		Table("cart_items ci").
		Select("ci.food_id AS food_id, f.name AS name, f.price AS unit_price, ci.qty AS qty").
		Joins("JOIN food_items f ON f.id = ci.food_id").
		Where("ci.cart_id = ?", cartID).
		Order("ci.created_at ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
