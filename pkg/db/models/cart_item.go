package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one (food item, quantity) line inside a Cart. The pair
// (cart_id, food_id) is unique; a repeated add increments Qty instead of
// inserting a second row.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_food"`
	FoodID    uuid.UUID `gorm:"column:food_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_food"`
	Qty       int       `gorm:"column:qty;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartItem) TableName() string { return "cart_items" }
