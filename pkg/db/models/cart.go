package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tastebite/tastebite-backend/pkg/enums"
)

// Cart holds the open, pre-commit item selection for one customer. At most
// one open cart exists per customer; CartTotal is derived from the line
// items and recomputed inside the same transaction as every line mutation.
type Cart struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustID    string           `gorm:"column:cust_id;not null;index"`
	CartTotal decimal.Decimal  `gorm:"column:cart_total;type:numeric(10,2);not null"`
	Status    enums.CartStatus `gorm:"column:status;not null;default:'open'"`
	Items     []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string { return "carts" }
