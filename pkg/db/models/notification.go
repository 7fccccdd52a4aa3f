package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a per-customer event row, currently only written when an
// order is placed. Delivery is best-effort; nothing in the ordering flow
// depends on these rows existing.
type Notification struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustID    string     `gorm:"column:cust_id;not null;index"`
	Kind      string     `gorm:"column:kind;not null"`
	Message   string     `gorm:"column:message;not null"`
	OrderID   *uuid.UUID `gorm:"column:order_id;type:uuid"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Notification) TableName() string { return "notifications" }
