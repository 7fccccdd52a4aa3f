package models

import "time"

// Customer is the canonical identity entity. The primary key is the
// human-facing id in the "NS<number>" format, allocated at signup.
type Customer struct {
	CustID       string    `gorm:"column:cust_id;primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	MobileNo     *string   `gorm:"column:mobile_no"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's default pluralization.
func (Customer) TableName() string { return "customers" }
