package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tastebite/tastebite-backend/internal/cart"
	"github.com/tastebite/tastebite-backend/pkg/db/models"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartLoader interface {
	WithTx(tx *gorm.DB) cart.Repository
	FindOpenCart(ctx context.Context, custID string) (*models.Cart, error)
	ListLines(ctx context.Context, cartID uuid.UUID) ([]cart.LineRow, error)
	ClearLines(ctx context.Context, cartID uuid.UUID) error
}

type broadcaster interface {
	Publish(ctx context.Context, channel string, payload any) error
}

type notifier interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Repository defines persistence operations for committed orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	ConvertCart(ctx context.Context, cartID uuid.UUID) (int64, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, custID string) ([]SummaryRow, error)
}

// SummaryRow is one order joined with its line count.
type SummaryRow struct {
	ID          uuid.UUID       `gorm:"column:id"`
	Status      string          `gorm:"column:status"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount"`
	PlacedAt    time.Time       `gorm:"column:placed_at"`
	ItemCount   int             `gorm:"column:item_count"`
}
