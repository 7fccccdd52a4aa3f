package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tastebite/tastebite-backend/pkg/db/models"
	"github.com/tastebite/tastebite-backend/pkg/enums"
	pkgerrors "github.com/tastebite/tastebite-backend/pkg/errors"
	"github.com/tastebite/tastebite-backend/pkg/logger"
)

const placedLabelLayout = "2006-01-02 at 03:04 PM"

// NotificationKindOrderPlaced tags rows written when an order commits.
const NotificationKindOrderPlaced = "order_placed"

// Service commits carts into orders and serves order history.
type Service interface {
	PlaceOrderFromCart(ctx context.Context, custID string, cartID uuid.UUID) (*PlacedOrder, error)
	ListOrders(ctx context.Context, custID string) ([]HistoryRow, error)
}

type service struct {
	repo    Repository
	carts   cartLoader
	tx      txRunner
	events  broadcaster
	notes   notifier
	logg    *logger.Logger
	channel string
}

// NewService builds an orders service backed by the provided stack. The
// broadcaster and notifier are optional; commits succeed without them.
func NewService(repo Repository, carts cartLoader, tx txRunner, events broadcaster, notes notifier, logg *logger.Logger, channel string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		carts:   carts,
		tx:      tx,
		events:  events,
		notes:   notes,
		logg:    logg,
		channel: channel,
	}, nil
}

// PlaceOrderFromCart atomically snapshots the open cart into an order, then
// empties and closes the cart in the same transaction. The order reuses the
// cart's id. Line prices are frozen from the catalog at commit time.
func (s *service) PlaceOrderFromCart(ctx context.Context, custID string, cartID uuid.UUID) (*PlacedOrder, error) {
	if strings.TrimSpace(custID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}

	var placed *PlacedOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		crepo := s.carts.WithTx(tx)
		orepo := s.repo.WithTx(tx)

		cartRow, err := crepo.FindOpenCart(ctx, custID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "no open cart")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if cartRow.ID != cartID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}

		lines, err := crepo.ListLines(ctx, cartRow.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no items")
		}

		now := time.Now().UTC()
		total := decimal.Zero
		itemCount := 0
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
			total = total.Add(lineTotal)
			itemCount += line.Qty
			items = append(items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   cartRow.ID,
				FoodID:    line.FoodID,
				Qty:       line.Qty,
				UnitPrice: line.UnitPrice,
			})
		}

		order := &models.Order{
			ID:          cartRow.ID,
			CustID:      custID,
			TotalAmount: total,
			Status:      enums.OrderStatusPending,
			PlacedAt:    now,
		}
		if err := orepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := orepo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		converted, err := orepo.ConvertCart(ctx, cartRow.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close cart")
		}
		if converted == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart already committed")
		}
		if err := crepo.ClearLines(ctx, cartRow.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart lines")
		}

		placed = &PlacedOrder{
			OrderID:     order.ID,
			CustID:      custID,
			TotalAmount: total,
			Status:      order.Status,
			PlacedAt:    now,
			ItemCount:   itemCount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.announce(ctx, placed)
	return placed, nil
}

// announce handles the post-commit side effects. Both are best-effort; a
// failure is logged and never surfaced to the caller.
func (s *service) announce(ctx context.Context, placed *PlacedOrder) {
	if s.notes != nil {
		orderID := placed.OrderID
		note := &models.Notification{
			ID:      uuid.New(),
			CustID:  placed.CustID,
			Kind:    NotificationKindOrderPlaced,
			Message: fmt.Sprintf("Order placed: %s for %s", formatItemsLabel(placed.ItemCount), formatAmountLabel(placed.TotalAmount)),
			OrderID: &orderID,
		}
		if err := s.notes.Create(ctx, note); err != nil && s.logg != nil {
			s.logg.Error(ctx, "write order notification", err)
		}
	}

	if s.events != nil && s.channel != "" {
		payload, err := json.Marshal(PlacedEvent{
			OrderID:     placed.OrderID,
			CustID:      placed.CustID,
			TotalAmount: placed.TotalAmount.StringFixed(2),
			ItemCount:   placed.ItemCount,
			PlacedAt:    placed.PlacedAt,
		})
		if err == nil {
			err = s.events.Publish(ctx, s.channel, payload)
		}
		if err != nil && s.logg != nil {
			s.logg.Error(ctx, "publish order placed event", err)
		}
	}
}

// ListOrders returns the customer's history, newest first, with the display
// labels already rendered.
func (s *service) ListOrders(ctx context.Context, custID string) ([]HistoryRow, error) {
	if strings.TrimSpace(custID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	rows, err := s.repo.ListByCustomer(ctx, custID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	history := make([]HistoryRow, 0, len(rows))
	for _, row := range rows {
		history = append(history, HistoryRow{
			OrderID:     row.ID,
			Status:      NormalizeStatus(row.Status),
			ItemCount:   row.ItemCount,
			TotalAmount: row.TotalAmount,
			PlacedAt:    row.PlacedAt,
			ItemsLabel:  formatItemsLabel(row.ItemCount),
			AmountLabel: formatAmountLabel(row.TotalAmount),
			PlacedLabel: row.PlacedAt.Format(placedLabelLayout),
		})
	}
	return history, nil
}

// NormalizeStatus maps stored status strings onto the known set. Unknown or
// blank values read as Delivered, matching how historical rows without a
// tracked status are displayed.
func NormalizeStatus(raw string) enums.OrderStatus {
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return enums.OrderStatusDelivered
	}
	return status
}

func formatItemsLabel(count int) string {
	return fmt.Sprintf("%d items", count)
}

func formatAmountLabel(total decimal.Decimal) string {
	return "₹" + groupThousands(total.StringFixed(0))
}

// groupThousands inserts comma separators into a non-negative integer string.
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
