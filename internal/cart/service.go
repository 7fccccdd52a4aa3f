package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tastebite/tastebite-backend/pkg/db/models"
	pkgerrors "github.com/tastebite/tastebite-backend/pkg/errors"
)

type foodLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error)
}

// Service exposes cart mutations and reads. Every mutation recomputes the
// cart total inside the same transaction, so a response never carries a
// stale total.
type Service interface {
	AddItem(ctx context.Context, custID string, foodID uuid.UUID, qty int) (*CartView, error)
	SetQuantity(ctx context.Context, custID string, cartID, foodID uuid.UUID, qty int) (*CartView, error)
	RemoveItem(ctx context.Context, custID string, cartID, foodID uuid.UUID) (*CartView, error)
	GetCart(ctx context.Context, custID string) (*CartView, error)
}

type service struct {
	repo Repository
	tx   txRunner
	food foodLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, food foodLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if food == nil {
		return nil, fmt.Errorf("food loader required")
	}
	return &service{repo: repo, tx: tx, food: food}, nil
}

// AddItem adds qty units of the food item, creating the cart on first use.
// An existing line increments by qty; quantities below one count as one.
func (s *service) AddItem(ctx context.Context, custID string, foodID uuid.UUID, qty int) (*CartView, error) {
	if err := validateIdentity(custID, foodID); err != nil {
		return nil, err
	}
	if qty < 1 {
		qty = 1
	}

	food, err := s.loadFood(ctx, foodID)
	if err != nil {
		return nil, err
	}

	var view *CartView
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := s.findOrCreateCart(ctx, repo, custID)
		if err != nil {
			return err
		}

		item, err := repo.FindItem(ctx, cart.ID, food.ID)
		switch {
		case err == nil:
			if err := repo.UpdateItemQty(ctx, item.ID, item.Qty+qty); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment cart line")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			line := &models.CartItem{ID: uuid.New(), CartID: cart.ID, FoodID: food.ID, Qty: qty}
			if err := repo.CreateItem(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
		}

		view, err = s.finishMutation(ctx, repo, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// SetQuantity writes an absolute quantity for the line in the cart the
// caller addressed. Any value below one removes the line entirely.
func (s *service) SetQuantity(ctx context.Context, custID string, cartID, foodID uuid.UUID, qty int) (*CartView, error) {
	if qty < 1 {
		return s.RemoveItem(ctx, custID, cartID, foodID)
	}
	if err := validateIdentity(custID, foodID); err != nil {
		return nil, err
	}
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}

	var view *CartView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, item, err := s.findCartLine(ctx, repo, custID, cartID, foodID)
		if err != nil {
			return err
		}
		if err := repo.UpdateItemQty(ctx, item.ID, qty); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}

		view, err = s.finishMutation(ctx, repo, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// RemoveItem deletes the line for the food item. Removal is idempotent: a
// line that is already gone, or a customer with no open cart at all, reads
// as success and returns the current snapshot.
func (s *service) RemoveItem(ctx context.Context, custID string, cartID, foodID uuid.UUID) (*CartView, error) {
	if err := validateIdentity(custID, foodID); err != nil {
		return nil, err
	}
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}

	var view *CartView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindOpenCart(ctx, custID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				view = &CartView{CustID: custID, Items: []CartLine{}, Total: decimal.Zero}
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if cart.ID != cartID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}

		item, err := repo.FindItem(ctx, cart.ID, foodID)
		switch {
		case err == nil:
			if err := repo.DeleteItem(ctx, item.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// already absent, nothing to delete
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
		}

		view, err = s.finishMutation(ctx, repo, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetCart returns the current snapshot. Customers without an open cart get
// an empty view; the cart row itself is created lazily on first add.
func (s *service) GetCart(ctx context.Context, custID string) (*CartView, error) {
	if strings.TrimSpace(custID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	cart, err := s.repo.FindOpenCart(ctx, custID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CartView{CustID: custID, Items: []CartLine{}, Total: decimal.Zero}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.buildView(ctx, s.repo, cart, cart.CartTotal)
}

func (s *service) loadFood(ctx context.Context, foodID uuid.UUID) (*models.FoodItem, error) {
	food, err := s.food.FindByID(ctx, foodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "food item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food item")
	}
	if !food.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food item is not available")
	}
	return food, nil
}

func (s *service) findOrCreateCart(ctx context.Context, repo Repository, custID string) (*models.Cart, error) {
	cart, err := repo.FindOpenCart(ctx, custID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	cart = &models.Cart{ID: uuid.New(), CustID: custID, CartTotal: decimal.Zero}
	if err := repo.CreateCart(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return cart, nil
}

// findCartLine resolves the caller's open cart and the addressed line. The
// supplied cart id must match the open cart, checked inside the same
// transaction as the mutation that follows.
func (s *service) findCartLine(ctx context.Context, repo Repository, custID string, cartID, foodID uuid.UUID) (*models.Cart, *models.CartItem, error) {
	cart, err := repo.FindOpenCart(ctx, custID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "no open cart")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if cart.ID != cartID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}

	item, err := repo.FindItem(ctx, cart.ID, foodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	return cart, item, nil
}

func (s *service) finishMutation(ctx context.Context, repo Repository, cart *models.Cart) (*CartView, error) {
	total, err := repo.RecomputeTotal(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recompute cart total")
	}
	return s.buildView(ctx, repo, cart, total)
}

func (s *service) buildView(ctx context.Context, repo Repository, cart *models.Cart, total decimal.Decimal) (*CartView, error) {
	lines, err := repo.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}

	view := &CartView{
		CartID: &cart.ID,
		CustID: cart.CustID,
		Items:  make([]CartLine, 0, len(lines)),
		Total:  total,
	}
	for _, line := range lines {
		view.Items = append(view.Items, CartLine{
			FoodID:    line.FoodID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Qty:       line.Qty,
			LineTotal: line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty))),
		})
		view.ItemCount += line.Qty
	}
	return view, nil
}

func validateIdentity(custID string, foodID uuid.UUID) error {
	if strings.TrimSpace(custID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if foodID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "food id is required")
	}
	return nil
}
