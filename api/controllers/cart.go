package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tastebite/tastebite-backend/api/middleware"
	"github.com/tastebite/tastebite-backend/api/responses"
	"github.com/tastebite/tastebite-backend/api/validators"
	cartsvc "github.com/tastebite/tastebite-backend/internal/cart"
	pkgerrors "github.com/tastebite/tastebite-backend/pkg/errors"
	"github.com/tastebite/tastebite-backend/pkg/logger"
)

type addCartItemRequest struct {
	CustID string    `json:"cust_id" validate:"required"`
	FoodID uuid.UUID `json:"food_id" validate:"required"`
	Qty    int       `json:"qty" validate:"omitempty,min=1"`
}

type updateCartItemRequest struct {
	TransactionID uuid.UUID `json:"transaction_id" validate:"required"`
	FoodID        uuid.UUID `json:"food_id" validate:"required"`
	Qty           int       `json:"qty"`
}

type removeCartItemRequest struct {
	TransactionID uuid.UUID `json:"transaction_id" validate:"required"`
	FoodID        uuid.UUID `json:"food_id" validate:"required"`
}

// CartAddItem adds a dish to the caller's open cart, creating the cart on
// first use. A qty above one adds that many units in one step.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		custID := middleware.CustIDFromContext(r.Context())
		if custID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.CustID != custID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cart belongs to another customer"))
			return
		}

		qty := body.Qty
		if qty < 1 {
			qty = 1
		}
		view, err := svc.AddItem(r.Context(), custID, body.FoodID, qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CartUpdateItem sets the absolute quantity for a line. Quantities below one
// remove the line entirely.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		custID := middleware.CustIDFromContext(r.Context())
		if custID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SetQuantity(r.Context(), custID, body.TransactionID, body.FoodID, body.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CartRemoveItem deletes a line from the caller's open cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		custID := middleware.CustIDFromContext(r.Context())
		if custID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body removeCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.RemoveItem(r.Context(), custID, body.TransactionID, body.FoodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CartGet returns the customer's current cart snapshot.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		custID := middleware.CustIDFromContext(r.Context())
		if custID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		if pathCust := chi.URLParam(r, "custId"); pathCust != custID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cart belongs to another customer"))
			return
		}

		view, err := svc.GetCart(r.Context(), custID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}
