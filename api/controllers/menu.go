package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tastebite/tastebite-backend/api/responses"
	"github.com/tastebite/tastebite-backend/internal/menu"
	"github.com/tastebite/tastebite-backend/pkg/db/models"
	pkgerrors "github.com/tastebite/tastebite-backend/pkg/errors"
	"github.com/tastebite/tastebite-backend/pkg/logger"
)

type foodItemResponse struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Rating   *float64        `json:"rating,omitempty"`
	ImageURL *string         `json:"image_url,omitempty"`
}

func newFoodItemResponse(item models.FoodItem) foodItemResponse {
	return foodItemResponse{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Rating:   item.Rating,
		ImageURL: item.ImageURL,
	}
}

// MenuList returns every active dish on the menu.
func MenuList(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := make([]foodItemResponse, 0, len(items))
		for _, item := range items {
			resp = append(resp, newFoodItemResponse(item))
		}
		responses.WriteSuccess(w, map[string]any{"items": resp})
	}
}

// MenuItem returns a single dish by id.
func MenuItem(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		foodID, err := uuid.Parse(chi.URLParam(r, "foodId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid food id"))
			return
		}

		item, err := svc.Get(r.Context(), foodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newFoodItemResponse(*item))
	}
}
