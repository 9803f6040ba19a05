package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/slabworks/slabstock-backend/api/middleware"
	"github.com/slabworks/slabstock-backend/api/responses"
	"github.com/slabworks/slabstock-backend/api/validators"
	salesvc "github.com/slabworks/slabstock-backend/internal/sales"
	"github.com/slabworks/slabstock-backend/pkg/logger"
)

// SellItem handles POST /v1/items/{itemID}/sell.
func SellItem(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload salesvc.SellInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Sell(r.Context(), chi.URLParam(r, "itemID"), payload, middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// CancelItemSale handles POST /v1/items/{itemID}/cancel-sale.
func CancelItemSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := svc.CancelSale(r.Context(), chi.URLParam(r, "itemID"), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ListSoldItems handles GET /v1/sales with optional from/to date bounds.
func ListSoldItems(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sold, err := svc.ListSold(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sold)
	}
}
