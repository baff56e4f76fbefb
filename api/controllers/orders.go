package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smallwonder/storefront-api/api/middleware"
	"github.com/smallwonder/storefront-api/api/responses"
	"github.com/smallwonder/storefront-api/internal/orders"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
)

// ListOrders returns the signed-in member's order history.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		claims := middleware.MemberFromContext(ctx)
		if claims == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "member session required"))
			return
		}

		list, err := svc.ListForContact(ctx, claims.ContactID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// GetOrder returns one of the member's orders. Someone else's order reads
// as missing.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		claims := middleware.MemberFromContext(ctx)
		if claims == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "member session required"))
			return
		}

		orderID := chi.URLParam(r, "orderId")
		if orderID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}

		order, err := svc.Get(ctx, claims.ContactID, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
