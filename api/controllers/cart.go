package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/smallwonder/storefront-api/api/responses"
	"github.com/smallwonder/storefront-api/api/validators"
	"github.com/smallwonder/storefront-api/internal/cart"
	"github.com/smallwonder/storefront-api/internal/commerce"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
)

const cartTokenHeader = "X-Cart-Token"

func cartToken(r *http.Request) (string, error) {
	token := strings.TrimSpace(r.Header.Get(cartTokenHeader))
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart token header is required")
	}
	return token, nil
}

// GetCart returns the cart with its locally derived price summary and
// product groups.
func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		token, err := cartToken(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Get(ctx, token)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type addCartItemRequest struct {
	CatalogItemID string            `json:"catalogItemId" validate:"required,max=128"`
	Variant       map[string]string `json:"variant" validate:"omitempty,max=20"`
	Quantity      int               `json:"quantity" validate:"required,min=1,max=999"`
}

// AddCartItem adds a line to the cart and returns the refreshed view.
func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		token, err := cartToken(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req addCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.AddItem(ctx, token, commerce.AddItemRequest{
			CatalogItemID: req.CatalogItemID,
			Variant:       req.Variant,
			Quantity:      req.Quantity,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// RemoveCartItem deletes one line from the cart.
func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		token, err := cartToken(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lineItemID := chi.URLParam(r, "lineItemId")
		if lineItemID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line item id is required"))
			return
		}

		view, err := svc.RemoveItem(ctx, token, lineItemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0,max=999"`
}

// UpdateCartItem changes a line's quantity. Zero removes the line.
func UpdateCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		token, err := cartToken(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lineItemID := chi.URLParam(r, "lineItemId")
		if lineItemID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line item id is required"))
			return
		}

		var req updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.UpdateQuantity(ctx, token, lineItemID, *req.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type checkoutResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

// Checkout opens a hosted checkout session for the cart.
func Checkout(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		token, err := cartToken(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		redirectURL, err := svc.Checkout(ctx, token)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutResponse{RedirectURL: redirectURL})
	}
}
