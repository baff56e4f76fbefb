package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/smallwonder/storefront-api/internal/cart"
	"github.com/smallwonder/storefront-api/internal/commerce"
)

type stubCartService struct {
	token      string
	addReq     *commerce.AddItemRequest
	removedID  string
	updatedID  string
	updatedQty int
	view       *cart.View
	redirect   string
	err        error
}

func (s *stubCartService) Get(_ context.Context, token string) (*cart.View, error) {
	s.token = token
	return s.view, s.err
}

func (s *stubCartService) AddItem(_ context.Context, token string, req commerce.AddItemRequest) (*cart.View, error) {
	s.token = token
	s.addReq = &req
	return s.view, s.err
}

func (s *stubCartService) RemoveItem(_ context.Context, token, lineItemID string) (*cart.View, error) {
	s.token = token
	s.removedID = lineItemID
	return s.view, s.err
}

func (s *stubCartService) UpdateQuantity(_ context.Context, token, lineItemID string, quantity int) (*cart.View, error) {
	s.token = token
	s.updatedID = lineItemID
	s.updatedQty = quantity
	return s.view, s.err
}

func (s *stubCartService) Checkout(_ context.Context, token string) (string, error) {
	s.token = token
	return s.redirect, s.err
}

func cartRouter(svc cart.Service) http.Handler {
	logg := testCtrlLogger()
	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(c chi.Router) {
		c.Get("/", GetCart(svc, logg))
		c.Post("/items", AddCartItem(svc, logg))
		c.Delete("/items/{lineItemId}", RemoveCartItem(svc, logg))
		c.Patch("/items/{lineItemId}", UpdateCartItem(svc, logg))
	})
	r.Post("/api/v1/checkout", Checkout(svc, logg))
	return r
}

func TestGetCartRequiresToken(t *testing.T) {
	svc := &stubCartService{view: &cart.View{}}
	handler := cartRouter(svc)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, svc.token)
}

func TestAddCartItemForwardsRequest(t *testing.T) {
	svc := &stubCartService{view: &cart.View{}}
	handler := cartRouter(svc)

	body := `{"catalogItemId":"prod-1","quantity":2,"variant":{"color":"mint"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("X-Cart-Token", "cart-token-7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "cart-token-7", svc.token)
	require.NotNil(t, svc.addReq)
	require.Equal(t, "prod-1", svc.addReq.CatalogItemID)
	require.Equal(t, 2, svc.addReq.Quantity)
	require.Equal(t, "mint", svc.addReq.Variant["color"])
}

func TestAddCartItemRejectsZeroQuantity(t *testing.T) {
	svc := &stubCartService{view: &cart.View{}}
	handler := cartRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"catalogItemId":"prod-1","quantity":0}`))
	req.Header.Set("X-Cart-Token", "cart-token-7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Nil(t, svc.addReq)
}

func TestUpdateCartItemAllowsZero(t *testing.T) {
	svc := &stubCartService{view: &cart.View{}}
	handler := cartRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/line-3", strings.NewReader(`{"quantity":0}`))
	req.Header.Set("X-Cart-Token", "cart-token-7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "line-3", svc.updatedID)
	require.Equal(t, 0, svc.updatedQty)
}

func TestCheckoutReturnsRedirect(t *testing.T) {
	svc := &stubCartService{redirect: "https://pay.example.com/session/xyz"}
	handler := cartRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("X-Cart-Token", "cart-token-7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data checkoutResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "https://pay.example.com/session/xyz", envelope.Data.RedirectURL)
}

func TestRemoveCartItemForwardsID(t *testing.T) {
	svc := &stubCartService{view: &cart.View{}}
	handler := cartRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/line-9", nil)
	req.Header.Set("X-Cart-Token", "cart-token-7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "line-9", svc.removedID)
}
