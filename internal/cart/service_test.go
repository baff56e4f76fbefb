package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/smallwonder/storefront-api/internal/commerce"
	"github.com/smallwonder/storefront-api/internal/pricing"
	"github.com/smallwonder/storefront-api/pkg/config"
)

type stubBackend struct {
	cart        *commerce.Cart
	checkoutURL string

	addItemCalls   int
	removeCalls    int
	updateCalls    int
	lastLineItemID string
	lastQuantity   int
	lastCartToken  string
}

func (s *stubBackend) GetCart(_ context.Context, cartToken string) (*commerce.Cart, error) {
	s.lastCartToken = cartToken
	return s.cart, nil
}

func (s *stubBackend) AddItem(_ context.Context, cartToken string, _ commerce.AddItemRequest) (*commerce.Cart, error) {
	s.addItemCalls++
	s.lastCartToken = cartToken
	return s.cart, nil
}

func (s *stubBackend) RemoveItem(_ context.Context, cartToken, lineItemID string) (*commerce.Cart, error) {
	s.removeCalls++
	s.lastCartToken = cartToken
	s.lastLineItemID = lineItemID
	return s.cart, nil
}

func (s *stubBackend) UpdateQuantity(_ context.Context, cartToken, lineItemID string, quantity int) (*commerce.Cart, error) {
	s.updateCalls++
	s.lastCartToken = cartToken
	s.lastLineItemID = lineItemID
	s.lastQuantity = quantity
	return s.cart, nil
}

func (s *stubBackend) CreateCheckout(_ context.Context, cartToken string) (*commerce.CheckoutSession, error) {
	s.lastCartToken = cartToken
	return &commerce.CheckoutSession{RedirectURL: s.checkoutURL}, nil
}

func testFeeRule(t *testing.T) pricing.FeeRule {
	t.Helper()
	return pricing.FlatFeeRule(config.ShippingConfig{FeeCountry: "IL", FlatFee: "30"})
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	if _, err := NewService(nil, testFeeRule(t)); err == nil {
		t.Fatal("expected error without backend")
	}
	if _, err := NewService(&stubBackend{}, nil); err == nil {
		t.Fatal("expected error without fee rule")
	}
}

func TestGetBuildsViewFromBackendCart(t *testing.T) {
	before := decimal.NewFromInt(20)
	backend := &stubBackend{
		cart: &commerce.Cart{
			ID: "cart-1",
			LineItems: []commerce.LineItem{
				{
					ID:            "A",
					RootProductID: "P1",
					ProductName:   "Organic Sleeper",
					Quantity:      1,
					UnitFullPrice: decimal.NewFromInt(20),
					UnitPrice:     decimal.NewFromInt(18),
				},
				{
					ID:                       "B",
					RootProductID:            "P1",
					ProductName:              "Organic Sleeper",
					Quantity:                 1,
					UnitFullPrice:            decimal.NewFromInt(20),
					UnitPriceBeforeDiscounts: &before,
					UnitPrice:                decimal.NewFromInt(16),
				},
			},
			AppliedDiscounts: []commerce.AppliedDiscount{
				{RuleName: "bundle", AmountOff: decimal.NewFromInt(4), AffectedLineItemIDs: []string{"B"}},
			},
		},
	}

	svc, err := NewService(backend, testFeeRule(t))
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	view, err := svc.Get(context.Background(), "cart-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.lastCartToken != "cart-1" {
		t.Fatalf("unexpected cart token %q", backend.lastCartToken)
	}
	if !view.Summary.GrandTotal.Equal(decimal.NewFromInt(34)) {
		t.Fatalf("unexpected grand total %s", view.Summary.GrandTotal)
	}
	if len(view.Groups) != 1 {
		t.Fatalf("unexpected group count %d", len(view.Groups))
	}
	group := view.Groups[0]
	if group.RootProductID != "P1" || group.TotalQuantity != 2 {
		t.Fatalf("unexpected group %+v", group)
	}
	if !group.TotalSaved.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("unexpected group savings %s", group.TotalSaved)
	}
}

func TestMutationsRebuildViewFromResponse(t *testing.T) {
	backend := &stubBackend{cart: &commerce.Cart{ID: "cart-1"}}
	svc, err := NewService(backend, testFeeRule(t))
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	view, err := svc.AddItem(context.Background(), "cart-1", commerce.AddItemRequest{CatalogItemID: "p1", Quantity: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.addItemCalls != 1 {
		t.Fatalf("expected one backend call, got %d", backend.addItemCalls)
	}
	if !view.Summary.Empty {
		t.Fatal("expected empty summary for empty cart response")
	}
}

func TestUpdateQuantityForwardsPositive(t *testing.T) {
	backend := &stubBackend{cart: &commerce.Cart{ID: "cart-1"}}
	svc, err := NewService(backend, testFeeRule(t))
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	if _, err := svc.UpdateQuantity(context.Background(), "cart-1", "line-1", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.updateCalls != 1 || backend.removeCalls != 0 {
		t.Fatalf("expected one update call, got update=%d remove=%d", backend.updateCalls, backend.removeCalls)
	}
	if backend.lastQuantity != 3 {
		t.Fatalf("unexpected quantity %d", backend.lastQuantity)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	backend := &stubBackend{cart: &commerce.Cart{ID: "cart-1"}}
	svc, err := NewService(backend, testFeeRule(t))
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	view, err := svc.UpdateQuantity(context.Background(), "cart-1", "line-1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.removeCalls != 1 || backend.updateCalls != 0 {
		t.Fatalf("expected removal, got update=%d remove=%d", backend.updateCalls, backend.removeCalls)
	}
	if backend.lastLineItemID != "line-1" {
		t.Fatalf("unexpected line item %q", backend.lastLineItemID)
	}
	if view == nil || !view.Summary.Empty {
		t.Fatal("expected rebuilt view for empty cart response")
	}
}

func TestCheckoutReturnsRedirectURL(t *testing.T) {
	backend := &stubBackend{checkoutURL: "https://checkout.example/session/1"}
	svc, err := NewService(backend, testFeeRule(t))
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	got, err := svc.Checkout(context.Background(), "cart-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://checkout.example/session/1" {
		t.Fatalf("unexpected redirect url %q", got)
	}
}
