package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/smallwonder/storefront-api/internal/commerce"
	"github.com/smallwonder/storefront-api/internal/pricing"
	"github.com/smallwonder/storefront-api/pkg/errors"
)

// Backend is the slice of the commerce client the cart service needs.
type Backend interface {
	GetCart(ctx context.Context, cartToken string) (*commerce.Cart, error)
	AddItem(ctx context.Context, cartToken string, req commerce.AddItemRequest) (*commerce.Cart, error)
	RemoveItem(ctx context.Context, cartToken, lineItemID string) (*commerce.Cart, error)
	UpdateQuantity(ctx context.Context, cartToken, lineItemID string, quantity int) (*commerce.Cart, error)
	CreateCheckout(ctx context.Context, cartToken string) (*commerce.CheckoutSession, error)
}

type Service interface {
	Get(ctx context.Context, cartToken string) (*View, error)
	AddItem(ctx context.Context, cartToken string, req commerce.AddItemRequest) (*View, error)
	RemoveItem(ctx context.Context, cartToken, lineItemID string) (*View, error)
	UpdateQuantity(ctx context.Context, cartToken, lineItemID string, quantity int) (*View, error)
	Checkout(ctx context.Context, cartToken string) (string, error)
}

// View is the cart plus everything derived locally from it. Local state is
// always rebuilt wholesale from the backend's response, never patched.
type View struct {
	Cart    *commerce.Cart  `json:"cart"`
	Summary pricing.Summary `json:"summary"`
	Groups  []GroupView     `json:"groups"`
}

// GroupView is one product's combined display row, spanning its variants.
type GroupView struct {
	RootProductID string          `json:"rootProductId"`
	ProductName   string          `json:"productName"`
	TotalQuantity int             `json:"totalQuantity"`
	LineItemIDs   []string        `json:"lineItemIds"`
	TotalSaved    decimal.Decimal `json:"totalSaved"`
}

type service struct {
	backend Backend
	feeRule pricing.FeeRule
}

func NewService(backend Backend, feeRule pricing.FeeRule) (Service, error) {
	if backend == nil {
		return nil, errors.New(errors.CodeInternal, "commerce backend is required")
	}
	if feeRule == nil {
		return nil, errors.New(errors.CodeInternal, "shipping fee rule is required")
	}
	return &service{backend: backend, feeRule: feeRule}, nil
}

func (s *service) Get(ctx context.Context, cartToken string) (*View, error) {
	cart, err := s.backend.GetCart(ctx, cartToken)
	if err != nil {
		return nil, err
	}
	return s.buildView(cart), nil
}

func (s *service) AddItem(ctx context.Context, cartToken string, req commerce.AddItemRequest) (*View, error) {
	cart, err := s.backend.AddItem(ctx, cartToken, req)
	if err != nil {
		return nil, err
	}
	return s.buildView(cart), nil
}

func (s *service) RemoveItem(ctx context.Context, cartToken, lineItemID string) (*View, error) {
	cart, err := s.backend.RemoveItem(ctx, cartToken, lineItemID)
	if err != nil {
		return nil, err
	}
	return s.buildView(cart), nil
}

func (s *service) UpdateQuantity(ctx context.Context, cartToken, lineItemID string, quantity int) (*View, error) {
	// The backend only accepts positive quantities; zero means removal.
	if quantity <= 0 {
		return s.RemoveItem(ctx, cartToken, lineItemID)
	}
	cart, err := s.backend.UpdateQuantity(ctx, cartToken, lineItemID, quantity)
	if err != nil {
		return nil, err
	}
	return s.buildView(cart), nil
}

func (s *service) Checkout(ctx context.Context, cartToken string) (string, error) {
	session, err := s.backend.CreateCheckout(ctx, cartToken)
	if err != nil {
		return "", err
	}
	return session.RedirectURL, nil
}

func (s *service) buildView(cart *commerce.Cart) *View {
	index := pricing.BuildDiscountIndex(cart.AppliedDiscounts)
	summary := pricing.Summarize(cart, index, s.feeRule)

	groups := pricing.GroupByProduct(cart.LineItems)
	groupViews := make([]GroupView, 0, len(groups))
	for _, group := range groups {
		ids := make([]string, 0, len(group.Items))
		for _, item := range group.Items {
			ids = append(ids, item.ID)
		}
		groupViews = append(groupViews, GroupView{
			RootProductID: group.RootProductID,
			ProductName:   group.ProductName,
			TotalQuantity: group.TotalQuantity,
			LineItemIDs:   ids,
			TotalSaved:    pricing.GroupSavings(group, index),
		})
	}

	return &View{
		Cart:    cart,
		Summary: summary,
		Groups:  groupViews,
	}
}
