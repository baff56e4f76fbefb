package orders

import (
	"context"
	"strings"

	"github.com/smallwonder/storefront-api/internal/commerce"
	"github.com/smallwonder/storefront-api/pkg/errors"
)

// Backend is the slice of the commerce client the orders service needs.
type Backend interface {
	SearchOrders(ctx context.Context, contactID string) ([]commerce.Order, error)
	GetOrder(ctx context.Context, orderID string) (*commerce.Order, error)
}

type Service interface {
	ListForContact(ctx context.Context, contactID string) ([]commerce.Order, error)
	Get(ctx context.Context, contactID, orderID string) (*commerce.Order, error)
}

type service struct {
	backend Backend
}

func NewService(backend Backend) (Service, error) {
	if backend == nil {
		return nil, errors.New(errors.CodeInternal, "commerce backend is required")
	}
	return &service{backend: backend}, nil
}

func (s *service) ListForContact(ctx context.Context, contactID string) ([]commerce.Order, error) {
	if strings.TrimSpace(contactID) == "" {
		return nil, errors.New(errors.CodeUnauthorized, "member session required")
	}
	return s.backend.SearchOrders(ctx, contactID)
}

// Get fetches one order and confirms it belongs to the requesting member's
// contact. A foreign order reads as not found, never as forbidden, to avoid
// confirming its existence.
func (s *service) Get(ctx context.Context, contactID, orderID string) (*commerce.Order, error) {
	if strings.TrimSpace(contactID) == "" {
		return nil, errors.New(errors.CodeUnauthorized, "member session required")
	}
	order, err := s.backend.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerContactID != contactID {
		return nil, errors.New(errors.CodeNotFound, "order not found")
	}
	return order, nil
}
