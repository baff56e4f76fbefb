package catalog

import (
	"context"
	"strings"

	"github.com/smallwonder/storefront-api/internal/commerce"
	"github.com/smallwonder/storefront-api/pkg/errors"
)

// Backend is the slice of the commerce client the catalog service needs.
type Backend interface {
	QueryProducts(ctx context.Context, query commerce.ProductQuery) (*commerce.ProductPage, error)
	GetProduct(ctx context.Context, slug string) (*commerce.Product, error)
	GetCollection(ctx context.Context, slug string) (*commerce.Collection, error)
}

type Service interface {
	Query(ctx context.Context, query commerce.ProductQuery) (*commerce.ProductPage, error)
	Product(ctx context.Context, slug string) (*commerce.Product, error)
	Collection(ctx context.Context, slug string) (*commerce.Collection, error)
}

const (
	defaultPageLimit = 24
	maxPageLimit     = 100
)

type service struct {
	backend Backend
}

func NewService(backend Backend) (Service, error) {
	if backend == nil {
		return nil, errors.New(errors.CodeInternal, "commerce backend is required")
	}
	return &service{backend: backend}, nil
}

func (s *service) Query(ctx context.Context, query commerce.ProductQuery) (*commerce.ProductPage, error) {
	if query.Limit <= 0 {
		query.Limit = defaultPageLimit
	}
	if query.Limit > maxPageLimit {
		query.Limit = maxPageLimit
	}
	if query.Skip < 0 {
		query.Skip = 0
	}
	if query.MinPrice != nil && query.MaxPrice != nil && query.MinPrice.GreaterThan(*query.MaxPrice) {
		return nil, errors.New(errors.CodeValidation, "minPrice cannot exceed maxPrice")
	}
	return s.backend.QueryProducts(ctx, query)
}

func (s *service) Product(ctx context.Context, slug string) (*commerce.Product, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, errors.New(errors.CodeValidation, "product slug is required")
	}
	return s.backend.GetProduct(ctx, slug)
}

// Collection hides invisible collections behind the same not-found response
// as unknown slugs.
func (s *service) Collection(ctx context.Context, slug string) (*commerce.Collection, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, errors.New(errors.CodeValidation, "collection slug is required")
	}
	collection, err := s.backend.GetCollection(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !collection.Visible {
		return nil, errors.New(errors.CodeNotFound, "collection not found")
	}
	return collection, nil
}
