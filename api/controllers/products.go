package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/smallwonder/storefront-api/api/responses"
	"github.com/smallwonder/storefront-api/api/validators"
	"github.com/smallwonder/storefront-api/internal/catalog"
	"github.com/smallwonder/storefront-api/internal/commerce"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
)

// ListProducts queries the catalog with filtering, sorting and paging.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query, err := productQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := svc.Query(ctx, query)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// GetProduct returns one product by slug.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		slug := chi.URLParam(r, "slug")
		if slug == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required"))
			return
		}

		product, err := svc.Product(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// GetCollection returns one visible collection by slug.
func GetCollection(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		slug := chi.URLParam(r, "slug")
		if slug == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "collection slug is required"))
			return
		}

		collection, err := svc.Collection(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, collection)
	}
}

func productQuery(r *http.Request) (commerce.ProductQuery, error) {
	skip, err := validators.ParseQueryInt(r, "skip", 0, 0, 1000000)
	if err != nil {
		return commerce.ProductQuery{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
	if err != nil {
		return commerce.ProductQuery{}, err
	}

	query := commerce.ProductQuery{
		CollectionID: strings.TrimSpace(r.URL.Query().Get("collection")),
		NamePrefix:   strings.TrimSpace(r.URL.Query().Get("q")),
		ProductType:  strings.TrimSpace(r.URL.Query().Get("type")),
		SortField:    strings.TrimSpace(r.URL.Query().Get("sort")),
		SortAsc:      !strings.EqualFold(r.URL.Query().Get("order"), "desc"),
		Skip:         skip,
		Limit:        limit,
	}

	query.MinPrice, err = queryDecimal(r, "minPrice")
	if err != nil {
		return commerce.ProductQuery{}, err
	}
	query.MaxPrice, err = queryDecimal(r, "maxPrice")
	if err != nil {
		return commerce.ProductQuery{}, err
	}

	return query, nil
}

func queryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a decimal number").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}
