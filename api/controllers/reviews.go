package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smallwonder/storefront-api/api/responses"
	"github.com/smallwonder/storefront-api/api/validators"
	"github.com/smallwonder/storefront-api/internal/reviews"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
	"github.com/smallwonder/storefront-api/pkg/pagination"
)

type addReviewRequest struct {
	Slug        string   `json:"slug" validate:"required,max=200"`
	Rating      int      `json:"rating" validate:"required,min=1,max=5"`
	Name        string   `json:"name" validate:"required,max=120"`
	Content     string   `json:"content" validate:"required,max=4000"`
	SkuInfo     string   `json:"skuInfo" validate:"omitempty,max=200"`
	Country     string   `json:"country" validate:"omitempty,max=64"`
	Avatar      string   `json:"avatar" validate:"omitempty,url"`
	IsAnonymous bool     `json:"isAnonymous"`
	Images      []string `json:"images" validate:"omitempty,max=6,dive,url"`
}

type addReviewResponse struct {
	ProductSlug string `json:"productSlug"`
}

// AddReview appends one review to the product's store.
func AddReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		var req addReviewRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		review := reviews.Review{
			Rating:      req.Rating,
			Name:        validators.SanitizeString(req.Name, 120),
			Content:     validators.SanitizeString(req.Content, 4000),
			SkuInfo:     validators.SanitizeString(req.SkuInfo, 200),
			Country:     validators.SanitizeString(req.Country, 64),
			Avatar:      req.Avatar,
			IsAnonymous: req.IsAnonymous,
			Images:      req.Images,
		}

		if err := svc.Add(ctx, req.Slug, review); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, addReviewResponse{ProductSlug: req.Slug})
	}
}

// ListStoredReviews serves the CSV-backed review path with aggregates and
// pagination.
func ListStoredReviews(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		slug := chi.URLParam(r, "slug")
		if slug == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required"))
			return
		}

		params, err := reviewParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.List(ctx, slug, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ListWidgetReviews proxies the third-party widget read path.
func ListWidgetReviews(widget *reviews.WidgetClient, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if widget == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review widget unavailable"))
			return
		}

		slug := chi.URLParam(r, "slug")
		if slug == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required"))
			return
		}

		params, err := reviewParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := widget.List(ctx, slug, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func reviewParams(r *http.Request) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1000000)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, Limit: limit}, nil
}
