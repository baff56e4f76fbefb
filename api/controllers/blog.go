package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smallwonder/storefront-api/api/responses"
	"github.com/smallwonder/storefront-api/internal/content"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
)

// ListBlogPosts returns post summaries, newest first.
func ListBlogPosts(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		posts, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, posts)
	}
}

// GetBlogPost returns one post with its body.
func GetBlogPost(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		slug := chi.URLParam(r, "slug")
		if slug == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "post slug is required"))
			return
		}

		post, err := svc.Get(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}
