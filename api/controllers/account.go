package controllers

import (
	"net/http"

	"github.com/smallwonder/storefront-api/api/middleware"
	"github.com/smallwonder/storefront-api/api/responses"
	"github.com/smallwonder/storefront-api/api/validators"
	"github.com/smallwonder/storefront-api/internal/commerce"
	"github.com/smallwonder/storefront-api/internal/members"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
)

// GetAccount returns the signed-in member's profile.
func GetAccount(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "member service unavailable"))
			return
		}

		claims := middleware.MemberFromContext(ctx)
		if claims == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "member session required"))
			return
		}

		member, err := svc.Get(ctx, claims.MemberID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, member)
	}
}

type updateAccountRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=120"`
	LastName  *string `json:"lastName" validate:"omitempty,max=120"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
}

// UpdateAccount patches the member profile fields that were provided.
func UpdateAccount(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "member service unavailable"))
			return
		}

		claims := middleware.MemberFromContext(ctx)
		if claims == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "member session required"))
			return
		}

		var req updateAccountRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		member, err := svc.Update(ctx, claims.MemberID, commerce.UpdateMemberRequest{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, member)
	}
}
