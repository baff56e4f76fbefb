package controllers

import (
	"net/http"
	"strings"

	"github.com/smallwonder/storefront-api/api/responses"
	"github.com/smallwonder/storefront-api/internal/uploads"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
)

// GenerateUploadURL mints a short-lived signed PUT url for a review image.
func GenerateUploadURL(svc uploads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload service unavailable"))
			return
		}

		fileName := strings.TrimSpace(r.URL.Query().Get("fileName"))
		fileType := strings.TrimSpace(r.URL.Query().Get("fileType"))
		if fileName == "" || fileType == "" {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "fileName and fileType query parameters are required"))
			return
		}

		target, err := svc.GenerateUploadURL(fileName, fileType)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, target)
	}
}
