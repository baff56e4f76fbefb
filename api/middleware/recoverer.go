package middleware

import (
	"fmt"
	"net/http"

	"github.com/smallwonder/storefront-api/api/responses"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
)

// Recoverer converts handler panics into a 500 envelope instead of a
// dropped connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := pkgerrors.Wrap(
						pkgerrors.CodeInternal,
						fmt.Errorf("panic: %v", rec),
						"request handler panicked",
					)
					responses.WriteError(r.Context(), logg, w, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
