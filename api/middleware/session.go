package middleware

import (
	"net/http"
	"strings"

	"github.com/smallwonder/storefront-api/api/responses"
	"github.com/smallwonder/storefront-api/pkg/auth"
	"github.com/smallwonder/storefront-api/pkg/config"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
)

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireMember rejects requests without a valid member session token.
func RequireMember(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "member session required"))
				return
			}

			claims, err := auth.ParseMemberToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid member session"))
				return
			}

			ctx := withMemberClaims(r.Context(), claims)
			if logg != nil {
				ctx = logg.WithMemberID(ctx, claims.MemberID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
