package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/smallwonder/storefront-api/api/responses"
	"github.com/smallwonder/storefront-api/pkg/config"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
)

// Limiter is the counter surface the rate limit middleware needs.
type Limiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func fixedWindow(limiter Limiter, logg *logger.Logger, scope string, limit int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := scope + ":" + clientIP(r)
			allowed, _, err := limiter.FixedWindowAllow(r.Context(), key, limit, window)
			if err != nil {
				// Counter failure must not take the API down.
				if logg != nil {
					ctx := logg.WithField(r.Context(), "scope", scope)
					logg.Warn(ctx, "rate limit counter unavailable")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit applies the general per-client request budget.
func RateLimit(limiter Limiter, cfg config.RateLimitConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return fixedWindow(limiter, logg, "global", int64(cfg.RequestLimit), cfg.Window)
}

// ReviewSubmitLimit applies the tighter budget for review submissions.
func ReviewSubmitLimit(limiter Limiter, cfg config.RateLimitConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return fixedWindow(limiter, logg, "review_submit", int64(cfg.ReviewLimit), cfg.ReviewWindow)
}
