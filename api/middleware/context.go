package middleware

import (
	"context"

	"github.com/smallwonder/storefront-api/pkg/auth"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	memberClaimsKey
)

func withRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request id attached by the RequestID
// middleware, or empty when unset.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func withMemberClaims(ctx context.Context, claims *auth.MemberClaims) context.Context {
	return context.WithValue(ctx, memberClaimsKey, claims)
}

// MemberFromContext returns the verified session claims, or nil for
// anonymous requests.
func MemberFromContext(ctx context.Context) *auth.MemberClaims {
	if claims, ok := ctx.Value(memberClaimsKey).(*auth.MemberClaims); ok {
		return claims
	}
	return nil
}
