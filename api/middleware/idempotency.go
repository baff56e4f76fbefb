package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smallwonder/storefront-api/api/responses"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
	"github.com/smallwonder/storefront-api/pkg/redis"
)

const (
	idempotencyHeader   = "Idempotency-Key"
	replayedHeader      = "Idempotency-Replayed"
	pendingMarker       = "pending"
	maxIdempotencyBody  = 1 << 20
	pendingWindow       = 2 * time.Minute
	defaultIdempotency  = 24 * time.Hour
	checkoutIdempotency = 7 * 24 * time.Hour
)

// IdempotencyStore is the slice of the redis client the middleware uses.
type IdempotencyStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

type idempotencyRule struct {
	scope string
	ttl   time.Duration
}

// Keyed by "METHOD route-pattern". Checkout keys live longer because
// payment retries can arrive days later.
var idempotencyRules = map[string]idempotencyRule{
	"POST /api/addReview":               {scope: "add_review", ttl: defaultIdempotency},
	"POST /api/emails/abandoned-cart":   {scope: "email_abandoned_cart", ttl: defaultIdempotency},
	"POST /api/emails/customer-service": {scope: "email_customer_service", ttl: defaultIdempotency},
	"POST /api/v1/cart/items":           {scope: "cart_add", ttl: defaultIdempotency},
	"POST /api/v1/checkout":             {scope: "checkout", ttl: checkoutIdempotency},
}

type idempotencyRecord struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	RequestHash string `json:"request_hash"`
}

type bodyRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (rec *bodyRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *bodyRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	rec.buf.Write(b)
	return rec.ResponseWriter.Write(b)
}

func requestHash(method, pattern string, body []byte) string {
	sum := sha256.New()
	sum.Write([]byte(method))
	sum.Write([]byte{'\n'})
	sum.Write([]byte(pattern))
	sum.Write([]byte{'\n'})
	sum.Write(body)
	return hex.EncodeToString(sum.Sum(nil))
}

// Idempotency replays the stored response when a client retries a write
// with the same Idempotency-Key, and rejects key reuse across different
// payloads. Requests without the header pass through untouched.
func Idempotency(store IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := r.Header.Get(idempotencyHeader)
			if clientKey == "" || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			pattern := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					pattern = p
				}
			}
			rule, ok := idempotencyRules[r.Method+" "+pattern]
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotencyBody))
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading request body"))
				return
			}
			_ = r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))

			hash := requestHash(r.Method, pattern, body)
			redisKey := store.IdempotencyKey(rule.scope, clientKey)

			acquired, err := store.SetNX(r.Context(), redisKey, pendingMarker, pendingWindow)
			if err != nil {
				// Storage trouble downgrades the request to non-idempotent.
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "scope", rule.scope), "idempotency store unavailable")
				}
				next.ServeHTTP(w, r)
				return
			}

			if !acquired {
				stored, getErr := store.Get(r.Context(), redisKey)
				if getErr != nil && !errors.Is(getErr, redis.Nil) {
					if logg != nil {
						logg.Warn(logg.WithField(r.Context(), "scope", rule.scope), "idempotency store unavailable")
					}
					next.ServeHTTP(w, r)
					return
				}
				if stored == pendingMarker {
					responses.WriteError(r.Context(), logg, w,
						pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is still in progress"))
					return
				}

				var record idempotencyRecord
				if err := json.Unmarshal([]byte(stored), &record); err == nil && record.Status != 0 {
					if record.RequestHash != hash {
						responses.WriteError(r.Context(), logg, w,
							pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with a different request"))
						return
					}
					replay(w, record)
					return
				}

				// Marker expired or record unreadable, run the request fresh.
				next.ServeHTTP(w, r)
				return
			}

			rec := &bodyRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status >= http.StatusInternalServerError {
				// Leave retries possible after a server-side failure.
				_ = store.Del(r.Context(), redisKey)
				return
			}

			record := idempotencyRecord{
				Status:      rec.status,
				Body:        base64.StdEncoding.EncodeToString(rec.buf.Bytes()),
				RequestHash: hash,
			}
			encoded, err := json.Marshal(record)
			if err != nil {
				_ = store.Del(r.Context(), redisKey)
				return
			}
			if err := store.Set(r.Context(), redisKey, string(encoded), rule.ttl); err != nil && logg != nil {
				logg.Warn(logg.WithField(r.Context(), "scope", rule.scope), "storing idempotency record failed")
			}
		})
	}
}

func replay(w http.ResponseWriter, record idempotencyRecord) {
	decoded, err := base64.StdEncoding.DecodeString(record.Body)
	if err != nil {
		decoded = nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(record.Status)
	_, _ = w.Write(decoded)
}
