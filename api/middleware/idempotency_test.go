package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
	"github.com/smallwonder/storefront-api/pkg/redis"
	"github.com/smallwonder/storefront-api/pkg/types"
)

type stubStore struct {
	data map[string]string
}

func newStubStore() *stubStore {
	return &stubStore{data: map[string]string{}}
}

func (s *stubStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = fmt.Sprint(value)
	return true, nil
}

func (s *stubStore) Get(_ context.Context, key string) (string, error) {
	value, ok := s.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *stubStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.data[key] = fmt.Sprint(value)
	return nil
}

func (s *stubStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *stubStore) IdempotencyKey(scope, id string) string {
	return "idempotency:" + scope + ":" + id
}

func testMWLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func checkoutRouter(store IdempotencyStore, calls *int) http.Handler {
	r := chi.NewRouter()
	r.With(Idempotency(store, testMWLogger())).Post("/api/v1/checkout", func(w http.ResponseWriter, req *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"data":{"attempt":%d}}`, *calls)
	})
	return r
}

func postCheckout(handler http.Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newStubStore()
	calls := 0
	handler := checkoutRouter(store, &calls)

	first := postCheckout(handler, "key-1", `{"cart":"abc"}`)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, 1, calls)

	second := postCheckout(handler, "key-1", `{"cart":"abc"}`)
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, 1, calls, "handler must not run twice for the same key")
	require.Equal(t, "true", second.Header().Get("Idempotency-Replayed"))
	require.Equal(t, first.Body.String(), second.Body.String())
}

func TestIdempotencyRejectsKeyReuseAcrossPayloads(t *testing.T) {
	store := newStubStore()
	calls := 0
	handler := checkoutRouter(store, &calls)

	first := postCheckout(handler, "key-1", `{"cart":"abc"}`)
	require.Equal(t, http.StatusOK, first.Code)

	reused := postCheckout(handler, "key-1", `{"cart":"different"}`)
	require.Equal(t, http.StatusConflict, reused.Code)
	require.Equal(t, 1, calls)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(reused.Body.Bytes(), &envelope))
	require.Equal(t, string(pkgerrors.CodeIdempotency), envelope.Error.Code)
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	store := newStubStore()
	calls := 0
	handler := checkoutRouter(store, &calls)

	postCheckout(handler, "", `{"cart":"abc"}`)
	postCheckout(handler, "", `{"cart":"abc"}`)

	require.Equal(t, 2, calls)
	require.Empty(t, store.data)
}

func TestIdempotencyServerErrorLeavesRetryOpen(t *testing.T) {
	store := newStubStore()
	calls := 0

	r := chi.NewRouter()
	r.With(Idempotency(store, testMWLogger())).Post("/api/v1/checkout", func(w http.ResponseWriter, req *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	first := postCheckout(r, "key-1", `{}`)
	require.Equal(t, http.StatusBadGateway, first.Code)

	second := postCheckout(r, "key-1", `{}`)
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, 2, calls)
}

func TestIdempotencyUnlistedRouteIgnored(t *testing.T) {
	store := newStubStore()
	calls := 0

	r := chi.NewRouter()
	r.With(Idempotency(store, testMWLogger())).Post("/api/v1/other", func(w http.ResponseWriter, req *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/other", strings.NewReader(`{}`))
	req.Header.Set("Idempotency-Key", "key-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	r.ServeHTTP(httptest.NewRecorder(), req.Clone(req.Context()))

	require.Equal(t, 2, calls)
	require.Empty(t, store.data)
}
