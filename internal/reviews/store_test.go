package reviews

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/smallwonder/storefront-api/pkg/config"
	"github.com/smallwonder/storefront-api/pkg/logger"
	"github.com/smallwonder/storefront-api/pkg/pagination"
	"github.com/smallwonder/storefront-api/pkg/storage/gcs"
)

type stubObjectStore struct {
	objects map[string][]byte
	uploads int
}

func newStubObjectStore() *stubObjectStore {
	return &stubObjectStore{objects: map[string][]byte{}}
}

func (s *stubObjectStore) Exists(_ context.Context, _, object string) (bool, error) {
	_, ok := s.objects[object]
	return ok, nil
}

func (s *stubObjectStore) Download(_ context.Context, _, object string) ([]byte, error) {
	data, ok := s.objects[object]
	if !ok {
		return nil, fmt.Errorf("fetch %s: %w", object, gcs.ErrObjectNotExist)
	}
	return data, nil
}

func (s *stubObjectStore) Upload(_ context.Context, _, object, _ string, data []byte) error {
	s.uploads++
	s.objects[object] = data
	return nil
}

func testReviewsConfig() config.ReviewsConfig {
	return config.ReviewsConfig{ObjectSuffix: "reviews.csv", DefaultLimit: 5, MaxLimit: 50}
}

func testStore(t *testing.T, objects ObjectStore) *Store {
	t.Helper()
	store, err := NewStore(objects, testReviewsConfig())
	if err != nil {
		t.Fatalf("building store: %v", err)
	}
	return store
}

func TestListAbsentObjectIsEmpty(t *testing.T) {
	store := testStore(t, newStubObjectStore())

	reviews, err := store.List(context.Background(), "wooden-rattle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reviews) != 0 {
		t.Fatalf("expected zero reviews, got %d", len(reviews))
	}
}

func TestAppendCreatesObject(t *testing.T) {
	objects := newStubObjectStore()
	store := testStore(t, objects)

	err := store.Append(context.Background(), "wooden-rattle", Review{Rating: 5, Name: "Dana", Content: "great"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if objects.uploads != 1 {
		t.Fatalf("expected one upload, got %d", objects.uploads)
	}

	reviews, err := store.List(context.Background(), "wooden-rattle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Name != "Dana" {
		t.Fatalf("unexpected reviews %+v", reviews)
	}
	if reviews[0].Date == "" {
		t.Fatal("expected a published date to be stamped")
	}
}

func TestAppendPreservesExistingRows(t *testing.T) {
	objects := newStubObjectStore()
	store := testStore(t, objects)

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		review := Review{Rating: i, Name: fmt.Sprintf("reviewer-%d", i), Content: "text"}
		if err := store.Append(ctx, "crib", review); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	if err := store.Append(ctx, "crib", Review{Rating: 5, Name: "reviewer-4", Content: "text", VoteCount: 99}); err != nil {
		t.Fatalf("final append: %v", err)
	}

	reviews, err := store.List(ctx, "crib")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reviews) != 4 {
		t.Fatalf("unexpected row count %d", len(reviews))
	}
	for i := 0; i < 3; i++ {
		if reviews[i].Name != fmt.Sprintf("reviewer-%d", i+1) || reviews[i].Rating != i+1 {
			t.Fatalf("row %d changed: %+v", i, reviews[i])
		}
	}
	if reviews[3].VoteCount != 0 {
		t.Fatalf("expected new row vote count reset to 0, got %d", reviews[3].VoteCount)
	}
}

type stubCache struct {
	values map[string]string
	sets   int
	dels   int
}

func newStubCache() *stubCache {
	return &stubCache{values: map[string]string{}}
}

func (s *stubCache) Get(_ context.Context, key string) (string, error) {
	return s.values[key], nil
}

func (s *stubCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.sets++
	s.values[key] = fmt.Sprint(value)
	return nil
}

func (s *stubCache) Del(_ context.Context, keys ...string) error {
	s.dels++
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func (s *stubCache) ReviewCacheKey(productSlug string) string {
	return "sw:cache:reviews:" + productSlug
}

func testService(t *testing.T, objects ObjectStore, cache Cache) Service {
	t.Helper()
	store := testStore(t, objects)
	cfg := testReviewsConfig()
	cfg.CacheTTL = time.Minute
	svc, err := NewService(store, cache, cfg, logger.New(logger.Options{Level: logger.ParseLevel("error")}))
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func TestListPaginationOverFullSet(t *testing.T) {
	objects := newStubObjectStore()
	svc := testService(t, objects, nil)

	ctx := context.Background()
	for i := 1; i <= 7; i++ {
		review := Review{Rating: 5, Name: fmt.Sprintf("reviewer-%d", i), Content: "text"}
		if err := svc.Add(ctx, "crib", review); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	result, err := svc.List(ctx, "crib", pagination.Params{Page: 2, Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalReviews != 7 {
		t.Fatalf("unexpected total %d", result.TotalReviews)
	}
	if len(result.Reviews) != 2 {
		t.Fatalf("expected rows 6-7 only, got %d rows", len(result.Reviews))
	}
	if result.Reviews[0].Name != "reviewer-6" || result.Reviews[1].Name != "reviewer-7" {
		t.Fatalf("unexpected page contents %+v", result.Reviews)
	}
	if result.RatingDistribution[5] != 7 {
		t.Fatalf("aggregates must span the full set, got %+v", result.RatingDistribution)
	}
}

func TestListUsesCacheAndAddEvicts(t *testing.T) {
	objects := newStubObjectStore()
	cache := newStubCache()
	svc := testService(t, objects, cache)

	ctx := context.Background()
	if err := svc.Add(ctx, "crib", Review{Rating: 4, Name: "Dana", Content: "nice"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if cache.dels != 1 {
		t.Fatalf("expected one cache eviction on add, got %d", cache.dels)
	}

	if _, err := svc.List(ctx, "crib", pagination.Params{}); err != nil {
		t.Fatalf("first list: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected list to populate the cache, got %d sets", cache.sets)
	}

	// Wipe the backing store; a cached second read must still serve.
	objects.objects = map[string][]byte{}
	result, err := svc.List(ctx, "crib", pagination.Params{})
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if result.TotalReviews != 1 || result.Reviews[0].Name != "Dana" {
		t.Fatalf("expected cached result, got %+v", result)
	}
}
