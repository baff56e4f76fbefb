package reviews

import (
	"context"
	"encoding/json"
	"time"

	"github.com/smallwonder/storefront-api/pkg/config"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
	"github.com/smallwonder/storefront-api/pkg/pagination"
)

// Cache is the slice of the redis client used for the review read path.
// Every cache failure is logged and swallowed; the store stays authoritative.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ReviewCacheKey(productSlug string) string
}

// ListResult is the aggregate shape served for a product's reviews.
// Aggregates always cover the full set, not the returned page.
type ListResult struct {
	TotalReviews       int         `json:"totalReviews"`
	AverageRating      float64     `json:"averageRating"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
	Reviews            []Review    `json:"reviews"`
}

type Service interface {
	List(ctx context.Context, productSlug string, params pagination.Params) (*ListResult, error)
	Add(ctx context.Context, productSlug string, review Review) error
}

type service struct {
	store *Store
	cache Cache
	cfg   config.ReviewsConfig
	logg  *logger.Logger
}

func NewService(store *Store, cache Cache, cfg config.ReviewsConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "review store is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{store: store, cache: cache, cfg: cfg, logg: logg}, nil
}

func (s *service) List(ctx context.Context, productSlug string, params pagination.Params) (*ListResult, error) {
	params = params.Normalize(s.cfg.DefaultLimit, s.cfg.MaxLimit)

	all, cached := s.cachedReviews(ctx, productSlug)
	if !cached {
		var err error
		all, err = s.store.List(ctx, productSlug)
		if err != nil {
			return nil, err
		}
		s.storeInCache(ctx, productSlug, all)
	}

	return &ListResult{
		TotalReviews:       len(all),
		AverageRating:      AverageRating(all),
		RatingDistribution: RatingDistribution(all),
		Reviews:            pagination.Page(all, params),
	}, nil
}

func (s *service) Add(ctx context.Context, productSlug string, review Review) error {
	if err := s.store.Append(ctx, productSlug, review); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, s.cache.ReviewCacheKey(productSlug)); err != nil {
			s.logg.Warn(s.logg.WithProductSlug(ctx, productSlug), "evicting review cache failed")
		}
	}
	return nil
}

func (s *service) cachedReviews(ctx context.Context, productSlug string) ([]Review, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.ReviewCacheKey(productSlug))
	if err != nil || raw == "" {
		return nil, false
	}
	var all []Review
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		s.logg.Warn(s.logg.WithProductSlug(ctx, productSlug), "decoding cached reviews failed")
		return nil, false
	}
	return all, true
}

func (s *service) storeInCache(ctx context.Context, productSlug string, all []Review) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	encoded, err := json.Marshal(all)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.ReviewCacheKey(productSlug), string(encoded), s.cfg.CacheTTL); err != nil {
		s.logg.Warn(s.logg.WithProductSlug(ctx, productSlug), "caching reviews failed")
	}
}
