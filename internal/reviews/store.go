package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/smallwonder/storefront-api/pkg/config"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/storage/gcs"
)

// ObjectStore is the slice of the storage client the review store uses.
type ObjectStore interface {
	Exists(ctx context.Context, bucket, object string) (bool, error)
	Download(ctx context.Context, bucket, object string) ([]byte, error)
	Upload(ctx context.Context, bucket, object, contentType string, data []byte) error
}

// Store keeps one CSV object per product, keyed {slug}/reviews.csv.
//
// Append is a read-modify-write with no conditional write: two concurrent
// appends to the same product can lose one row. Accepted under the
// single-writer-per-product assumption; revisit with ETag-checked uploads
// if review volume ever makes collisions likely.
type Store struct {
	objects      ObjectStore
	objectSuffix string
}

func NewStore(objects ObjectStore, cfg config.ReviewsConfig) (*Store, error) {
	if objects == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "object store is required")
	}
	suffix := cfg.ObjectSuffix
	if suffix == "" {
		suffix = "reviews.csv"
	}
	return &Store{objects: objects, objectSuffix: suffix}, nil
}

func (s *Store) objectKey(productSlug string) string {
	return productSlug + "/" + s.objectSuffix
}

// List returns every review for the product. An absent object is zero
// reviews, not an error.
func (s *Store) List(ctx context.Context, productSlug string) ([]Review, error) {
	data, err := s.objects.Download(ctx, "", s.objectKey(productSlug))
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return []Review{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch reviews object")
	}
	return parseCSV(data)
}

// Append adds one review, rewriting the whole object in the fixed column
// order. New rows always start with a zero vote count.
func (s *Store) Append(ctx context.Context, productSlug string, review Review) error {
	review.VoteCount = 0
	if review.Date == "" {
		review.Date = time.Now().UTC().Format("2006-01-02")
	}

	key := s.objectKey(productSlug)

	existing := []Review{}
	ok, err := s.objects.Exists(ctx, "", key)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check reviews object")
	}
	if ok {
		data, err := s.objects.Download(ctx, "", key)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch reviews object")
		}
		existing, err = parseCSV(data)
		if err != nil {
			return err
		}
	}

	encoded, err := encodeCSV(append(existing, review))
	if err != nil {
		return err
	}
	if err := s.objects.Upload(ctx, "", key, "text/csv", encoded); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reviews object")
	}
	return nil
}
