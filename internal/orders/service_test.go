package orders

import (
	"context"
	"testing"

	"github.com/smallwonder/storefront-api/internal/commerce"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
)

type stubBackend struct {
	orders []commerce.Order
	order  *commerce.Order
}

func (s *stubBackend) SearchOrders(_ context.Context, _ string) ([]commerce.Order, error) {
	return s.orders, nil
}

func (s *stubBackend) GetOrder(_ context.Context, _ string) (*commerce.Order, error) {
	return s.order, nil
}

func TestListRequiresContact(t *testing.T) {
	svc, err := NewService(&stubBackend{})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	_, err = svc.ListForContact(context.Background(), "")
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestGetForeignOrderReadsAsNotFound(t *testing.T) {
	backend := &stubBackend{order: &commerce.Order{ID: "o1", BuyerContactID: "someone-else"}}
	svc, err := NewService(backend)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	_, err = svc.Get(context.Background(), "contact-1", "o1")
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	backend.order = &commerce.Order{ID: "o1", BuyerContactID: "contact-1"}
	got, err := svc.Get(context.Background(), "contact-1", "o1")
	if err != nil || got.ID != "o1" {
		t.Fatalf("expected own order, got %v %v", got, err)
	}
}
