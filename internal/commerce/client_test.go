package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"

	"github.com/smallwonder/storefront-api/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.CommerceConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		SiteID:  "site-1",
	}, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("building client: %v", err)
	}
	return client
}

func TestQueryProductsBuildsQuery(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", auth)
		}
		if site := r.Header.Get("X-Site-Id"); site != "site-1" {
			t.Errorf("unexpected site header %q", site)
		}
		_ = json.NewEncoder(w).Encode(ProductPage{Total: 1, Products: []Product{{Slug: "wooden-rattle"}}})
	}))

	page, err := client.QueryProducts(context.Background(), ProductQuery{
		CollectionID: "col-1",
		NamePrefix:   "wood",
		SortField:    "price",
		SortAsc:      true,
		Skip:         10,
		Limit:        20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || len(page.Products) != 1 || page.Products[0].Slug != "wooden-rattle" {
		t.Fatalf("unexpected page %+v", page)
	}

	parsed, err := http.NewRequest(http.MethodGet, "/?"+gotQuery, nil)
	if err != nil {
		t.Fatalf("parsing captured query: %v", err)
	}
	q := parsed.URL.Query()
	if q.Get("collectionId") != "col-1" || q.Get("namePrefix") != "wood" {
		t.Fatalf("unexpected filters in %q", gotQuery)
	}
	if q.Get("sort") != "price" || q.Get("direction") != "asc" {
		t.Fatalf("unexpected sort params in %q", gotQuery)
	}
	if q.Get("skip") != "10" || q.Get("limit") != "20" {
		t.Fatalf("unexpected paging params in %q", gotQuery)
	}
}

func TestGetProductNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := client.GetProduct(context.Background(), "missing-slug")
	if err == nil {
		t.Fatal("expected error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestAddItemValidation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	if _, err := client.AddItem(context.Background(), "cart-1", AddItemRequest{Quantity: 1}); err == nil {
		t.Fatal("expected error for missing catalog item id")
	}
	if _, err := client.AddItem(context.Background(), "cart-1", AddItemRequest{CatalogItemID: "p1"}); err == nil {
		t.Fatal("expected error for non-positive quantity")
	}
}

func TestUpdateQuantitySendsPatch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("unexpected method %s", r.Method)
		}
		var body map[string]int
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		if body["quantity"] != 3 {
			t.Errorf("unexpected quantity %d", body["quantity"])
		}
		_ = json.NewEncoder(w).Encode(Cart{ID: "cart-1"})
	}))

	cart, err := client.UpdateQuantity(context.Background(), "cart-1", "line-9", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.ID != "cart-1" {
		t.Fatalf("unexpected cart %+v", cart)
	}
}

func TestCreateCheckoutRequiresRedirectURL(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(CheckoutSession{})
	}))

	if _, err := client.CreateCheckout(context.Background(), "cart-1"); err == nil {
		t.Fatal("expected error when redirect url missing")
	}
}

func TestUpstreamErrorMapsToDependency(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusBadGateway)
	}))

	_, err := client.GetCart(context.Background(), "cart-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
}
