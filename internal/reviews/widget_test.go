package reviews

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smallwonder/storefront-api/pkg/config"
	"github.com/smallwonder/storefront-api/pkg/pagination"
)

func TestWidgetListShapesAggregates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/wooden-rattle/reviews" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer widget-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		_, _ = io.WriteString(w, `{"reviews":[
			{"rating":5,"reviewerName":"Dana","content":"great"},
			{"rating":1,"reviewerName":"Lee","content":"meh"}
		]}`)
	}))
	defer srv.Close()

	client, err := NewWidgetClient(
		config.ReviewWidgetConfig{BaseURL: srv.URL, APIKey: "widget-key"},
		testReviewsConfig(),
		WithWidgetHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	result, err := client.List(context.Background(), "wooden-rattle", pagination.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalReviews != 2 {
		t.Fatalf("unexpected total %d", result.TotalReviews)
	}
	if result.AverageRating != 3.0 {
		t.Fatalf("unexpected average %v", result.AverageRating)
	}
	if result.RatingDistribution[5] != 1 || result.RatingDistribution[1] != 1 {
		t.Fatalf("unexpected distribution %+v", result.RatingDistribution)
	}
}

func TestWidgetListUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "widget down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewWidgetClient(
		config.ReviewWidgetConfig{BaseURL: srv.URL},
		testReviewsConfig(),
		WithWidgetHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	if _, err := client.List(context.Background(), "wooden-rattle", pagination.Params{}); err == nil {
		t.Fatal("expected error from failing widget")
	}
}
