package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smallwonder/storefront-api/pkg/config"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/pagination"
)

const widgetBodyReadLimit int64 = 2048

// WidgetClient reads the hosted review widget API, the second review source.
// The two sources are intentionally unreconciled; each serves its own route.
type WidgetClient struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	defaultLimit int
	maxLimit     int
}

type WidgetOption func(*WidgetClient)

func WithWidgetHTTPClient(client *http.Client) WidgetOption {
	return func(c *WidgetClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewWidgetClient(cfg config.ReviewWidgetConfig, reviews config.ReviewsConfig, opts ...WidgetOption) (*WidgetClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "review widget base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	client := &WidgetClient{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       strings.TrimSpace(cfg.APIKey),
		defaultLimit: reviews.DefaultLimit,
		maxLimit:     reviews.MaxLimit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// List fetches the product's widget reviews and shapes them like the CSV
// path: full-set aggregates plus an in-memory page slice.
func (c *WidgetClient) List(ctx context.Context, productSlug string, params pagination.Params) (*ListResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "review widget client not configured")
	}
	if strings.TrimSpace(productSlug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}

	u := fmt.Sprintf("%s/products/%s/reviews", c.baseURL, url.PathEscape(productSlug))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build widget request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute widget request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, widgetBodyReadLimit))
		return nil, pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"widget request failed",
		)
	}

	var apiResp struct {
		Reviews []struct {
			Date      string   `json:"date"`
			Rating    int      `json:"rating"`
			Name      string   `json:"reviewerName"`
			Avatar    string   `json:"reviewerAvatar"`
			Country   string   `json:"country"`
			Content   string   `json:"content"`
			Images    []string `json:"images"`
			Anonymous bool     `json:"anonymous"`
			Votes     int      `json:"helpfulVotes"`
		} `json:"reviews"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode widget response")
	}

	all := make([]Review, 0, len(apiResp.Reviews))
	for _, item := range apiResp.Reviews {
		all = append(all, Review{
			Date:        item.Date,
			Rating:      item.Rating,
			Name:        item.Name,
			Avatar:      item.Avatar,
			Country:     item.Country,
			Content:     item.Content,
			Images:      item.Images,
			IsAnonymous: item.Anonymous,
			VoteCount:   item.Votes,
		})
	}

	params = params.Normalize(c.defaultLimit, c.maxLimit)
	return &ListResult{
		TotalReviews:       len(all),
		AverageRating:      AverageRating(all),
		RatingDistribution: RatingDistribution(all),
		Reviews:            pagination.Page(all, params),
	}, nil
}
