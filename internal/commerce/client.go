package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smallwonder/storefront-api/pkg/config"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
)

const responseBodyReadLimit int64 = 2048

var errBaseURLRequired = errors.New("commerce base url is required")

// Client wraps the external commerce backend: catalog, carts, checkout,
// orders and member accounts. Every response is treated as authoritative;
// nothing from it is cached or persisted here.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	siteID     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the commerce backend client from configuration.
func NewClient(cfg config.CommerceConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		siteID:     strings.TrimSpace(cfg.SiteID),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// QueryProducts runs a catalog query with filters, sort and skip/limit paging.
func (c *Client) QueryProducts(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}

	params := url.Values{}
	if query.CollectionID != "" {
		params.Set("collectionId", query.CollectionID)
	}
	if query.NamePrefix != "" {
		params.Set("namePrefix", query.NamePrefix)
	}
	if query.MinPrice != nil {
		params.Set("minPrice", query.MinPrice.String())
	}
	if query.MaxPrice != nil {
		params.Set("maxPrice", query.MaxPrice.String())
	}
	if query.ProductType != "" {
		params.Set("productType", query.ProductType)
	}
	if query.SortField != "" {
		direction := "desc"
		if query.SortAsc {
			direction = "asc"
		}
		params.Set("sort", query.SortField)
		params.Set("direction", direction)
	}
	if query.Skip > 0 {
		params.Set("skip", strconv.Itoa(query.Skip))
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}

	path := "catalog/products"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page ProductPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct fetches one product by slug. Unknown slugs map to NOT_FOUND.
func (c *Client) GetProduct(ctx context.Context, slug string) (*Product, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}

	var product Product
	if err := c.doJSON(ctx, http.MethodGet, "catalog/products/"+url.PathEscape(slug), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetCollection fetches one collection by slug.
func (c *Client) GetCollection(ctx context.Context, slug string) (*Collection, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collection slug is required")
	}

	var collection Collection
	if err := c.doJSON(ctx, http.MethodGet, "catalog/collections/"+url.PathEscape(slug), nil, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

// GetCart fetches the current cart for the given cart token.
func (c *Client) GetCart(ctx context.Context, cartToken string) (*Cart, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if strings.TrimSpace(cartToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}

	var cart Cart
	if err := c.doJSON(ctx, http.MethodGet, "carts/"+url.PathEscape(cartToken), nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem adds a catalog item to the cart and returns the updated cart.
func (c *Client) AddItem(ctx context.Context, cartToken string, req AddItemRequest) (*Cart, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if strings.TrimSpace(req.CatalogItemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog item id is required")
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var cart Cart
	path := "carts/" + url.PathEscape(cartToken) + "/items"
	if err := c.doJSON(ctx, http.MethodPost, path, req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveItem deletes a line item and returns the updated cart.
func (c *Client) RemoveItem(ctx context.Context, cartToken, lineItemID string) (*Cart, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if strings.TrimSpace(lineItemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item id is required")
	}

	var cart Cart
	path := "carts/" + url.PathEscape(cartToken) + "/items/" + url.PathEscape(lineItemID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateQuantity changes a line item quantity and returns the updated cart.
func (c *Client) UpdateQuantity(ctx context.Context, cartToken, lineItemID string, quantity int) (*Cart, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if strings.TrimSpace(lineItemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item id is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var cart Cart
	path := "carts/" + url.PathEscape(cartToken) + "/items/" + url.PathEscape(lineItemID)
	body := map[string]int{"quantity": quantity}
	if err := c.doJSON(ctx, http.MethodPatch, path, body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// CreateCheckout opens a checkout session for the cart and returns the
// external redirect URL.
func (c *Client) CreateCheckout(ctx context.Context, cartToken string) (*CheckoutSession, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if strings.TrimSpace(cartToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}

	var session CheckoutSession
	path := "carts/" + url.PathEscape(cartToken) + "/checkout"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &session); err != nil {
		return nil, err
	}
	if session.RedirectURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "checkout session missing redirect url")
	}
	return &session, nil
}

// SearchOrders lists orders placed by the given buyer contact.
func (c *Client) SearchOrders(ctx context.Context, contactID string) ([]Order, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if strings.TrimSpace(contactID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact id is required")
	}

	var result struct {
		Orders []Order `json:"orders"`
	}
	path := "orders?contactId=" + url.QueryEscape(contactID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Orders, nil
}

// GetOrder fetches one order by id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var order Order
	if err := c.doJSON(ctx, http.MethodGet, "orders/"+url.PathEscape(orderID), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetMember fetches the member account record.
func (c *Client) GetMember(ctx context.Context, memberID string) (*Member, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if strings.TrimSpace(memberID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}

	var member Member
	if err := c.doJSON(ctx, http.MethodGet, "members/"+url.PathEscape(memberID), nil, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMember patches the member account record and returns the result.
func (c *Client) UpdateMember(ctx context.Context, memberID string, req UpdateMemberRequest) (*Member, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if strings.TrimSpace(memberID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}

	var member Member
	if err := c.doJSON(ctx, http.MethodPatch, "members/"+url.PathEscape(memberID), req, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal commerce request")
		}
		reader = bytes.NewReader(payload)
	}

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build commerce request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.siteID != "" {
		req.Header.Set("X-Site-Id", c.siteID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute commerce request")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "commerce resource not found")
	case resp.StatusCode >= http.StatusBadRequest:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"commerce request failed",
		)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode commerce response")
	}
	return nil
}
