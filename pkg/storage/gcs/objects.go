package gcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrObjectNotExist reports a missing object. Callers that treat an absent
// object as an empty dataset check for it with errors.Is.
var ErrObjectNotExist = errors.New("gcs: object does not exist")

func (c *Client) objectURL(bucket, object string) string {
	return fmt.Sprintf(
		"%s/storage/v1/b/%s/o/%s",
		c.apiBase,
		url.PathEscape(bucket),
		url.PathEscape(object),
	)
}

func (c *Client) resolveBucket(bucket string) (string, error) {
	if bucket == "" {
		bucket = c.defaultBucket
	}
	if bucket == "" {
		return "", errors.New("gcs bucket is required")
	}
	return bucket, nil
}

func (c *Client) authorizedRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

// Exists reports whether the object is present in the bucket.
func (c *Client) Exists(ctx context.Context, bucket, object string) (bool, error) {
	if c == nil || c.tokenSource == nil {
		return false, errors.New("gcs client not initialized")
	}
	bucket, err := c.resolveBucket(bucket)
	if err != nil {
		return false, err
	}

	req, err := c.authorizedRequest(ctx, http.MethodGet, c.objectURL(bucket, object), nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 2048))

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("checking object %s: %s", object, resp.Status)
	}
}

// Download reads the full object body.
func (c *Client) Download(ctx context.Context, bucket, object string) ([]byte, error) {
	if c == nil || c.tokenSource == nil {
		return nil, errors.New("gcs client not initialized")
	}
	bucket, err := c.resolveBucket(bucket)
	if err != nil {
		return nil, err
	}

	req, err := c.authorizedRequest(ctx, http.MethodGet, c.objectURL(bucket, object)+"?alt=media", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusNotFound:
		return nil, fmt.Errorf("downloading object %s: %w", object, ErrObjectNotExist)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(b) > 0 {
			return nil, fmt.Errorf("downloading object %s: %s: %s", object, resp.Status, strings.TrimSpace(string(b)))
		}
		return nil, fmt.Errorf("downloading object %s: %s", object, resp.Status)
	}
}

// Upload writes the object body, replacing any existing object.
func (c *Client) Upload(ctx context.Context, bucket, object, contentType string, data []byte) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	bucket, err := c.resolveBucket(bucket)
	if err != nil {
		return err
	}
	if object == "" {
		return errors.New("object name is required")
	}

	u := fmt.Sprintf(
		"%s/upload/storage/v1/b/%s/o?uploadType=media&name=%s",
		c.apiBase,
		url.PathEscape(bucket),
		url.QueryEscape(object),
	)

	req, err := c.authorizedRequest(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(b) > 0 {
			return fmt.Errorf("uploading object %s: %s: %s", object, resp.Status, strings.TrimSpace(string(b)))
		}
		return fmt.Errorf("uploading object %s: %s", object, resp.Status)
	}
	return nil
}
