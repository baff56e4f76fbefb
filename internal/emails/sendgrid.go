package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smallwonder/storefront-api/pkg/config"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
)

const (
	sendgridEndpoint            = "https://api.sendgrid.com/v3/mail/send"
	senderBodyReadLimit   int64 = 2048
	defaultSenderTimeout        = 10 * time.Second
)

// SendGridSender delivers support-ticket notifications.
type SendGridSender struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

type SendGridOption func(*SendGridSender)

func WithSendGridHTTPClient(client *http.Client) SendGridOption {
	return func(s *SendGridSender) {
		if client != nil {
			s.httpClient = client
		}
	}
}

func WithSendGridEndpoint(endpoint string) SendGridOption {
	return func(s *SendGridSender) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			s.endpoint = trimmed
		}
	}
}

func NewSendGridSender(cfg config.SendGridConfig, opts ...SendGridOption) (*SendGridSender, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "sendgrid api key is required")
	}

	sender := &SendGridSender{
		httpClient: &http.Client{Timeout: defaultSenderTimeout},
		endpoint:   sendgridEndpoint,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(sender)
		}
	}
	return sender, nil
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if s == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "sendgrid sender not configured")
	}

	payload := map[string]any{
		"personalizations": []map[string]any{
			{
				"to": []map[string]string{
					{"email": msg.ToEmail, "name": msg.ToName},
				},
				"subject": msg.Subject,
			},
		},
		"from": map[string]string{
			"email": msg.FromEmail,
			"name":  msg.FromName,
		},
		"content": []map[string]string{
			{"type": "text/html", "value": msg.HTML},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal sendgrid payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build sendgrid request")
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute sendgrid request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, senderBodyReadLimit))
		return pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))),
			"sendgrid send failed",
		)
	}
	return nil
}
