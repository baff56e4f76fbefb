package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/smallwonder/storefront-api/pkg/config"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendSender delivers abandoned-cart recovery emails.
type ResendSender struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

type ResendOption func(*ResendSender)

func WithResendHTTPClient(client *http.Client) ResendOption {
	return func(s *ResendSender) {
		if client != nil {
			s.httpClient = client
		}
	}
}

func WithResendEndpoint(endpoint string) ResendOption {
	return func(s *ResendSender) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			s.endpoint = trimmed
		}
	}
}

func NewResendSender(cfg config.ResendConfig, opts ...ResendOption) (*ResendSender, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "resend api key is required")
	}

	sender := &ResendSender{
		httpClient: &http.Client{Timeout: defaultSenderTimeout},
		endpoint:   resendEndpoint,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(sender)
		}
	}
	return sender, nil
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if s == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "resend sender not configured")
	}

	from := msg.FromEmail
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", msg.FromName, msg.FromEmail)
	}
	payload := map[string]any{
		"from":    from,
		"to":      []string{msg.ToEmail},
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal resend payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build resend request")
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute resend request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, senderBodyReadLimit))
		return pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))),
			"resend send failed",
		)
	}
	return nil
}
