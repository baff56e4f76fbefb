package emails

import (
	"context"
	"strings"

	"go.uber.org/multierr"

	"github.com/smallwonder/storefront-api/pkg/config"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
)

// AbandonedCartRequest carries what the recovery email needs. Items come
// from the caller's last known cart snapshot, not a fresh backend read.
type AbandonedCartRequest struct {
	ToEmail   string
	FirstName string
	CartURL   string
	Items     []AbandonedCartItem
}

type AbandonedCartItem struct {
	Name     string
	Quantity int
}

// SupportNotification carries one customer-service submission.
type SupportNotification struct {
	CustomerName   string
	CustomerEmail  string
	Subject        string
	Message        string
	OrderReference string
}

type Service interface {
	SendAbandonedCart(ctx context.Context, req AbandonedCartRequest) error
	SendSupportNotification(ctx context.Context, req SupportNotification) error
}

type service struct {
	recovery Sender
	support  Sender
	sendgrid config.SendGridConfig
	resend   config.ResendConfig
}

// NewService wires the two providers: Resend for cart recovery, SendGrid
// for support tickets.
func NewService(recovery, support Sender, sendgrid config.SendGridConfig, resend config.ResendConfig) (Service, error) {
	if recovery == nil || support == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "both email senders are required")
	}
	return &service{
		recovery: recovery,
		support:  support,
		sendgrid: sendgrid,
		resend:   resend,
	}, nil
}

func (s *service) SendAbandonedCart(ctx context.Context, req AbandonedCartRequest) error {
	if strings.TrimSpace(req.ToEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient email is required")
	}
	if req.CartURL == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart url is required")
	}

	html, err := render(abandonedCartTmpl, req)
	if err != nil {
		return err
	}

	return s.recovery.Send(ctx, Message{
		FromEmail: s.resend.FromEmail,
		FromName:  "smallwonder",
		ToEmail:   req.ToEmail,
		ToName:    req.FirstName,
		Subject:   "Your cart misses you",
		HTML:      html,
	})
}

// SendSupportNotification fans out two messages: the ticket to the support
// inbox and an acknowledgment to the customer. Both are attempted even when
// one fails, and the failures come back combined.
func (s *service) SendSupportNotification(ctx context.Context, req SupportNotification) error {
	if strings.TrimSpace(req.CustomerEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	if req.Subject == "" {
		req.Subject = "Customer service request"
	}

	ticketHTML, err := render(supportTicketTmpl, req)
	if err != nil {
		return err
	}
	ackHTML, err := render(supportAckTmpl, req)
	if err != nil {
		return err
	}

	var sendErr error
	sendErr = multierr.Append(sendErr, s.support.Send(ctx, Message{
		FromEmail: s.sendgrid.FromEmail,
		FromName:  "smallwonder storefront",
		ToEmail:   s.sendgrid.SupportTo,
		ToName:    s.sendgrid.SupportName,
		Subject:   "[support] " + req.Subject,
		HTML:      ticketHTML,
	}))
	sendErr = multierr.Append(sendErr, s.support.Send(ctx, Message{
		FromEmail: s.sendgrid.FromEmail,
		FromName:  "smallwonder",
		ToEmail:   req.CustomerEmail,
		ToName:    req.CustomerName,
		Subject:   "We received your request",
		HTML:      ackHTML,
	}))
	return sendErr
}
