package tickets

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smallwonder/storefront-api/internal/emails"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
)

type SubmitRequest struct {
	CustomerName   string
	CustomerEmail  string
	Subject        string
	Message        string
	OrderReference string
}

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*SupportTicket, error)
}

type service struct {
	repo     Repository
	notifier emails.Service
	logg     *logger.Logger
}

func NewService(repo Repository, notifier emails.Service, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ticket repository is required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "email notifier is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{repo: repo, notifier: notifier, logg: logg}, nil
}

// Submit persists the ticket first, then sends the notification. A failed
// send leaves the row with email_sent=false and still surfaces the error;
// the record is never rolled back.
func (s *service) Submit(ctx context.Context, req SubmitRequest) (*SupportTicket, error) {
	if strings.TrimSpace(req.CustomerEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	if req.Subject == "" {
		req.Subject = "Customer service request"
	}

	ticket := &SupportTicket{
		ID:             uuid.New(),
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerEmail:  strings.TrimSpace(req.CustomerEmail),
		Subject:        req.Subject,
		Message:        req.Message,
		OrderReference: strings.TrimSpace(req.OrderReference),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, ticket); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist support ticket")
	}

	err := s.notifier.SendSupportNotification(ctx, emails.SupportNotification{
		CustomerName:   ticket.CustomerName,
		CustomerEmail:  ticket.CustomerEmail,
		Subject:        ticket.Subject,
		Message:        ticket.Message,
		OrderReference: ticket.OrderReference,
	})
	if err != nil {
		s.logg.Error(ctx, "support ticket notification failed", err)
		return ticket, err
	}

	if err := s.repo.MarkEmailSent(ctx, ticket.ID); err != nil {
		s.logg.Warn(ctx, "marking ticket email_sent failed")
	} else {
		ticket.EmailSent = true
	}
	return ticket, nil
}
