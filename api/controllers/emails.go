package controllers

import (
	"net/http"

	"github.com/smallwonder/storefront-api/api/responses"
	"github.com/smallwonder/storefront-api/api/validators"
	"github.com/smallwonder/storefront-api/internal/emails"
	"github.com/smallwonder/storefront-api/internal/tickets"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
)

type abandonedCartItemRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type abandonedCartRequest struct {
	Email     string                     `json:"email" validate:"required,email"`
	FirstName string                     `json:"firstName" validate:"omitempty,max=120"`
	CartURL   string                     `json:"cartUrl" validate:"required,url"`
	Items     []abandonedCartItemRequest `json:"items" validate:"omitempty,max=50,dive"`
}

// SendAbandonedCart triggers one cart recovery email.
func SendAbandonedCart(svc emails.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "email service unavailable"))
			return
		}

		var req abandonedCartRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items := make([]emails.AbandonedCartItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, emails.AbandonedCartItem{
				Name:     validators.SanitizeString(item.Name, 200),
				Quantity: item.Quantity,
			})
		}

		err := svc.SendAbandonedCart(ctx, emails.AbandonedCartRequest{
			ToEmail:   req.Email,
			FirstName: validators.SanitizeString(req.FirstName, 120),
			CartURL:   req.CartURL,
			Items:     items,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "sent"})
	}
}

type customerServiceRequest struct {
	Name           string `json:"name" validate:"required,max=120"`
	Email          string `json:"email" validate:"required,email"`
	Subject        string `json:"subject" validate:"required,max=200"`
	Message        string `json:"message" validate:"required,max=8000"`
	OrderReference string `json:"orderReference" validate:"omitempty,max=64"`
}

type customerServiceResponse struct {
	TicketID  string `json:"ticketId"`
	EmailSent bool   `json:"emailSent"`
}

// SubmitCustomerService persists a support ticket and fans out the
// notification emails. A send failure still returns the stored ticket.
func SubmitCustomerService(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ticket service unavailable"))
			return
		}

		var req customerServiceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ticket, err := svc.Submit(ctx, tickets.SubmitRequest{
			CustomerName:   validators.SanitizeString(req.Name, 120),
			CustomerEmail:  req.Email,
			Subject:        validators.SanitizeString(req.Subject, 200),
			Message:        validators.SanitizeString(req.Message, 8000),
			OrderReference: validators.SanitizeString(req.OrderReference, 64),
		})
		if err != nil {
			if ticket == nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccessStatus(w, http.StatusAccepted, customerServiceResponse{
				TicketID:  ticket.ID.String(),
				EmailSent: false,
			})
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, customerServiceResponse{
			TicketID:  ticket.ID.String(),
			EmailSent: true,
		})
	}
}
