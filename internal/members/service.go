package members

import (
	"context"
	"strings"

	"github.com/smallwonder/storefront-api/internal/commerce"
	"github.com/smallwonder/storefront-api/pkg/errors"
)

// Backend is the slice of the commerce client the members service needs.
type Backend interface {
	GetMember(ctx context.Context, memberID string) (*commerce.Member, error)
	UpdateMember(ctx context.Context, memberID string, req commerce.UpdateMemberRequest) (*commerce.Member, error)
}

type Service interface {
	Get(ctx context.Context, memberID string) (*commerce.Member, error)
	Update(ctx context.Context, memberID string, req commerce.UpdateMemberRequest) (*commerce.Member, error)
}

type service struct {
	backend Backend
}

func NewService(backend Backend) (Service, error) {
	if backend == nil {
		return nil, errors.New(errors.CodeInternal, "commerce backend is required")
	}
	return &service{backend: backend}, nil
}

func (s *service) Get(ctx context.Context, memberID string) (*commerce.Member, error) {
	if strings.TrimSpace(memberID) == "" {
		return nil, errors.New(errors.CodeUnauthorized, "member session required")
	}
	return s.backend.GetMember(ctx, memberID)
}

func (s *service) Update(ctx context.Context, memberID string, req commerce.UpdateMemberRequest) (*commerce.Member, error) {
	if strings.TrimSpace(memberID) == "" {
		return nil, errors.New(errors.CodeUnauthorized, "member session required")
	}
	if req.FirstName == nil && req.LastName == nil && req.Phone == nil {
		return nil, errors.New(errors.CodeValidation, "nothing to update")
	}
	return s.backend.UpdateMember(ctx, memberID, req)
}
