package tickets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles support ticket persistence.
type Repository interface {
	Create(ctx context.Context, ticket *SupportTicket) error
	MarkEmailSent(ctx context.Context, id uuid.UUID) error
	ListRecentByEmail(ctx context.Context, email string, limit int) ([]SupportTicket, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ticket repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ticket *SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *repository) MarkEmailSent(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&SupportTicket{}).
		Where("id = ?", id).
		Update("email_sent", true).Error
}

func (r *repository) ListRecentByEmail(ctx context.Context, email string, limit int) ([]SupportTicket, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []SupportTicket
	if err := r.db.WithContext(ctx).
		Where("customer_email = ?", email).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
