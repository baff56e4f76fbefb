package tickets

import (
	"time"

	"github.com/google/uuid"
)

// SupportTicket is one customer-service submission. Rows are written before
// the notification email goes out, so a failed send still leaves a record.
type SupportTicket struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerName   string    `gorm:"not null" json:"customerName"`
	CustomerEmail  string    `gorm:"not null;index" json:"customerEmail"`
	Subject        string    `gorm:"not null" json:"subject"`
	Message        string    `gorm:"not null" json:"message"`
	OrderReference string    `json:"orderReference,omitempty"`
	EmailSent      bool      `gorm:"not null;default:false" json:"emailSent"`
	CreatedAt      time.Time `gorm:"not null" json:"createdAt"`
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}
