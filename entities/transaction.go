package entities

import (
	"time"

	"github.com/google/uuid"
)

type Transaction struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID  `gorm:"index" json:"user_id"`
	OrderID     string     `gorm:"uniqueIndex" json:"order_id"`
	Plan        string     `json:"plan"` // monthly, annual
	Amount      int64      `json:"amount"`
	Status      string     `json:"status"` // Pending, Paid, Failed
	SnapToken   string     `json:"snap_token,omitempty"`
	InvoiceURL  string     `json:"invoice_url,omitempty"`
	PaymentType string     `json:"payment_type,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
