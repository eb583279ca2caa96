package domain

import "time"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment is one checkout attempt against the hosted provider. SessionID is
// the provider-issued handle the client polls with.
type Payment struct {
	ID                   string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BookingID            string        `json:"booking_id" gorm:"index;type:varchar(36);not null"`
	SessionID            string        `json:"session_id" gorm:"uniqueIndex;not null"`
	Amount               float64       `json:"amount"`
	Method               string        `json:"method" gorm:"type:varchar(16);default:'stripe'"`
	Status               PaymentStatus `json:"status" gorm:"type:varchar(16);default:'pending';index"`
	TransactionReference string        `json:"transaction_reference"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

func (Payment) TableName() string { return "payment_transactions" }
