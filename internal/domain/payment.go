package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a gateway payment.
type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "INITIATED"
	PaymentSuccess   PaymentStatus = "SUCCESS"
	PaymentFailed    PaymentStatus = "FAILED"
)

// IsTerminal reports whether no further transition is allowed.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentSuccess || s == PaymentFailed
}

// CanTransition reports whether s may move to next.
// INITIATED is the only state with outgoing edges.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	return s == PaymentInitiated && next.IsTerminal()
}

// DefaultCurrency is used when a payment request omits one.
const DefaultCurrency = "AED"

// Payment is a hosted-payment-page session for an order.
type Payment struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	OrderID              string          `gorm:"size:100;not null;index" json:"order_id"`
	TransactionReference *string         `gorm:"size:100;uniqueIndex" json:"transaction_reference"`
	Amount               decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency             string          `gorm:"size:10;not null" json:"currency"`
	Status               PaymentStatus   `gorm:"size:20;not null;index" json:"status"`
	CustomerEmail        string          `gorm:"size:254;not null" json:"customer_email"`
	CustomerName         string          `gorm:"size:120;not null" json:"customer_name"`
	// LastEventSeq is the gateway event sequence of the last applied status change.
	LastEventSeq int64     `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}
