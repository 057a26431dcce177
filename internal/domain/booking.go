package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus tracks a booking through fulfilment.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Booking is a customer's request for a service package plus addons.
// TotalPrice is fixed at creation and never recomputed.
type Booking struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ServiceID       uint            `gorm:"not null;index" json:"service"`
	Service         Service         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PackageID       uint            `gorm:"not null;index" json:"package"`
	Package         Package         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Addons          []Addon         `gorm:"many2many:booking_addons;" json:"-"`
	CustomerName    string          `gorm:"size:100;not null" json:"customer_name"`
	CustomerEmail   string          `gorm:"size:254;not null;index" json:"customer_email"`
	CustomerPhone   string          `gorm:"size:20;not null" json:"customer_phone"`
	Address         string          `gorm:"type:text;not null" json:"address"`
	BookingDate     time.Time       `gorm:"not null" json:"booking_date"`
	SpecialRequests string          `gorm:"type:text" json:"special_requests"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status          BookingStatus   `gorm:"size:20;not null;index" json:"status"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}
