package domain

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account holder. Email is the login identifier and
// Phone is stored in canonical +9715XXXXXXXX form.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name           string     `gorm:"size:255;not null" json:"name"`
	Phone          string     `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	HashedPassword string     `gorm:"not null" json:"-"`
	IsActive       bool       `gorm:"not null" json:"is_active"`
	IsAdmin        bool       `gorm:"not null" json:"is_admin"`
	IsStaff        bool       `gorm:"not null" json:"is_staff"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLogin      *time.Time `json:"last_login"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := tx.NowFunc()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate hook
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = tx.NowFunc()
	return nil
}

// BlacklistedToken records a refresh token id that may no longer be exchanged.
type BlacklistedToken struct {
	JTI       string    `gorm:"primaryKey;size:64" json:"jti"`
	UserID    uint      `gorm:"index" json:"user_id"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for BlacklistedToken
func (BlacklistedToken) TableName() string {
	return "token_blacklist"
}
