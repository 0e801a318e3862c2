package models

import (
	"time"
)

// EmailVerification is one issued OTP. Rows are never deleted; a fresh
// row is inserted for every send and the matching row is flagged
// verified on a successful check.
type EmailVerification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Email     string    `gorm:"index;not null" json:"email"`
	Code      string    `gorm:"not null" json:"-"`
	Verified  bool      `gorm:"default:false" json:"verified"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
