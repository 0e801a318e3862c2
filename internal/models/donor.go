package models

import (
	"time"
)

type Donor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name      string `gorm:"not null" json:"name"`
	Age       int    `gorm:"not null" json:"age"`
	BloodType string `gorm:"not null;index" json:"blood_type"`
	Phone     string `gorm:"uniqueIndex;not null" json:"phone"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Address   string `json:"address"`
}
