package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FullName     string `gorm:"not null" json:"full_name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Aadhar       string `gorm:"uniqueIndex;not null" json:"aadhar"`
	BloodType    string `gorm:"not null" json:"blood_type"`
	Phone        string `gorm:"uniqueIndex;not null" json:"phone"`
	Address      string `json:"address"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `gorm:"default:false" json:"is_admin"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}
