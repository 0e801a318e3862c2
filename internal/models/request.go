package models

import (
	"time"
)

// Blood request statuses. Active requests may move to Fulfilled or
// Cancelled; both are terminal.
const (
	StatusActive    = "Active"
	StatusFulfilled = "Fulfilled"
	StatusCancelled = "Cancelled"
)

// Urgency levels, most urgent first.
const (
	UrgencyCritical = "Critical"
	UrgencyHigh     = "High"
	UrgencyMedium   = "Medium"
	UrgencyLow      = "Low"
)

// UrgencyRankExpr orders requests Critical → Low in SQL.
const UrgencyRankExpr = "CASE urgency WHEN 'Critical' THEN 1 WHEN 'High' THEN 2 WHEN 'Medium' THEN 3 WHEN 'Low' THEN 4 ELSE 5 END"

type BloodRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PatientName     string `gorm:"not null" json:"patient_name"`
	BloodType       string `gorm:"not null;index" json:"blood_type"`
	UnitsNeeded     int    `gorm:"not null" json:"units_needed"`
	Urgency         string `gorm:"not null" json:"urgency"`
	Hospital        string `gorm:"not null" json:"hospital"`
	HospitalAddress string `json:"hospital_address"`
	ContactName     string `json:"contact_name"`
	Phone           string `json:"phone"`
	Email           string `gorm:"index" json:"email"`
	Status          string `gorm:"not null;default:Active;index" json:"status"`
}

func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusFulfilled || s == StatusCancelled
}
