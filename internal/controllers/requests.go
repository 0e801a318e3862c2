package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hk-blood-donation/internal/models"
	"hk-blood-donation/internal/services"
)

type RequestController struct {
	db       *gorm.DB
	verifier *services.VerificationService
	log      *zap.Logger
}

func NewRequestController(db *gorm.DB, verifier *services.VerificationService, log *zap.Logger) *RequestController {
	return &RequestController{db: db, verifier: verifier, log: log}
}

func (r *RequestController) SendVerification(c *gin.Context) {
	var p struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&p); err != nil || p.Email == "" {
		badRequest(c, "Email is required")
		return
	}
	if err := r.verifier.SendCode(c.Request.Context(), p.Email); err != nil {
		serverError(c, "Failed to send verification email")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Verification code sent to %s. Please check your inbox.", p.Email),
	})
}

func (r *RequestController) VerifyEmail(c *gin.Context) {
	var p struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := c.ShouldBindJSON(&p); err != nil || p.Email == "" || p.Code == "" {
		badRequest(c, "Email and code are required")
		return
	}
	if err := r.verifier.VerifyCode(c.Request.Context(), p.Email, p.Code); err != nil {
		if errors.Is(err, services.ErrCodeInvalid) {
			badRequest(c, "Invalid or expired verification code")
			return
		}
		serverError(c, "Failed to verify email")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email verified successfully! You can now submit the request.",
	})
}

type requestPayload struct {
	PatientName     string `json:"patientName"`
	BloodType       string `json:"bloodType"`
	UnitsNeeded     int    `json:"unitsNeeded"`
	Urgency         string `json:"urgency"`
	Hospital        string `json:"hospital"`
	HospitalAddress string `json:"hospitalAddress"`
	ContactName     string `json:"contactName"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
}

// Submit files a new blood request for a verified email. Requests
// start Active.
func (r *RequestController) Submit(c *gin.Context) {
	var p requestPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "All fields are required")
		return
	}
	if p.PatientName == "" || p.BloodType == "" || p.UnitsNeeded == 0 || p.Urgency == "" ||
		p.Hospital == "" || p.HospitalAddress == "" || p.ContactName == "" || p.Phone == "" || p.Email == "" {
		badRequest(c, "All fields are required")
		return
	}

	verified, err := r.verifier.IsVerified(c.Request.Context(), p.Email)
	if err != nil {
		serverError(c, "Failed to submit blood request")
		return
	}
	if !verified {
		badRequest(c, "Email not verified. Please verify your email first.")
		return
	}

	req := models.BloodRequest{
		PatientName:     p.PatientName,
		BloodType:       p.BloodType,
		UnitsNeeded:     p.UnitsNeeded,
		Urgency:         p.Urgency,
		Hospital:        p.Hospital,
		HospitalAddress: p.HospitalAddress,
		ContactName:     p.ContactName,
		Phone:           p.Phone,
		Email:           p.Email,
		Status:          models.StatusActive,
	}
	if err := r.db.Create(&req).Error; err != nil {
		r.log.Error("failed to create blood request", zap.Error(err))
		serverError(c, "Failed to submit blood request")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Blood request submitted successfully!",
		"request": gin.H{
			"id":           req.ID,
			"patient_name": req.PatientName,
			"blood_type":   req.BloodType,
		},
	})
}

// ListActive returns open requests, most urgent first.
func (r *RequestController) ListActive(c *gin.Context) {
	var requests []models.BloodRequest
	err := r.db.Where("status = ?", models.StatusActive).
		Order(models.UrgencyRankExpr + ", created_at DESC").
		Find(&requests).Error
	if err != nil {
		r.log.Error("failed to fetch blood requests", zap.Error(err))
		serverError(c, "Failed to fetch blood requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "requests": requests})
}
