package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hk-blood-donation/internal/models"
	"hk-blood-donation/internal/services"
)

type DonorController struct {
	db       *gorm.DB
	verifier *services.VerificationService
	log      *zap.Logger
}

func NewDonorController(db *gorm.DB, verifier *services.VerificationService, log *zap.Logger) *DonorController {
	return &DonorController{db: db, verifier: verifier, log: log}
}

func (d *DonorController) SendVerification(c *gin.Context) {
	var p struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&p); err != nil || p.Email == "" {
		badRequest(c, "Email is required")
		return
	}
	if err := d.verifier.SendCode(c.Request.Context(), p.Email); err != nil {
		serverError(c, "Failed to send verification email")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Verification code sent to %s. Please check your inbox.", p.Email),
	})
}

func (d *DonorController) VerifyEmail(c *gin.Context) {
	var p struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := c.ShouldBindJSON(&p); err != nil || p.Email == "" || p.Code == "" {
		badRequest(c, "Email and code are required")
		return
	}
	if err := d.verifier.VerifyCode(c.Request.Context(), p.Email, p.Code); err != nil {
		if errors.Is(err, services.ErrCodeInvalid) {
			badRequest(c, "Invalid or expired verification code")
			return
		}
		serverError(c, "Failed to verify email")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email verified successfully! You can now submit the form.",
	})
}

type donorPayload struct {
	Name      string `json:"name"`
	Age       int    `json:"age"`
	BloodType string `json:"bloodType"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

// Register creates a donor record for a verified email.
func (d *DonorController) Register(c *gin.Context) {
	var p donorPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "All fields are required")
		return
	}
	if p.Name == "" || p.Age == 0 || p.BloodType == "" || p.Phone == "" || p.Email == "" || p.Address == "" {
		badRequest(c, "All fields are required")
		return
	}

	verified, err := d.verifier.IsVerified(c.Request.Context(), p.Email)
	if err != nil {
		serverError(c, "Failed to register donor")
		return
	}
	if !verified {
		badRequest(c, "Email not verified. Please verify your email first.")
		return
	}

	var count int64
	if err := d.db.Model(&models.Donor{}).
		Where("email = ? OR phone = ?", p.Email, p.Phone).
		Count(&count).Error; err != nil {
		d.log.Error("failed to check duplicate donor", zap.Error(err))
		serverError(c, "Failed to register donor")
		return
	}
	if count > 0 {
		badRequest(c, "Donor with this email or phone already exists")
		return
	}

	donor := models.Donor{
		Name:      p.Name,
		Age:       p.Age,
		BloodType: p.BloodType,
		Phone:     p.Phone,
		Email:     p.Email,
		Address:   p.Address,
	}
	if err := d.db.Create(&donor).Error; err != nil {
		d.log.Error("failed to create donor", zap.Error(err))
		badRequest(c, "Donor with this email or phone already exists")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration submitted successfully!",
		"donor": gin.H{
			"id":    donor.ID,
			"name":  donor.Name,
			"email": donor.Email,
		},
	})
}

func (d *DonorController) List(c *gin.Context) {
	var donors []models.Donor
	if err := d.db.Order("created_at DESC").Find(&donors).Error; err != nil {
		d.log.Error("failed to fetch donors", zap.Error(err))
		serverError(c, "Failed to fetch donors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "donors": donors})
}

func (d *DonorController) ByBloodType(c *gin.Context) {
	var donors []models.Donor
	if err := d.db.Where("blood_type = ?", c.Param("type")).Find(&donors).Error; err != nil {
		d.log.Error("failed to fetch donors by blood type", zap.Error(err))
		serverError(c, "Failed to fetch donors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "donors": donors})
}

// Search filters donors by blood type and an optional case-insensitive
// address substring.
func (d *DonorController) Search(c *gin.Context) {
	var p struct {
		BloodType string `json:"bloodType"`
		Location  string `json:"location"`
	}
	if err := c.ShouldBindJSON(&p); err != nil || p.BloodType == "" {
		badRequest(c, "Blood type is required")
		return
	}

	q := d.db.Where("blood_type = ?", p.BloodType)
	if loc := strings.TrimSpace(p.Location); loc != "" {
		q = q.Where("LOWER(address) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}

	var donors []models.Donor
	if err := q.Order("created_at DESC").Find(&donors).Error; err != nil {
		d.log.Error("failed to search donors", zap.Error(err))
		serverError(c, "Failed to search donors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "donors": donors})
}
