package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hk-blood-donation/internal/models"
)

type DonationController struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewDonationController(db *gorm.DB, log *zap.Logger) *DonationController {
	return &DonationController{db: db, log: log}
}

// History maps a donor's registration records onto donation entries
// for the profile page.
func (d *DonationController) History(c *gin.Context) {
	var p struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&p); err != nil || p.Email == "" {
		badRequest(c, "Email is required")
		return
	}

	var donors []models.Donor
	if err := d.db.Where("email = ?", p.Email).Find(&donors).Error; err != nil {
		d.log.Error("failed to fetch donation history", zap.Error(err))
		serverError(c, "Failed to fetch donation history")
		return
	}

	donations := make([]gin.H, 0, len(donors))
	for _, donor := range donors {
		donations = append(donations, gin.H{
			"id":        fmt.Sprintf("donor_%s_%d", donor.Name, donor.CreatedAt.Unix()),
			"bloodType": donor.BloodType,
			"units":     1,
			"date":      donor.CreatedAt,
			"location":  "Blood Bank Center",
			"status":    "Completed",
			"recipient": "Blood Bank",
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "donations": donations})
}

// RequestsHistory lists the blood requests filed with an email.
func (d *DonationController) RequestsHistory(c *gin.Context) {
	var p struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&p); err != nil || p.Email == "" {
		badRequest(c, "Email is required")
		return
	}

	var requests []models.BloodRequest
	if err := d.db.Where("email = ?", p.Email).Order("created_at DESC").Find(&requests).Error; err != nil {
		d.log.Error("failed to fetch request history", zap.Error(err))
		serverError(c, "Failed to fetch request history")
		return
	}

	items := make([]gin.H, 0, len(requests))
	for _, req := range requests {
		items = append(items, gin.H{
			"id":          req.ID,
			"patientName": req.PatientName,
			"bloodType":   req.BloodType,
			"units":       req.UnitsNeeded,
			"urgency":     req.Urgency,
			"hospital":    req.Hospital,
			"status":      req.Status,
			"date":        req.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "requests": items})
}
