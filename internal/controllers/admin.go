package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hk-blood-donation/internal/models"
	"hk-blood-donation/internal/services"
)

type AdminController struct {
	db      *gorm.DB
	reports *services.ReportService
	log     *zap.Logger
}

func NewAdminController(db *gorm.DB, reports *services.ReportService, log *zap.Logger) *AdminController {
	return &AdminController{db: db, reports: reports, log: log}
}

func (a *AdminController) ListDonors(c *gin.Context) {
	var donors []models.Donor
	if err := a.db.Order("created_at DESC").Find(&donors).Error; err != nil {
		a.log.Error("failed to fetch donors", zap.Error(err))
		serverError(c, "Failed to fetch donors")
		return
	}

	items := make([]gin.H, 0, len(donors))
	for _, d := range donors {
		items = append(items, gin.H{
			"id":           d.ID,
			"name":         d.Name,
			"email":        d.Email,
			"bloodType":    d.BloodType,
			"phone":        d.Phone,
			"address":      d.Address,
			"lastDonation": d.CreatedAt,
			"status":       "Active",
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "donors": items})
}

func (a *AdminController) DeleteDonor(c *gin.Context) {
	res := a.db.Delete(&models.Donor{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		a.log.Error("failed to delete donor", zap.Error(res.Error))
		serverError(c, "Failed to delete donor")
		return
	}
	if res.RowsAffected == 0 {
		notFound(c, "Donor not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Donor deleted successfully",
	})
}

func (a *AdminController) ListRequests(c *gin.Context) {
	var requests []models.BloodRequest
	err := a.db.Order(models.UrgencyRankExpr + ", created_at DESC").Find(&requests).Error
	if err != nil {
		a.log.Error("failed to fetch requests", zap.Error(err))
		serverError(c, "Failed to fetch requests")
		return
	}

	items := make([]gin.H, 0, len(requests))
	for _, r := range requests {
		items = append(items, gin.H{
			"id":             r.ID,
			"patientName":    r.PatientName,
			"bloodType":      r.BloodType,
			"units":          r.UnitsNeeded,
			"urgency":        r.Urgency,
			"hospital":       r.Hospital,
			"requesterPhone": r.Phone,
			"status":         r.Status,
			"requestDate":    r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "requests": items})
}

// UpdateRequestStatus moves a request to a new status and stamps
// updated_at.
func (a *AdminController) UpdateRequestStatus(c *gin.Context) {
	var p struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&p); err != nil || !models.ValidStatus(p.Status) {
		badRequest(c, "Invalid status")
		return
	}

	res := a.db.Model(&models.BloodRequest{}).
		Where("id = ?", c.Param("id")).
		Updates(map[string]interface{}{
			"status":     p.Status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		a.log.Error("failed to update request status", zap.Error(res.Error))
		serverError(c, "Failed to update request status")
		return
	}
	if res.RowsAffected == 0 {
		notFound(c, "Request not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Request status updated successfully",
	})
}

func (a *AdminController) GenerateReport(c *gin.Context) {
	var p struct {
		ReportType string `json:"reportType"`
		StartDate  string `json:"startDate"`
		EndDate    string `json:"endDate"`
	}
	if err := c.ShouldBindJSON(&p); err != nil || p.ReportType == "" {
		badRequest(c, "Report type is required")
		return
	}

	data, err := a.reports.Generate(c.Request.Context(), p.ReportType, p.StartDate, p.EndDate)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownReportType):
			badRequest(c, "Invalid report type")
		case errors.Is(err, services.ErrInvalidDateRange):
			badRequest(c, "Invalid date range")
		default:
			a.log.Error("failed to generate report", zap.Error(err))
			serverError(c, "Failed to generate report")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"reportType": p.ReportType,
		"dateRange": gin.H{
			"startDate": p.StartDate,
			"endDate":   p.EndDate,
		},
		"data":        data,
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *AdminController) Stats(c *gin.Context) {
	stats, err := a.reports.Stats(c.Request.Context())
	if err != nil {
		a.log.Error("failed to fetch stats", zap.Error(err))
		serverError(c, "Failed to fetch statistics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
