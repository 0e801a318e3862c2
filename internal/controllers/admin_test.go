package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hk-blood-donation/internal/middleware"
	"hk-blood-donation/internal/models"
	"hk-blood-donation/internal/services"
)

func newAdminRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	reports := services.NewReportService(conn, nil, zap.NewNop())
	admin := NewAdminController(conn, reports, zap.NewNop())

	r := gin.New()
	g := r.Group("/api/admin", middleware.AdminMiddleware(testSecret))
	g.GET("/donors", admin.ListDonors)
	g.DELETE("/donors/:id", admin.DeleteDonor)
	g.POST("/reports/generate", admin.GenerateReport)
	g.GET("/reports/stats", admin.Stats)
	return r, conn
}

func TestAdminDonorListAndDelete(t *testing.T) {
	r, conn := newAdminRouter(t)
	donor := models.Donor{Name: "R", Age: 40, BloodType: "AB-", Phone: "5", Email: "r@d.com", Address: "X"}
	require.NoError(t, conn.Create(&donor).Error)
	token := adminToken(t)

	w := doJSON(t, r, http.MethodGet, "/api/admin/donors", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["donors"].([]interface{})
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "AB-", first["bloodType"])
	assert.Equal(t, "Active", first["status"])

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/donors/%d", donor.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/donors/%d", donor.ID), nil, token)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Donor not found", decode(t, w)["error"])
}

func TestAdminReportEndpoints(t *testing.T) {
	r, conn := newAdminRouter(t)
	require.NoError(t, conn.Create(&models.Donor{Name: "S", Age: 22, BloodType: "O+", Phone: "6", Email: "s@d.com"}).Error)
	require.NoError(t, conn.Create(&models.BloodRequest{
		PatientName: "P", BloodType: "O+", UnitsNeeded: 1, Urgency: "High",
		Hospital: "H", Email: "p@x.com", Status: models.StatusActive,
	}).Error)
	token := adminToken(t)

	w := doJSON(t, r, http.MethodPost, "/api/admin/reports/generate", map[string]string{"reportType": "donors"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "donors", resp["reportType"])
	data := resp["data"].(map[string]interface{})
	summary := data["summary"].(map[string]interface{})
	assert.Equal(t, float64(1), summary["total_donors"])

	w = doJSON(t, r, http.MethodPost, "/api/admin/reports/generate", map[string]string{"reportType": "payroll"}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid report type", decode(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/admin/reports/generate", map[string]string{}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Report type is required", decode(t, w)["error"])

	w = doJSON(t, r, http.MethodGet, "/api/admin/reports/stats", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["totalDonors"])
	assert.Equal(t, float64(1), stats["activeRequests"])
}
