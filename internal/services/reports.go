package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hk-blood-donation/internal/models"
)

const (
	statsCacheKey = "reports:stats"
	statsCacheTTL = time.Minute
)

var (
	ErrUnknownReportType = errors.New("invalid report type")
	ErrInvalidDateRange  = errors.New("invalid date range")
)

type Stats struct {
	TotalDonors       int64 `json:"totalDonors"`
	TotalRequests     int64 `json:"totalRequests"`
	ActiveRequests    int64 `json:"activeRequests"`
	ThisMonthRequests int64 `json:"thisMonthRequests"`
}

type BloodTypeCount struct {
	BloodType string `json:"blood_type"`
	Count     int64  `json:"count"`
}

type UrgencyCount struct {
	Urgency string `json:"urgency"`
	Count   int64  `json:"count"`
}

// ReportService serves the admin dashboard aggregations. The stats
// overview is cached in redis for a minute, best-effort: cache errors
// are logged and the query falls through to the database.
type ReportService struct {
	db  *gorm.DB
	rdb *redis.Client
	log *zap.Logger
}

func NewReportService(db *gorm.DB, rdb *redis.Client, log *zap.Logger) *ReportService {
	return &ReportService{db: db, rdb: rdb, log: log}
}

func (s *ReportService) Stats(ctx context.Context) (*Stats, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, statsCacheKey).Result()
		if err == nil {
			var st Stats
			if json.Unmarshal([]byte(raw), &st) == nil {
				return &st, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn("stats cache read failed", zap.Error(err))
		}
	}

	var st Stats
	if err := s.db.WithContext(ctx).Model(&models.Donor{}).Count(&st.TotalDonors).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.BloodRequest{}).Count(&st.TotalRequests).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.BloodRequest{}).
		Where("status = ?", models.StatusActive).Count(&st.ActiveRequests).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := s.db.WithContext(ctx).Model(&models.BloodRequest{}).
		Where("created_at >= ?", monthStart).Count(&st.ThisMonthRequests).Error; err != nil {
		return nil, err
	}

	if s.rdb != nil {
		raw, _ := json.Marshal(st)
		if err := s.rdb.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err(); err != nil {
			s.log.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return &st, nil
}

// Generate builds one of the donors/requests/inventory reports, with
// an optional created_at window when both dates are given.
func (s *ReportService) Generate(ctx context.Context, reportType, startDate, endDate string) (map[string]interface{}, error) {
	switch reportType {
	case "donors":
		return s.donorReport(ctx, startDate, endDate)
	case "requests":
		return s.requestReport(ctx, startDate, endDate)
	case "inventory":
		return s.inventoryReport(ctx, startDate, endDate)
	default:
		return nil, ErrUnknownReportType
	}
}

func (s *ReportService) donorReport(ctx context.Context, startDate, endDate string) (map[string]interface{}, error) {
	scope, err := s.scoped(ctx, &models.Donor{}, startDate, endDate)
	if err != nil {
		return nil, err
	}
	var total, positive, negative int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("blood_type LIKE ?", "%+").Count(&positive).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("blood_type LIKE ?", "%-").Count(&negative).Error; err != nil {
		return nil, err
	}
	var byType []BloodTypeCount
	if err := scope().Select("blood_type, COUNT(*) AS count").
		Group("blood_type").Order("count DESC").Scan(&byType).Error; err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"summary": map[string]int64{
			"total_donors":    total,
			"positive_donors": positive,
			"negative_donors": negative,
		},
		"bloodTypes": byType,
	}, nil
}

func (s *ReportService) requestReport(ctx context.Context, startDate, endDate string) (map[string]interface{}, error) {
	scope, err := s.scoped(ctx, &models.BloodRequest{}, startDate, endDate)
	if err != nil {
		return nil, err
	}
	summary := map[string]int64{}
	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, err
	}
	summary["total_requests"] = total
	for _, status := range []string{models.StatusActive, models.StatusFulfilled, models.StatusCancelled} {
		var n int64
		if err := scope().Where("status = ?", status).Count(&n).Error; err != nil {
			return nil, err
		}
		switch status {
		case models.StatusActive:
			summary["active_requests"] = n
		case models.StatusFulfilled:
			summary["fulfilled_requests"] = n
		case models.StatusCancelled:
			summary["cancelled_requests"] = n
		}
	}
	var byUrgency []UrgencyCount
	if err := scope().Select("urgency, COUNT(*) AS count").
		Group("urgency").Order(models.UrgencyRankExpr).Scan(&byUrgency).Error; err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"summary":          summary,
		"urgencyBreakdown": byUrgency,
	}, nil
}

func (s *ReportService) inventoryReport(ctx context.Context, startDate, endDate string) (map[string]interface{}, error) {
	scope, err := s.scoped(ctx, &models.Donor{}, startDate, endDate)
	if err != nil {
		return nil, err
	}
	var inventory []struct {
		BloodType       string `json:"blood_type"`
		AvailableDonors int64  `json:"available_donors"`
	}
	if err := scope().Select("blood_type, COUNT(*) AS available_donors").
		Group("blood_type").Order("blood_type").Scan(&inventory).Error; err != nil {
		return nil, err
	}
	return map[string]interface{}{"bloodInventory": inventory}, nil
}

// scoped returns a query factory over the model, window-filtered when
// both dates parse as YYYY-MM-DD. The end date is inclusive.
func (s *ReportService) scoped(ctx context.Context, model interface{}, startDate, endDate string) (func() *gorm.DB, error) {
	if startDate == "" || endDate == "" {
		return func() *gorm.DB {
			return s.db.WithContext(ctx).Model(model)
		}, nil
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	until := end.AddDate(0, 0, 1)
	return func() *gorm.DB {
		return s.db.WithContext(ctx).Model(model).
			Where("created_at >= ? AND created_at < ?", start, until)
	}, nil
}
