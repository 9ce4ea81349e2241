package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wellyonfilm/internal/models"
)

// CommunityStats are the aggregate figures shown on the home page
type CommunityStats struct {
	TotalSubmissions    int64           `json:"total_submissions"`
	UniquePhotographers int64           `json:"unique_photographers"`
	MonthsPublished     int64           `json:"months_published"`
	FeaturedPhotos      int64           `json:"featured_photos"`
	FeaturedRate        decimal.Decimal `json:"featured_rate"`
	AvgPerPhotographer  decimal.Decimal `json:"avg_per_photographer"`
}

// StatsService computes community aggregates over active submissions
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a new StatsService
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// GetCommunityStats returns the community aggregates. Removed and
// deleted submissions are excluded throughout.
func (s *StatsService) GetCommunityStats() (*CommunityStats, error) {
	var stats CommunityStats

	active := func() *gorm.DB {
		return s.db.Model(&models.Submission{}).
			Where("is_removed = ? AND deleted_at IS NULL", false)
	}

	if err := active().Count(&stats.TotalSubmissions).Error; err != nil {
		return nil, err
	}

	if err := active().Distinct("user_id").Count(&stats.UniquePhotographers).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Month{}).
		Where("status = ?", models.MonthStatusClosed).
		Count(&stats.MonthsPublished).Error; err != nil {
		return nil, err
	}

	if err := active().Where("is_featured = ?", true).Count(&stats.FeaturedPhotos).Error; err != nil {
		return nil, err
	}

	if stats.TotalSubmissions > 0 {
		stats.FeaturedRate = decimal.NewFromInt(stats.FeaturedPhotos).
			Div(decimal.NewFromInt(stats.TotalSubmissions)).Round(4)
	}
	if stats.UniquePhotographers > 0 {
		stats.AvgPerPhotographer = decimal.NewFromInt(stats.TotalSubmissions).
			Div(decimal.NewFromInt(stats.UniquePhotographers)).Round(2)
	}

	return &stats, nil
}
