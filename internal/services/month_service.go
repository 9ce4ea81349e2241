package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/google/uuid"

	"wellyonfilm/internal/models"
	"wellyonfilm/internal/utils"
)

// MonthService owns the month lifecycle state machine:
// open -> judging -> closed, one direction only, at most one month
// open at a time.
type MonthService struct {
	db       *gorm.DB
	location *time.Location
	openDay  int
	closeDay int
	mu       sync.Mutex
}

// NewMonthService creates a new MonthService. The location is the
// community timezone used to build submission windows.
func NewMonthService(db *gorm.DB, location *time.Location, openDay, closeDay int) *MonthService {
	return &MonthService{
		db:       db,
		location: location,
		openDay:  openDay,
		closeDay: closeDay,
	}
}

// CreateMonthInput describes a new monthly cycle
type CreateMonthInput struct {
	MonthYear        string  `json:"month_year" binding:"required"`
	ThemeName        string  `json:"theme_name" binding:"required"`
	ThemeDescription string  `json:"theme_description"`
	SponsorName      *string `json:"sponsor_name"`
	SponsorURL       *string `json:"sponsor_url"`
}

// CreateMonth opens a new cycle. Rejected while another month is
// still open.
func (s *MonthService) CreateMonth(input CreateMonthInput) (*models.Month, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, closeAt, err := utils.MonthWindow(input.MonthYear, s.openDay, s.closeDay, s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMonthKey, err)
	}

	month := models.Month{
		ID:               uuid.New(),
		MonthYear:        input.MonthYear,
		ThemeName:        input.ThemeName,
		ThemeDescription: input.ThemeDescription,
		SponsorName:      input.SponsorName,
		SponsorURL:       input.SponsorURL,
		SubmissionsOpen:  open,
		SubmissionsClose: closeAt,
		Status:           models.MonthStatusOpen,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var openCount int64
		if err := tx.Model(&models.Month{}).
			Where("status = ?", models.MonthStatusOpen).
			Count(&openCount).Error; err != nil {
			return err
		}
		if openCount > 0 {
			return ErrMonthAlreadyOpen
		}

		var existing models.Month
		if err := tx.Where("month_year = ?", input.MonthYear).First(&existing).Error; err == nil {
			return fmt.Errorf("%w: %s", ErrMonthExists, input.MonthYear)
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		return tx.Create(&month).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Month %s opened (theme: %s)", month.MonthYear, month.ThemeName)
	return &month, nil
}

// GetCurrentMonth returns the open month, if any
func (s *MonthService) GetCurrentMonth() (*models.Month, error) {
	var month models.Month
	err := s.db.Where("status = ?", models.MonthStatusOpen).First(&month).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &month, nil
}

// GetMonthByKey returns a month by its "YYYY-MM" slug
func (s *MonthService) GetMonthByKey(monthYear string) (*models.Month, error) {
	var month models.Month
	err := s.db.Where("month_year = ?", monthYear).First(&month).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &month, nil
}

// ListMonths returns all months, newest first
func (s *MonthService) ListMonths() ([]models.Month, error) {
	var months []models.Month
	if err := s.db.Order("month_year DESC").Find(&months).Error; err != nil {
		return nil, err
	}
	return months, nil
}

// GetMonthWithStats returns a month with its submission aggregates
func (s *MonthService) GetMonthWithStats(monthYear string) (*models.MonthWithStats, error) {
	month, err := s.GetMonthByKey(monthYear)
	if err != nil {
		return nil, err
	}

	stats := models.MonthWithStats{Month: *month}

	active := s.db.Model(&models.Submission{}).
		Where("month_year = ? AND is_removed = ? AND deleted_at IS NULL", monthYear, false)
	if err := active.Count(&stats.SubmissionCount).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Submission{}).
		Where("month_year = ? AND is_removed = ? AND deleted_at IS NULL AND is_featured = ?",
			monthYear, false, true).
		Count(&stats.FeaturedCount).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// GetArchivedMonths returns closed months as archive summaries, newest
// first. The cover image is a featured submission's thumbnail.
func (s *MonthService) GetArchivedMonths() ([]models.MonthSummary, error) {
	var months []models.Month
	if err := s.db.Where("status = ?", models.MonthStatusClosed).
		Order("month_year DESC").Find(&months).Error; err != nil {
		return nil, err
	}

	summaries := make([]models.MonthSummary, 0, len(months))
	for _, m := range months {
		stats, err := s.GetMonthWithStats(m.MonthYear)
		if err != nil {
			return nil, err
		}

		summary := models.MonthSummary{
			ID:              m.ID,
			MonthYear:       m.MonthYear,
			DisplayName:     utils.MonthDisplayName(m.MonthYear),
			ThemeName:       m.ThemeName,
			SubmissionCount: stats.SubmissionCount,
			FeaturedCount:   stats.FeaturedCount,
		}

		var cover models.Submission
		err = s.db.Where("month_year = ? AND is_featured = ? AND is_removed = ? AND deleted_at IS NULL",
			m.MonthYear, true, false).
			Order("created_at ASC").First(&cover).Error
		if err == nil {
			summary.CoverImageURL = &cover.ThumbnailURL
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// BeginJudging transitions a month from open to judging with a
// compare-and-swap on status, so a double transition loses cleanly.
func (s *MonthService) BeginJudging(monthYear string) (*models.Month, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.db.Model(&models.Month{}).
		Where("month_year = ? AND status = ?", monthYear, models.MonthStatusOpen).
		Update("status", models.MonthStatusJudging)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing month from a bad transition
		if _, err := s.GetMonthByKey(monthYear); err != nil {
			return nil, err
		}
		return nil, ErrInvalidTransition
	}

	log.Printf("Month %s moved to judging", monthYear)
	return s.GetMonthByKey(monthYear)
}

// SweepExpired moves any open month whose submission window has passed
// into judging. Called by the transition job.
func (s *MonthService) SweepExpired(now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.db.Model(&models.Month{}).
		Where("status = ? AND submissions_close < ?", models.MonthStatusOpen, now).
		Update("status", models.MonthStatusJudging)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Swept %d month(s) into judging", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
