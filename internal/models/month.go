package models

import (
	"time"

	"github.com/google/uuid"
)

type MonthStatus string

const (
	MonthStatusOpen    MonthStatus = "open"
	MonthStatusJudging MonthStatus = "judging"
	MonthStatusClosed  MonthStatus = "closed"
)

// Month represents one monthly submission and judging cycle, keyed by
// the "YYYY-MM" month-year slug.
type Month struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	MonthYear        string      `gorm:"size:7;uniqueIndex;not null" json:"month_year"`
	ThemeName        string      `gorm:"size:120;not null" json:"theme_name"`
	ThemeDescription string      `gorm:"type:text" json:"theme_description"`
	SponsorName      *string     `gorm:"size:120" json:"sponsor_name,omitempty"`
	SponsorURL       *string     `gorm:"size:500" json:"sponsor_url,omitempty"`
	SubmissionsOpen  time.Time   `gorm:"not null" json:"submissions_open"`
	SubmissionsClose time.Time   `gorm:"not null" json:"submissions_close"`
	Status           MonthStatus `gorm:"size:20;not null;default:open;index" json:"status"`
	ClosedAt         *time.Time  `json:"closed_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TableName specifies the table name for Month model
func (Month) TableName() string {
	return "months"
}

// MonthWithStats is a month with its submission aggregates
type MonthWithStats struct {
	Month
	SubmissionCount int64 `json:"submission_count"`
	FeaturedCount   int64 `json:"featured_count"`
}

// MonthSummary is the archive-listing shape for a closed month
type MonthSummary struct {
	ID              uuid.UUID `json:"id"`
	MonthYear       string    `json:"month_year"`
	DisplayName     string    `json:"display_name"`
	ThemeName       string    `json:"theme_name"`
	SubmissionCount int64     `json:"submission_count"`
	FeaturedCount   int64     `json:"featured_count"`
	CoverImageURL   *string   `json:"cover_image_url,omitempty"`
}
