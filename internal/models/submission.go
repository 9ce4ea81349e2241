package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StringList stores a string slice as a JSON column
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return nil
}

// Submission represents one photo entered into a monthly cycle.
// Category and photo bytes are fixed at creation; only the descriptive
// metadata may change while the month is open.
type Submission struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PhotoURL     string       `gorm:"size:500;not null" json:"photo_url"`
	ThumbnailURL string       `gorm:"size:500;not null" json:"thumbnail_url"`
	CategoryType CategoryType `gorm:"size:20;not null;index" json:"category_type"`
	Category     *string      `gorm:"size:50" json:"category,omitempty"`
	Camera       *string      `gorm:"size:120" json:"camera,omitempty"`
	FilmStock    *string      `gorm:"size:120" json:"film_stock,omitempty"`
	Location     *string      `gorm:"size:255" json:"location,omitempty"`
	Description  *string      `gorm:"type:text" json:"description,omitempty"`
	Tags         StringList   `gorm:"type:jsonb" json:"tags"`
	MonthYear    string       `gorm:"size:7;not null;index" json:"month_year"`
	IsFeatured   bool         `gorm:"not null;default:false;index" json:"is_featured"`
	IsRemoved    bool         `gorm:"not null;default:false;index" json:"is_removed"`
	RemovedBy    *uuid.UUID   `gorm:"type:uuid" json:"removed_by,omitempty"`
	RemovedReason *string     `gorm:"size:500" json:"removed_reason,omitempty"`
	// Set by a moderator clearing a judge flag; flagged submissions
	// stay out of the moderation queue once resolved.
	FlagResolvedAt *time.Time `json:"flag_resolved_at,omitempty"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
	DeletedAt      *time.Time `gorm:"index" json:"deleted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Submission model
func (Submission) TableName() string {
	return "submissions"
}

// IsActive reports whether the submission counts toward quotas,
// galleries, judging, and raffle eligibility: neither soft-deleted by
// its owner nor removed by moderation.
func (s *Submission) IsActive() bool {
	return !s.IsRemoved && s.DeletedAt == nil
}

// SubmissionMetadata is the owner-editable descriptive metadata
type SubmissionMetadata struct {
	Camera      *string  `json:"camera"`
	FilmStock   *string  `json:"film_stock"`
	Location    *string  `json:"location"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

// SubmissionCard is the gallery-grid shape
type SubmissionCard struct {
	ID           uuid.UUID    `json:"id"`
	ThumbnailURL string       `json:"thumbnail_url"`
	CategoryType CategoryType `json:"category_type"`
	User         UserSummary  `json:"user"`
	IsFeatured   bool         `json:"is_featured"`
}

// SubmissionDetail is the detail-page shape
type SubmissionDetail struct {
	Submission
	Owner        UserSummary `json:"owner"`
	CommentCount int64       `json:"comment_count"`
}

// MaxTagsPerSubmission bounds the free-form tag list
const MaxTagsPerSubmission = 5
