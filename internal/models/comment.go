package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxCommentLength bounds comment bodies
const MaxCommentLength = 500

// Comment is a community comment on a submission
type Comment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;index" json:"submission_id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Body         string    `gorm:"size:500;not null" json:"body"`
	IsFlagged    bool      `gorm:"not null;default:false" json:"is_flagged"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for Comment model
func (Comment) TableName() string {
	return "comments"
}

// CommentWithUser is a comment with its author's attribution
type CommentWithUser struct {
	Comment
	User UserSummary `json:"user"`
}
