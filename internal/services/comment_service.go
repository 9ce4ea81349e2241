package services

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/google/uuid"

	"wellyonfilm/internal/models"
)

// CommentService handles community comments on submissions
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a new CommentService
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// CreateComment posts a comment on a visible submission
func (s *CommentService) CreateComment(submissionID, userID uuid.UUID, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyComment
	}
	if len(body) > models.MaxCommentLength {
		return nil, fmt.Errorf("%w: at most %d characters", ErrCommentTooLong, models.MaxCommentLength)
	}

	var submission models.Submission
	err := s.db.Where("id = ? AND is_removed = ? AND deleted_at IS NULL", submissionID, false).
		First(&submission).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		UserID:       userID,
		Body:         body,
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return &comment, nil
}

// ListComments returns a submission's non-flagged comments with author
// attribution, deleted accounts substituted by the placeholder.
func (s *CommentService) ListComments(submissionID uuid.UUID) ([]models.CommentWithUser, error) {
	var comments []models.Comment
	err := s.db.Where("submission_id = ? AND is_flagged = ?", submissionID, false).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	result := make([]models.CommentWithUser, 0, len(comments))
	for _, c := range comments {
		entry := models.CommentWithUser{Comment: c}

		var user models.User
		if err := s.db.Where("id = ?", c.UserID).First(&user).Error; err == nil {
			entry.User = user.Summary()
		} else {
			entry.User = models.DeletedUserSummary(c.UserID)
		}

		result = append(result, entry)
	}

	return result, nil
}

// FlagComment hides a comment from public listings (moderator action)
func (s *CommentService) FlagComment(commentID, moderatorID uuid.UUID) error {
	result := s.db.Model(&models.Comment{}).
		Where("id = ?", commentID).
		Update("is_flagged", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	log.Printf("Comment %s flagged by moderator %s", commentID, moderatorID)
	return nil
}
