package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/google/uuid"

	"wellyonfilm/internal/config"
	"wellyonfilm/internal/images"
	"wellyonfilm/internal/models"
)

// PhotoStorage persists photo bytes and returns public URLs
type PhotoStorage interface {
	SavePhoto(id uuid.UUID, ext string, data []byte) (string, error)
	SaveThumbnail(id uuid.UUID, data []byte) (string, error)
}

// SubmissionService handles the per-user, per-month submission ledger
type SubmissionService struct {
	db      *gorm.DB
	storage PhotoStorage
	limits  config.SubmissionConfig
	mu      sync.Mutex
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(db *gorm.DB, storage PhotoStorage, limits config.SubmissionConfig) *SubmissionService {
	return &SubmissionService{db: db, storage: storage, limits: limits}
}

// CreateSubmissionInput describes a new entry
type CreateSubmissionInput struct {
	UserID       uuid.UUID
	MonthYear    string
	CategoryType models.CategoryType
	Category     *string
	PhotoData    []byte
	Metadata     models.SubmissionMetadata
}

var formatExtensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"tiff": ".tiff",
}

// CreateSubmission validates and records a new entry. The quota check
// and the insert run in one transaction under the service lock so
// concurrent requests cannot push a user past the monthly limit.
func (s *SubmissionService) CreateSubmission(input CreateSubmissionInput) (*models.Submission, error) {
	if !models.IsValidCategoryType(input.CategoryType) {
		return nil, fmt.Errorf("%w: unknown category type %q", ErrInvalidCategory, input.CategoryType)
	}
	if input.CategoryType == models.CategoryFixed {
		if input.Category == nil || !models.IsFixedCategory(*input.Category) {
			return nil, fmt.Errorf("%w: fixed submissions require a valid sub-category", ErrInvalidCategory)
		}
	}
	if len(input.Metadata.Tags) > models.MaxTagsPerSubmission {
		return nil, fmt.Errorf("%w: at most %d tags", ErrTooManyTags, models.MaxTagsPerSubmission)
	}

	info, err := images.Validate(input.PhotoData, images.Limits{
		MinDimension:  s.limits.MinImageDimension,
		MaxDimension:  s.limits.MaxImageDimension,
		MaxFileSizeMB: s.limits.MaxFileSizeMB,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	thumb, err := images.Thumbnail(input.PhotoData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	submission := models.Submission{
		ID:           uuid.New(),
		UserID:       input.UserID,
		CategoryType: input.CategoryType,
		Category:     input.Category,
		Camera:       input.Metadata.Camera,
		FilmStock:    input.Metadata.FilmStock,
		Location:     input.Metadata.Location,
		Description:  input.Metadata.Description,
		Tags:         models.StringList(input.Metadata.Tags),
		MonthYear:    input.MonthYear,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The storage writes happen inside the transaction, after the
	// state checks, so a rejected create leaves no orphan files.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var month models.Month
		if err := tx.Where("month_year = ?", input.MonthYear).First(&month).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if month.Status != models.MonthStatusOpen {
			return ErrSubmissionsClosed
		}

		var count int64
		if err := tx.Model(&models.Submission{}).
			Where("user_id = ? AND month_year = ? AND is_removed = ? AND deleted_at IS NULL",
				input.UserID, input.MonthYear, false).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(s.limits.MaxPerMonth) {
			return ErrQuotaExceeded
		}

		photoURL, err := s.storage.SavePhoto(submission.ID, formatExtensions[info.Format], input.PhotoData)
		if err != nil {
			return fmt.Errorf("failed to store photo: %w", err)
		}
		thumbURL, err := s.storage.SaveThumbnail(submission.ID, thumb)
		if err != nil {
			return fmt.Errorf("failed to store thumbnail: %w", err)
		}
		submission.PhotoURL = photoURL
		submission.ThumbnailURL = thumbURL

		return tx.Create(&submission).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Submission %s created by %s for %s (%s)",
		submission.ID, input.UserID, input.MonthYear, input.CategoryType)
	return &submission, nil
}

// EditMetadata updates the descriptive metadata of a submission.
// Owner-only, and only while the owning month is still open. Category
// and photo bytes never change.
func (s *SubmissionService) EditMetadata(submissionID, callerID uuid.UUID, patch models.SubmissionMetadata) (*models.Submission, error) {
	var submission models.Submission
	err := s.db.Where("id = ? AND is_removed = ? AND deleted_at IS NULL", submissionID, false).
		First(&submission).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if submission.UserID != callerID {
		return nil, ErrForbidden
	}

	var month models.Month
	if err := s.db.Where("month_year = ?", submission.MonthYear).First(&month).Error; err != nil {
		return nil, err
	}
	if month.Status != models.MonthStatusOpen {
		return nil, ErrSubmissionsClosed
	}

	if len(patch.Tags) > models.MaxTagsPerSubmission {
		return nil, fmt.Errorf("%w: at most %d tags", ErrTooManyTags, models.MaxTagsPerSubmission)
	}

	// Partial update: nil fields are left untouched, an empty string
	// clears a field.
	updates := map[string]interface{}{"edited_at": time.Now()}
	if patch.Camera != nil {
		updates["camera"] = *patch.Camera
	}
	if patch.FilmStock != nil {
		updates["film_stock"] = *patch.FilmStock
	}
	if patch.Location != nil {
		updates["location"] = *patch.Location
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Tags != nil {
		updates["tags"] = models.StringList(patch.Tags)
	}

	if err := s.db.Model(&submission).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return &submission, nil
}

// DeleteSubmission soft-deletes a submission. Owner-only, allowed at
// any lifecycle stage; the freed slot may be reused while the month is
// still open.
func (s *SubmissionService) DeleteSubmission(submissionID, callerID uuid.UUID) error {
	var submission models.Submission
	err := s.db.Where("id = ? AND deleted_at IS NULL", submissionID).First(&submission).Error
	if err == gorm.ErrRecordNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if submission.UserID != callerID {
		return ErrForbidden
	}

	return s.db.Model(&submission).Update("deleted_at", time.Now()).Error
}

// RemoveSubmission marks a submission removed by moderation, with the
// acting moderator and reason kept for audit. Independent of owner
// deletion.
func (s *SubmissionService) RemoveSubmission(submissionID, moderatorID uuid.UUID, reason string) error {
	var submission models.Submission
	err := s.db.Where("id = ?", submissionID).First(&submission).Error
	if err == gorm.ErrRecordNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.db.Model(&submission).Updates(map[string]interface{}{
		"is_removed":     true,
		"removed_by":     moderatorID,
		"removed_reason": reason,
	}).Error; err != nil {
		return err
	}

	log.Printf("Submission %s removed by moderator %s: %s", submissionID, moderatorID, reason)
	return nil
}

// activeScope filters to submissions visible in public galleries
func activeScope(db *gorm.DB) *gorm.DB {
	return db.Where("is_removed = ? AND deleted_at IS NULL", false)
}

// GetSubmissionsByMonth lists a month's active submissions
func (s *SubmissionService) GetSubmissionsByMonth(monthYear string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := activeScope(s.db).
		Where("month_year = ?", monthYear).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// GetSubmissionsByCategory lists a month's active submissions in one
// category bucket
func (s *SubmissionService) GetSubmissionsByCategory(monthYear string, categoryType models.CategoryType) ([]models.Submission, error) {
	var submissions []models.Submission
	err := activeScope(s.db).
		Where("month_year = ? AND category_type = ?", monthYear, categoryType).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// GetFeaturedSubmissions lists a month's featured set
func (s *SubmissionService) GetFeaturedSubmissions(monthYear string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := activeScope(s.db).
		Where("month_year = ? AND is_featured = ?", monthYear, true).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// GetSubmissionsByUser lists a user's active submissions across months
func (s *SubmissionService) GetSubmissionsByUser(userID uuid.UUID) ([]models.Submission, error) {
	var submissions []models.Submission
	err := activeScope(s.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// GetSubmission returns one submission. Removed and deleted
// submissions are not found for anyone but the owner or an admin.
func (s *SubmissionService) GetSubmission(submissionID uuid.UUID, viewerID uuid.UUID, viewerRole models.UserRole) (*models.Submission, error) {
	var submission models.Submission
	err := s.db.Where("id = ?", submissionID).First(&submission).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !submission.IsActive() && submission.UserID != viewerID && viewerRole != models.RoleAdmin {
		return nil, ErrNotFound
	}

	return &submission, nil
}

// GetSubmissionDetail returns the detail-page shape with owner
// attribution and comment count
func (s *SubmissionService) GetSubmissionDetail(submissionID uuid.UUID, viewerID uuid.UUID, viewerRole models.UserRole) (*models.SubmissionDetail, error) {
	submission, err := s.GetSubmission(submissionID, viewerID, viewerRole)
	if err != nil {
		return nil, err
	}

	detail := models.SubmissionDetail{Submission: *submission}

	var owner models.User
	if err := s.db.Where("id = ?", submission.UserID).First(&owner).Error; err == nil {
		detail.Owner = owner.Summary()
	} else {
		detail.Owner = models.DeletedUserSummary(submission.UserID)
	}

	if err := s.db.Model(&models.Comment{}).
		Where("submission_id = ? AND is_flagged = ?", submissionID, false).
		Count(&detail.CommentCount).Error; err != nil {
		return nil, err
	}

	return &detail, nil
}

// GetSubmissionCards returns the gallery-grid shapes for a month
func (s *SubmissionService) GetSubmissionCards(monthYear string) ([]models.SubmissionCard, error) {
	var submissions []models.Submission
	err := activeScope(s.db).
		Preload("User").
		Where("month_year = ?", monthYear).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	cards := make([]models.SubmissionCard, 0, len(submissions))
	for _, sub := range submissions {
		card := models.SubmissionCard{
			ID:           sub.ID,
			ThumbnailURL: sub.ThumbnailURL,
			CategoryType: sub.CategoryType,
			IsFeatured:   sub.IsFeatured,
		}
		if sub.User != nil {
			card.User = sub.User.Summary()
		} else {
			card.User = models.DeletedUserSummary(sub.UserID)
		}
		cards = append(cards, card)
	}

	return cards, nil
}

// CountActive returns a user's active submission count for a month
func (s *SubmissionService) CountActive(userID uuid.UUID, monthYear string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Submission{}).
		Where("user_id = ? AND month_year = ? AND is_removed = ? AND deleted_at IS NULL",
			userID, monthYear, false).
		Count(&count).Error
	return count, err
}
