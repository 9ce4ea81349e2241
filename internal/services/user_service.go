package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/google/uuid"

	"wellyonfilm/internal/models"
)

// UserService handles the member directory
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetProfile returns a user's profile with submission aggregates
func (s *UserService) GetProfile(userID uuid.UUID) (*models.UserProfile, error) {
	var user models.User
	err := s.db.Where("id = ? AND deleted_at IS NULL", userID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	profile := models.UserProfile{User: user}

	activeSubs := s.db.Model(&models.Submission{}).
		Where("user_id = ? AND is_removed = ? AND deleted_at IS NULL", userID, false)
	if err := activeSubs.Count(&profile.SubmissionCount).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Submission{}).
		Where("user_id = ? AND is_removed = ? AND deleted_at IS NULL AND is_featured = ?", userID, false, true).
		Count(&profile.FeaturedCount).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

// ProfilePatch holds the editable profile fields
type ProfilePatch struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	Bio         *string `json:"bio"`
}

// UpdateProfile applies a partial profile update
func (s *UserService) UpdateProfile(userID uuid.UUID, patch ProfilePatch) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ? AND deleted_at IS NULL", userID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.DisplayName != nil && *patch.DisplayName != "" {
		updates["display_name"] = *patch.DisplayName
	}
	if patch.AvatarURL != nil {
		updates["avatar_url"] = *patch.AvatarURL
	}
	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return &user, nil
}

// SoftDeleteUser marks an account deleted. Historical submissions and
// comments remain, attributed to the placeholder.
func (s *UserService) SoftDeleteUser(userID uuid.UUID, callerID uuid.UUID, callerRole models.UserRole) error {
	if callerID != userID && callerRole != models.RoleAdmin {
		return ErrForbidden
	}

	result := s.db.Model(&models.User{}).
		Where("id = ? AND deleted_at IS NULL", userID).
		Update("deleted_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	log.Printf("User %s soft-deleted", userID)
	return nil
}

// GetUserSummary resolves the attribution for a user ID, substituting
// the placeholder for deleted or missing accounts.
func (s *UserService) GetUserSummary(userID uuid.UUID) models.UserSummary {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return models.DeletedUserSummary(userID)
	}
	return user.Summary()
}

// ListUsers returns non-deleted users with optional name search (admin)
func (s *UserService) ListUsers(limit, offset int, search string) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := s.db.Model(&models.User{}).Where("deleted_at IS NULL")
	if search != "" {
		query = query.Where("display_name LIKE ?", "%"+search+"%")
	}

	query.Count(&total)
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
