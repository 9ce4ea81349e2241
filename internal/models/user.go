package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RolePhotographer UserRole = "photographer"
	RoleAdmin        UserRole = "admin"
)

// DeletedUserName is the placeholder shown against historical
// submissions and comments of soft-deleted accounts.
const DeletedUserName = "Deleted User"

// User represents a community member
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"size:255;not null;index" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	DisplayName  string     `gorm:"size:120;not null" json:"display_name"`
	AvatarURL    *string    `gorm:"size:500" json:"avatar_url,omitempty"`
	Bio          *string    `gorm:"type:text" json:"bio,omitempty"`
	Role         UserRole   `gorm:"size:20;not null;default:photographer;index" json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// UserSummary is the attribution shape used on photo credits and comments
type UserSummary struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
}

// Summary returns the public attribution for a user. Soft-deleted
// accounts are replaced by the placeholder.
func (u *User) Summary() UserSummary {
	if u.DeletedAt != nil {
		return UserSummary{ID: u.ID, DisplayName: DeletedUserName}
	}
	return UserSummary{ID: u.ID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}

// DeletedUserSummary is the attribution used when the owning account
// no longer exists at all.
func DeletedUserSummary(id uuid.UUID) UserSummary {
	return UserSummary{ID: id, DisplayName: DeletedUserName}
}

// UserProfile is a user with their submission aggregates
type UserProfile struct {
	User
	SubmissionCount int64 `json:"submission_count"`
	FeaturedCount   int64 `json:"featured_count"`
}
