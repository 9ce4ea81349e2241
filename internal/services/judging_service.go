package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/google/uuid"

	"wellyonfilm/internal/models"
	"wellyonfilm/internal/repository"
)

// JudgingService handles the rotating judge panel and the consensus
// tallies their actions aggregate into.
type JudgingService struct {
	db   *gorm.DB
	repo *repository.Repository
	mu   sync.Mutex
}

// NewJudgingService creates a new JudgingService
func NewJudgingService(db *gorm.DB, repo *repository.Repository) *JudgingService {
	return &JudgingService{db: db, repo: repo}
}

// AssignJudge places a user on a month's panel. At most three judges
// per month, no duplicates.
func (s *JudgingService) AssignJudge(userID uuid.UUID, monthYear string) (*models.JudgeAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var month models.Month
	if err := s.db.Where("month_year = ?", monthYear).First(&month).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user models.User
	if err := s.db.Where("id = ? AND deleted_at IS NULL", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	assignment := models.JudgeAssignment{
		ID:        uuid.New(),
		UserID:    userID,
		MonthYear: monthYear,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.JudgeAssignment
		err := tx.Where("user_id = ? AND month_year = ?", userID, monthYear).First(&existing).Error
		if err == nil {
			return ErrDuplicateJudge
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		var count int64
		if err := tx.Model(&models.JudgeAssignment{}).
			Where("month_year = ?", monthYear).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= models.MaxJudgesPerMonth {
			return ErrJudgePanelFull
		}

		return tx.Create(&assignment).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Judge %s assigned to %s", userID, monthYear)
	return &assignment, nil
}

// GetPanel returns a month's judge assignments
func (s *JudgingService) GetPanel(monthYear string) ([]models.JudgeAssignment, error) {
	var assignments []models.JudgeAssignment
	err := s.db.Preload("User").
		Where("month_year = ?", monthYear).
		Order("created_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// IsJudge reports whether a user sits on a month's panel
func (s *JudgingService) IsJudge(userID uuid.UUID, monthYear string) (bool, error) {
	var count int64
	err := s.db.Model(&models.JudgeAssignment{}).
		Where("user_id = ? AND month_year = ?", userID, monthYear).
		Count(&count).Error
	return count > 0, err
}

// RecordAction upserts a judge's verdict on a submission. Flags
// require a reason. Allowed only while the owning month is judging,
// and only for that month's panel.
func (s *JudgingService) RecordAction(ctx context.Context, judgeID, submissionID uuid.UUID, action models.JudgeActionType, flagReason *string) (*models.JudgeAction, error) {
	if !models.IsValidJudgeAction(action) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
	if action == models.ActionFlag && (flagReason == nil || *flagReason == "") {
		return nil, ErrFlagReasonRequired
	}
	if action != models.ActionFlag {
		flagReason = nil
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

	var month models.Month
	if err := s.db.Where("month_year = ?", submission.MonthYear).First(&month).Error; err != nil {
		return nil, err
	}
	if month.Status != models.MonthStatusJudging {
		return nil, ErrJudgingClosed
	}

	isJudge, err := s.IsJudge(judgeID, submission.MonthYear)
	if err != nil {
		return nil, err
	}
	if !isJudge {
		return nil, ErrNotJudge
	}

	record := models.JudgeAction{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		JudgeUserID:  judgeID,
		Action:       action,
		FlagReason:   flagReason,
	}

	if err := s.repo.UpsertJudgeAction(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to record action: %w", err)
	}

	// Re-read: on a re-vote the stored row keeps its original ID
	var current models.JudgeAction
	if err := s.db.Where("judge_user_id = ? AND submission_id = ?", judgeID, submissionID).
		First(&current).Error; err != nil {
		return nil, err
	}

	return &current, nil
}

// GetJudgingStatus tallies the panel's current actions on a submission
func (s *JudgingService) GetJudgingStatus(ctx context.Context, submissionID uuid.UUID) (*models.JudgingStatus, error) {
	actions, err := s.repo.GetActionsBySubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	status := models.JudgingStatus{
		SubmissionID: submissionID,
		Actions:      actions,
	}
	for _, a := range actions {
		switch a.Action {
		case models.ActionShortlist:
			status.ShortlistCount++
		case models.ActionFlag:
			status.FlagCount++
		case models.ActionPass:
			status.PassCount++
		}
	}

	return &status, nil
}

// ModerationQueue lists a month's active submissions carrying at least
// one unresolved judge flag.
func (s *JudgingService) ModerationQueue(ctx context.Context, monthYear string) ([]models.Submission, error) {
	flaggedIDs, err := s.repo.GetFlaggedSubmissionIDs(ctx, monthYear)
	if err != nil {
		return nil, err
	}
	if len(flaggedIDs) == 0 {
		return []models.Submission{}, nil
	}

	var submissions []models.Submission
	err = s.db.
		Where("id IN ? AND is_removed = ? AND deleted_at IS NULL AND flag_resolved_at IS NULL",
			flaggedIDs, false).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// ApproveFlagged clears a submission from the moderation queue without
// touching judge history.
func (s *JudgingService) ApproveFlagged(submissionID, moderatorID uuid.UUID) error {
	var submission models.Submission
	err := s.db.Where("id = ? AND deleted_at IS NULL", submissionID).First(&submission).Error
	if err == gorm.ErrRecordNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.db.Model(&submission).Update("flag_resolved_at", time.Now()).Error; err != nil {
		return err
	}

	log.Printf("Flag on submission %s approved by moderator %s", submissionID, moderatorID)
	return nil
}
