package repository

import (
	"context"
	"time"

	"wellyonfilm/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertJudgeAction records a judge's current verdict on a submission.
// The (judge, submission) pair is unique; a re-vote replaces the prior
// action atomically rather than appending a second record.
func (r *Repository) UpsertJudgeAction(ctx context.Context, action *models.JudgeAction) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "judge_user_id"}, {Name: "submission_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"action":      action.Action,
			"flag_reason": action.FlagReason,
			"updated_at":  time.Now(),
		}),
	}).Create(action).Error
}

// GetActionsBySubmission retrieves all current judge actions on a submission
func (r *Repository) GetActionsBySubmission(ctx context.Context, submissionID uuid.UUID) ([]models.JudgeAction, error) {
	var actions []models.JudgeAction
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}

// GetActionsByJudge retrieves a judge's current actions across all submissions
func (r *Repository) GetActionsByJudge(ctx context.Context, judgeUserID uuid.UUID) ([]models.JudgeAction, error) {
	var actions []models.JudgeAction
	err := r.db.WithContext(ctx).
		Where("judge_user_id = ?", judgeUserID).
		Order("updated_at DESC").
		Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}

// CountActiveSubmissions counts a user's submissions for a month that
// are neither owner-deleted nor moderation-removed.
func (r *Repository) CountActiveSubmissions(ctx context.Context, userID uuid.UUID, monthYear string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("user_id = ? AND month_year = ? AND is_removed = ? AND deleted_at IS NULL",
			userID, monthYear, false).
		Count(&count).Error
	return count, err
}

// EligibleRaffleUserIDs returns the distinct owners of active
// submissions in a month.
func (r *Repository) EligibleRaffleUserIDs(ctx context.Context, monthYear string) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Distinct("user_id").
		Where("month_year = ? AND is_removed = ? AND deleted_at IS NULL", monthYear, false).
		Order("user_id ASC").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}

// InsertRaffleWinner persists a draw result. The unique index on
// month_year makes the first writer win; a conflicting insert reports
// zero rows affected and the existing row stands.
func (r *Repository) InsertRaffleWinner(ctx context.Context, winner *models.RaffleWinner) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "month_year"}},
		DoNothing: true,
	}).Create(winner)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetRaffleWinner retrieves the recorded winner for a month
func (r *Repository) GetRaffleWinner(ctx context.Context, monthYear string) (*models.RaffleWinner, error) {
	var winner models.RaffleWinner
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("month_year = ?", monthYear).
		First(&winner).Error
	if err != nil {
		return nil, err
	}
	return &winner, nil
}

// ShortlistTally is a submission's shortlist vote count for ranking
type ShortlistTally struct {
	SubmissionID   uuid.UUID
	ShortlistCount int
}

// GetShortlistTallies returns shortlist counts for all active
// submissions in a month, keyed by submission ID. Submissions with no
// shortlist votes are absent.
func (r *Repository) GetShortlistTallies(ctx context.Context, monthYear string) (map[uuid.UUID]int, error) {
	var tallies []ShortlistTally
	err := r.db.WithContext(ctx).Model(&models.JudgeAction{}).
		Select("judge_actions.submission_id AS submission_id, COUNT(*) AS shortlist_count").
		Joins("JOIN submissions ON submissions.id = judge_actions.submission_id").
		Where("submissions.month_year = ? AND judge_actions.action = ?", monthYear, models.ActionShortlist).
		Group("judge_actions.submission_id").
		Scan(&tallies).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int, len(tallies))
	for _, t := range tallies {
		counts[t.SubmissionID] = t.ShortlistCount
	}
	return counts, nil
}

// GetFlaggedSubmissionIDs returns the IDs of submissions in a month
// carrying at least one judge flag.
func (r *Repository) GetFlaggedSubmissionIDs(ctx context.Context, monthYear string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.JudgeAction{}).
		Distinct("judge_actions.submission_id").
		Joins("JOIN submissions ON submissions.id = judge_actions.submission_id").
		Where("submissions.month_year = ? AND judge_actions.action = ?", monthYear, models.ActionFlag).
		Pluck("judge_actions.submission_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
