package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxJudgesPerMonth is the size of the rotating judge panel
const MaxJudgesPerMonth = 3

// JudgeAssignment places a user on a month's judging panel
type JudgeAssignment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_judge_month" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	MonthYear string    `gorm:"size:7;not null;uniqueIndex:idx_judge_month;index" json:"month_year"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for JudgeAssignment model
func (JudgeAssignment) TableName() string {
	return "judge_assignments"
}

type JudgeActionType string

const (
	ActionPass      JudgeActionType = "pass"
	ActionShortlist JudgeActionType = "shortlist"
	ActionFlag      JudgeActionType = "flag"
)

// IsValidJudgeAction reports whether a is a known action type.
func IsValidJudgeAction(a JudgeActionType) bool {
	switch a {
	case ActionPass, ActionShortlist, ActionFlag:
		return true
	}
	return false
}

// JudgeAction is a judge's current verdict on a submission. The
// (judge, submission) pair is unique: re-voting replaces the prior
// action rather than appending a new record.
type JudgeAction struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_judge_submission;index" json:"submission_id"`
	JudgeUserID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_judge_submission" json:"judge_user_id"`
	Action       JudgeActionType `gorm:"size:20;not null" json:"action"`
	FlagReason   *string         `gorm:"size:500" json:"flag_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName specifies the table name for JudgeAction model
func (JudgeAction) TableName() string {
	return "judge_actions"
}

// JudgingStatus is the per-submission consensus tally across the panel
type JudgingStatus struct {
	SubmissionID   uuid.UUID     `json:"submission_id"`
	ShortlistCount int           `json:"shortlist_count"`
	FlagCount      int           `json:"flag_count"`
	PassCount      int           `json:"pass_count"`
	Actions        []JudgeAction `json:"actions"`
}
