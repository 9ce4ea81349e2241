package models

import (
	"time"

	"github.com/google/uuid"
)

// RaffleWinner records the prize draw for a month. The month-year is
// unique: a month's draw happens exactly once and the result is
// immutable.
type RaffleWinner struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	MonthYear string    `gorm:"size:7;uniqueIndex;not null" json:"month_year"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for RaffleWinner model
func (RaffleWinner) TableName() string {
	return "raffle_winners"
}
