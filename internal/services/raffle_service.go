package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"

	"gorm.io/gorm"

	"github.com/google/uuid"

	"wellyonfilm/internal/models"
	"wellyonfilm/internal/repository"
)

// RaffleService draws one winner per month from the photographers with
// at least one active submission.
type RaffleService struct {
	db   *gorm.DB
	repo *repository.Repository
	// pick draws a uniform index in [0, n); injectable for tests
	pick func(n int) (int, error)
}

// NewRaffleService creates a new RaffleService with the crypto/rand draw
func NewRaffleService(db *gorm.DB, repo *repository.Repository) *RaffleService {
	return &RaffleService{db: db, repo: repo, pick: uniformPick}
}

func uniformPick(n int) (int, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to draw random index: %w", err)
	}
	return int(idx.Int64()), nil
}

// RunRaffle draws the month's winner exactly once. If a winner is
// already recorded the existing row is returned with ErrAlreadyDrawn
// and no new draw happens; insertion is first-writer-wins under the
// unique month-year index, so concurrent calls are safe.
func (s *RaffleService) RunRaffle(ctx context.Context, monthYear string) (*models.RaffleWinner, error) {
	var month models.Month
	err := s.db.Where("month_year = ?", monthYear).First(&month).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetRaffleWinner(ctx, monthYear); err == nil {
		return existing, ErrAlreadyDrawn
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	eligible, err := s.repo.EligibleRaffleUserIDs(ctx, monthYear)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, ErrNoParticipants
	}

	idx, err := s.pick(len(eligible))
	if err != nil {
		return nil, err
	}

	winner := models.RaffleWinner{
		ID:        uuid.New(),
		UserID:    eligible[idx],
		MonthYear: monthYear,
	}

	inserted, err := s.repo.InsertRaffleWinner(ctx, &winner)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Lost the race to a concurrent draw; the recorded winner stands
		existing, err := s.repo.GetRaffleWinner(ctx, monthYear)
		if err != nil {
			return nil, err
		}
		return existing, ErrAlreadyDrawn
	}

	log.Printf("Raffle %s: winner %s drawn from %d participants", monthYear, winner.UserID, len(eligible))
	return s.repo.GetRaffleWinner(ctx, monthYear)
}

// GetWinner returns the recorded winner for a month
func (s *RaffleService) GetWinner(ctx context.Context, monthYear string) (*models.RaffleWinner, error) {
	winner, err := s.repo.GetRaffleWinner(ctx, monthYear)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return winner, nil
}
