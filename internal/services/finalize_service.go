package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/google/uuid"

	"wellyonfilm/internal/models"
	"wellyonfilm/internal/repository"
)

// FinalizeService computes the featured set from the judging consensus
// and closes the month. Featuring and the judging -> closed transition
// commit in one transaction.
type FinalizeService struct {
	db   *gorm.DB
	repo *repository.Repository
	mu   sync.Mutex
}

// NewFinalizeService creates a new FinalizeService
func NewFinalizeService(db *gorm.DB, repo *repository.Repository) *FinalizeService {
	return &FinalizeService{db: db, repo: repo}
}

// FinalizeOverrides lets the in-person judging meeting supersede the
// automatic ranking per bucket. Every listed ID must belong to the
// bucket it overrides.
type FinalizeOverrides struct {
	// Fixed maps a fixed sub-category id to the chosen submission
	Fixed map[string]uuid.UUID `json:"fixed"`
	// Rotating and Open replace the automatic top-five for their bucket
	Rotating []uuid.UUID `json:"rotating"`
	Open     []uuid.UUID `json:"open"`
}

type rankedSubmission struct {
	submission models.Submission
	shortlists int
}

// FinalizeMonth selects the featured set and closes the month.
// Buckets: one slot per fixed sub-category, five rotating, five open.
// Ranking is shortlist count descending with earlier creation breaking
// ties. Buckets never borrow from each other; a thin bucket simply
// features fewer photos.
func (s *FinalizeService) FinalizeMonth(ctx context.Context, monthYear string, overrides FinalizeOverrides) ([]models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var month models.Month
	err := s.db.Where("month_year = ?", monthYear).First(&month).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if month.Status != models.MonthStatusJudging {
		return nil, ErrInvalidTransition
	}

	candidates, err := s.eligibleCandidates(ctx, monthYear)
	if err != nil {
		return nil, err
	}

	featuredIDs, err := selectFeatured(candidates, overrides)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(featuredIDs) > 0 {
			if err := tx.Model(&models.Submission{}).
				Where("id IN ?", featuredIDs).
				Update("is_featured", true).Error; err != nil {
				return err
			}
		}

		// CAS guards against a concurrent finalization of the same month
		result := tx.Model(&models.Month{}).
			Where("month_year = ? AND status = ?", monthYear, models.MonthStatusJudging).
			Updates(map[string]interface{}{
				"status":    models.MonthStatusClosed,
				"closed_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var featured []models.Submission
	if len(featuredIDs) > 0 {
		if err := s.db.Where("id IN ?", featuredIDs).
			Order("created_at ASC").Find(&featured).Error; err != nil {
			return nil, err
		}
	}

	log.Printf("Month %s finalized: %d featured", monthYear, len(featured))
	return featured, nil
}

// eligibleCandidates loads a month's active submissions that are not
// sitting in the moderation queue with an unresolved flag, joined with
// their shortlist tallies.
func (s *FinalizeService) eligibleCandidates(ctx context.Context, monthYear string) ([]rankedSubmission, error) {
	var submissions []models.Submission
	err := s.db.
		Where("month_year = ? AND is_removed = ? AND deleted_at IS NULL", monthYear, false).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	tallies, err := s.repo.GetShortlistTallies(ctx, monthYear)
	if err != nil {
		return nil, err
	}

	flaggedIDs, err := s.repo.GetFlaggedSubmissionIDs(ctx, monthYear)
	if err != nil {
		return nil, err
	}
	unresolvedFlag := make(map[uuid.UUID]bool, len(flaggedIDs))
	for _, id := range flaggedIDs {
		unresolvedFlag[id] = true
	}

	candidates := make([]rankedSubmission, 0, len(submissions))
	for _, sub := range submissions {
		if unresolvedFlag[sub.ID] && sub.FlagResolvedAt == nil {
			continue
		}
		candidates = append(candidates, rankedSubmission{
			submission: sub,
			shortlists: tallies[sub.ID],
		})
	}

	return candidates, nil
}

// selectFeatured applies the per-bucket quotas to ranked candidates
func selectFeatured(candidates []rankedSubmission, overrides FinalizeOverrides) ([]uuid.UUID, error) {
	byID := make(map[uuid.UUID]rankedSubmission, len(candidates))
	fixedByCategory := make(map[string][]rankedSubmission)
	var rotating, open []rankedSubmission

	for _, c := range candidates {
		byID[c.submission.ID] = c
		switch c.submission.CategoryType {
		case models.CategoryFixed:
			if c.submission.Category != nil {
				cat := *c.submission.Category
				fixedByCategory[cat] = append(fixedByCategory[cat], c)
			}
		case models.CategoryRotating:
			rotating = append(rotating, c)
		case models.CategoryOpen:
			open = append(open, c)
		}
	}

	var featured []uuid.UUID

	// Fixed bucket: one winner per permanent sub-category
	for _, cat := range models.FixedCategories {
		if override, ok := overrides.Fixed[cat.ID]; ok {
			c, exists := byID[override]
			if !exists || c.submission.CategoryType != models.CategoryFixed ||
				c.submission.Category == nil || *c.submission.Category != cat.ID {
				return nil, fmt.Errorf("%w: override %s is not an eligible %s submission",
					ErrInvalidCategory, override, cat.ID)
			}
			featured = append(featured, override)
			continue
		}

		bucket := fixedByCategory[cat.ID]
		if len(bucket) == 0 {
			continue
		}
		rankBucket(bucket)
		featured = append(featured, bucket[0].submission.ID)
	}

	pickTop := func(bucket []rankedSubmission, override []uuid.UUID, categoryType models.CategoryType) ([]uuid.UUID, error) {
		if len(override) > 0 {
			if len(override) > models.FeaturedRotating {
				return nil, fmt.Errorf("%w: at most %d overrides per bucket",
					ErrInvalidCategory, models.FeaturedRotating)
			}
			for _, id := range override {
				c, exists := byID[id]
				if !exists || c.submission.CategoryType != categoryType {
					return nil, fmt.Errorf("%w: override %s is not an eligible %s submission",
						ErrInvalidCategory, id, categoryType)
				}
			}
			return override, nil
		}

		rankBucket(bucket)
		n := len(bucket)
		if n > models.FeaturedRotating {
			n = models.FeaturedRotating
		}
		ids := make([]uuid.UUID, 0, n)
		for _, c := range bucket[:n] {
			ids = append(ids, c.submission.ID)
		}
		return ids, nil
	}

	rotatingIDs, err := pickTop(rotating, overrides.Rotating, models.CategoryRotating)
	if err != nil {
		return nil, err
	}
	openIDs, err := pickTop(open, overrides.Open, models.CategoryOpen)
	if err != nil {
		return nil, err
	}

	featured = append(featured, rotatingIDs...)
	featured = append(featured, openIDs...)
	return featured, nil
}

// rankBucket orders by shortlist count descending, then by earlier
// submission. Deterministic so the published selection is reproducible.
func rankBucket(bucket []rankedSubmission) {
	sort.SliceStable(bucket, func(i, j int) bool {
		if bucket[i].shortlists != bucket[j].shortlists {
			return bucket[i].shortlists > bucket[j].shortlists
		}
		return bucket[i].submission.CreatedAt.Before(bucket[j].submission.CreatedAt)
	})
}
