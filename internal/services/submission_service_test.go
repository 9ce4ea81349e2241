package services

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"wellyonfilm/internal/models"
)

// countingStorage tracks writes so tests can assert rejected creates
// leave nothing behind
type countingStorage struct {
	photos int32
	thumbs int32
}

func (c *countingStorage) SavePhoto(id uuid.UUID, ext string, data []byte) (string, error) {
	atomic.AddInt32(&c.photos, 1)
	return "/static/photos/" + id.String() + ext, nil
}

func (c *countingStorage) SaveThumbnail(id uuid.UUID, data []byte) (string, error) {
	atomic.AddInt32(&c.thumbs, 1)
	return "/static/thumbnails/" + id.String() + ".jpg", nil
}

func TestCreateSubmissionQuota(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db, fakeStorage{}, testLimits())
	user := createTestUser(t, db, "alice", models.RolePhotographer)
	createTestMonth(t, db, "2025-01", models.MonthStatusOpen)

	createTestSubmission(t, svc, user.ID, "2025-01", models.CategoryFixed, strptr("nature"))
	createTestSubmission(t, svc, user.ID, "2025-01", models.CategoryRotating, nil)
	createTestSubmission(t, svc, user.ID, "2025-01", models.CategoryOpen, nil)

	_, err := svc.CreateSubmission(CreateSubmissionInput{
		UserID:       user.ID,
		MonthYear:    "2025-01",
		CategoryType: models.CategoryOpen,
		PhotoData:    testPNG(t),
	})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded on fourth entry, got %v", err)
	}

	// A different photographer still has a full quota
	other := createTestUser(t, db, "bob", models.RolePhotographer)
	createTestSubmission(t, svc, other.ID, "2025-01", models.CategoryOpen, nil)
}

func TestRejectedCreateWritesNothingToStorage(t *testing.T) {
	db := setupTestDB(t)
	store := &countingStorage{}
	svc := NewSubmissionService(db, store, testLimits())
	user := createTestUser(t, db, "alice", models.RolePhotographer)
	createTestMonth(t, db, "2025-01", models.MonthStatusOpen)
	createTestMonth(t, db, "2025-02", models.MonthStatusJudging)

	for i := 0; i < 3; i++ {
		createTestSubmission(t, svc, user.ID, "2025-01", models.CategoryOpen, nil)
	}
	if got := atomic.LoadInt32(&store.photos); got != 3 {
		t.Fatalf("expected 3 stored photos, got %d", got)
	}

	rejections := []CreateSubmissionInput{
		{UserID: user.ID, MonthYear: "2025-01", CategoryType: models.CategoryOpen, PhotoData: testPNG(t)},
		{UserID: user.ID, MonthYear: "2025-02", CategoryType: models.CategoryOpen, PhotoData: testPNG(t)},
		{UserID: user.ID, MonthYear: "2099-01", CategoryType: models.CategoryOpen, PhotoData: testPNG(t)},
	}
	for _, input := range rejections {
		if _, err := svc.CreateSubmission(input); err == nil {
			t.Fatalf("expected create for %s to be rejected", input.MonthYear)
		}
	}

	if got := atomic.LoadInt32(&store.photos); got != 3 {
		t.Errorf("rejected creates wrote %d orphan photo(s)", got-3)
	}
	if got := atomic.LoadInt32(&store.thumbs); got != 3 {
		t.Errorf("rejected creates wrote %d orphan thumbnail(s)", got-3)
	}
}

func TestCreateSubmissionQuotaConcurrent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db, fakeStorage{}, testLimits())
	user := createTestUser(t, db, "alice", models.RolePhotographer)
	createTestMonth(t, db, "2025-01", models.MonthStatusOpen)

	photo := testPNG(t)
	const attempts = 8

	var wg sync.WaitGroup
	var successes int32
	unexpected := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateSubmission(CreateSubmissionInput{
				UserID:       user.ID,
				MonthYear:    "2025-01",
				CategoryType: models.CategoryOpen,
				PhotoData:    photo,
			})
			if err == nil {
				atomic.AddInt32(&successes, 1)
			} else if !errors.Is(err, ErrQuotaExceeded) {
				unexpected <- err
			}
		}()
	}
	wg.Wait()
	close(unexpected)
	for err := range unexpected {
		t.Errorf("unexpected error from concurrent create: %v", err)
	}

	if successes != 3 {
		t.Errorf("expected exactly 3 creates to win, got %d", successes)
	}
	count, err := svc.CountActive(user.ID, "2025-01")
	if err != nil {
		t.Fatalf("CountActive failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 active submissions, got %d", count)
	}
}

func TestDeleteFreesQuotaSlot(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db, fakeStorage{}, testLimits())
	user := createTestUser(t, db, "alice", models.RolePhotographer)
	createTestMonth(t, db, "2025-01", models.MonthStatusOpen)

	first := createTestSubmission(t, svc, user.ID, "2025-01", models.CategoryOpen, nil)
	createTestSubmission(t, svc, user.ID, "2025-01", models.CategoryOpen, nil)
	createTestSubmission(t, svc, user.ID, "2025-01", models.CategoryOpen, nil)

	if err := svc.DeleteSubmission(first.ID, user.ID); err != nil {
		t.Fatalf("DeleteSubmission failed: %v", err)
	}

	createTestSubmission(t, svc, user.ID, "2025-01", models.CategoryOpen, nil)

	count, err := svc.CountActive(user.ID, "2025-01")
	if err != nil {
		t.Fatalf("CountActive failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 active submissions, got %d", count)
	}
}

func TestCreateSubmissionClosedMonth(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db, fakeStorage{}, testLimits())
	user := createTestUser(t, db, "alice", models.RolePhotographer)
	createTestMonth(t, db, "2025-01", models.MonthStatusJudging)

	_, err := svc.CreateSubmission(CreateSubmissionInput{
		UserID:       user.ID,
		MonthYear:    "2025-01",
		CategoryType: models.CategoryOpen,
		PhotoData:    testPNG(t),
	})
	if !errors.Is(err, ErrSubmissionsClosed) {
		t.Errorf("expected ErrSubmissionsClosed, got %v", err)
	}

	_, err = svc.CreateSubmission(CreateSubmissionInput{
		UserID:       user.ID,
		MonthYear:    "2099-01",
		CategoryType: models.CategoryOpen,
		PhotoData:    testPNG(t),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown month, got %v", err)
	}
}

func TestCreateSubmissionValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db, fakeStorage{}, testLimits())
	user := createTestUser(t, db, "alice", models.RolePhotographer)
	createTestMonth(t, db, "2025-01", models.MonthStatusOpen)

	// Fixed entries need a known sub-category
	_, err := svc.CreateSubmission(CreateSubmissionInput{
		UserID:       user.ID,
		MonthYear:    "2025-01",
		CategoryType: models.CategoryFixed,
		Category:     strptr("sunsets"),
		PhotoData:    testPNG(t),
	})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory for unknown sub-category, got %v", err)
	}

	_, err = svc.CreateSubmission(CreateSubmissionInput{
		UserID:       user.ID,
		MonthYear:    "2025-01",
		CategoryType: models.CategoryFixed,
		PhotoData:    testPNG(t),
	})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory for missing sub-category, got %v", err)
	}

	_, err = svc.CreateSubmission(CreateSubmissionInput{
		UserID:       user.ID,
		MonthYear:    "2025-01",
		CategoryType: models.CategoryType("portrait"),
		PhotoData:    testPNG(t),
	})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory for unknown type, got %v", err)
	}

	_, err = svc.CreateSubmission(CreateSubmissionInput{
		UserID:       user.ID,
		MonthYear:    "2025-01",
		CategoryType: models.CategoryOpen,
		PhotoData:    testPNG(t),
		Metadata: models.SubmissionMetadata{
			Tags: []string{"a", "b", "c", "d", "e", "f"},
		},
	})
	if !errors.Is(err, ErrTooManyTags) {
		t.Errorf("expected ErrTooManyTags, got %v", err)
	}

	_, err = svc.CreateSubmission(CreateSubmissionInput{
		UserID:       user.ID,
		MonthYear:    "2025-01",
		CategoryType: models.CategoryOpen,
		PhotoData:    []byte("not an image"),
	})
	if !errors.Is(err, ErrInvalidFile) {
		t.Errorf("expected ErrInvalidFile, got %v", err)
	}
}

func TestEditMetadataOwnerAndWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db, fakeStorage{}, testLimits())
	owner := createTestUser(t, db, "alice", models.RolePhotographer)
	other := createTestUser(t, db, "bob", models.RolePhotographer)
	createTestMonth(t, db, "2025-01", models.MonthStatusOpen)

	sub := createTestSubmission(t, svc, owner.ID, "2025-01", models.CategoryOpen, nil)

	if _, err := svc.EditMetadata(sub.ID, other.ID, models.SubmissionMetadata{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-owner, got %v", err)
	}

	updated, err := svc.EditMetadata(sub.ID, owner.ID, models.SubmissionMetadata{
		Camera:    strptr("Olympus OM-1"),
		FilmStock: strptr("Portra 400"),
	})
	if err != nil {
		t.Fatalf("EditMetadata failed: %v", err)
	}
	got, err := svc.GetSubmission(updated.ID, owner.ID, owner.Role)
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if got.Camera == nil || *got.Camera != "Olympus OM-1" {
		t.Errorf("expected camera to update, got %v", got.Camera)
	}
	if got.EditedAt == nil {
		t.Error("expected edited_at to be set")
	}

	// A patch only touches the fields it carries
	if _, err := svc.EditMetadata(sub.ID, owner.ID, models.SubmissionMetadata{
		Location: strptr("Oriental Bay"),
	}); err != nil {
		t.Fatalf("EditMetadata partial patch failed: %v", err)
	}
	got, err = svc.GetSubmission(sub.ID, owner.ID, owner.Role)
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if got.Camera == nil || *got.Camera != "Olympus OM-1" {
		t.Errorf("expected omitted camera preserved, got %v", got.Camera)
	}
	if got.Location == nil || *got.Location != "Oriental Bay" {
		t.Errorf("expected location updated, got %v", got.Location)
	}

	// An explicit empty string clears a field
	if _, err := svc.EditMetadata(sub.ID, owner.ID, models.SubmissionMetadata{
		FilmStock: strptr(""),
	}); err != nil {
		t.Fatalf("EditMetadata clear failed: %v", err)
	}
	got, _ = svc.GetSubmission(sub.ID, owner.ID, owner.Role)
	if got.FilmStock == nil || *got.FilmStock != "" {
		t.Errorf("expected film stock cleared, got %v", got.FilmStock)
	}

	// Once judging starts the metadata is locked
	db.Model(&models.Month{}).Where("month_year = ?", "2025-01").
		Update("status", models.MonthStatusJudging)
	if _, err := svc.EditMetadata(sub.ID, owner.ID, models.SubmissionMetadata{}); !errors.Is(err, ErrSubmissionsClosed) {
		t.Errorf("expected ErrSubmissionsClosed after judging begins, got %v", err)
	}
}

func TestModeratedSubmissionVisibility(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db, fakeStorage{}, testLimits())
	owner := createTestUser(t, db, "alice", models.RolePhotographer)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	viewer := createTestUser(t, db, "carol", models.RolePhotographer)
	createTestMonth(t, db, "2025-01", models.MonthStatusOpen)

	sub := createTestSubmission(t, svc, owner.ID, "2025-01", models.CategoryOpen, nil)

	if err := svc.RemoveSubmission(sub.ID, admin.ID, "off-topic"); err != nil {
		t.Fatalf("RemoveSubmission failed: %v", err)
	}

	// Gone from public galleries and other viewers
	listed, err := svc.GetSubmissionsByMonth("2025-01")
	if err != nil {
		t.Fatalf("GetSubmissionsByMonth failed: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("expected removed submission hidden from gallery, got %d entries", len(listed))
	}
	if _, err := svc.GetSubmission(sub.ID, viewer.ID, viewer.Role); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for other viewers, got %v", err)
	}

	// Owner and admin still see it
	if _, err := svc.GetSubmission(sub.ID, owner.ID, owner.Role); err != nil {
		t.Errorf("expected owner to see removed submission, got %v", err)
	}
	got, err := svc.GetSubmission(sub.ID, admin.ID, admin.Role)
	if err != nil {
		t.Fatalf("expected admin to see removed submission, got %v", err)
	}
	if !got.IsRemoved || got.RemovedBy == nil || *got.RemovedBy != admin.ID {
		t.Error("expected moderation audit fields to be set")
	}
}

func TestDeletedUserAttribution(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db, fakeStorage{}, testLimits())
	userSvc := NewUserService(db)
	owner := createTestUser(t, db, "alice", models.RolePhotographer)
	viewer := createTestUser(t, db, "bob", models.RolePhotographer)
	createTestMonth(t, db, "2025-01", models.MonthStatusOpen)

	sub := createTestSubmission(t, svc, owner.ID, "2025-01", models.CategoryOpen, nil)

	if err := userSvc.SoftDeleteUser(owner.ID, owner.ID, owner.Role); err != nil {
		t.Fatalf("SoftDeleteUser failed: %v", err)
	}

	detail, err := svc.GetSubmissionDetail(sub.ID, viewer.ID, viewer.Role)
	if err != nil {
		t.Fatalf("GetSubmissionDetail failed: %v", err)
	}
	if detail.Owner.DisplayName != models.DeletedUserName {
		t.Errorf("expected %q attribution, got %q", models.DeletedUserName, detail.Owner.DisplayName)
	}

	cards, err := svc.GetSubmissionCards("2025-01")
	if err != nil {
		t.Fatalf("GetSubmissionCards failed: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected the photo to stay in the gallery, got %d cards", len(cards))
	}
	if cards[0].User.DisplayName != models.DeletedUserName {
		t.Errorf("expected %q on card, got %q", models.DeletedUserName, cards[0].User.DisplayName)
	}
}

func TestGetSubmissionsByCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db, fakeStorage{}, testLimits())
	user := createTestUser(t, db, "alice", models.RolePhotographer)
	createTestMonth(t, db, "2025-01", models.MonthStatusOpen)

	createTestSubmission(t, svc, user.ID, "2025-01", models.CategoryFixed, strptr("nature"))
	createTestSubmission(t, svc, user.ID, "2025-01", models.CategoryOpen, nil)

	fixed, err := svc.GetSubmissionsByCategory("2025-01", models.CategoryFixed)
	if err != nil {
		t.Fatalf("GetSubmissionsByCategory failed: %v", err)
	}
	if len(fixed) != 1 {
		t.Fatalf("expected 1 fixed submission, got %d", len(fixed))
	}
	if fixed[0].Category == nil || *fixed[0].Category != "nature" {
		t.Errorf("expected nature sub-category, got %v", fixed[0].Category)
	}
}

func TestDeleteSubmissionOwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db, fakeStorage{}, testLimits())
	owner := createTestUser(t, db, "alice", models.RolePhotographer)
	other := createTestUser(t, db, "bob", models.RolePhotographer)
	createTestMonth(t, db, "2025-01", models.MonthStatusOpen)

	sub := createTestSubmission(t, svc, owner.ID, "2025-01", models.CategoryOpen, nil)

	if err := svc.DeleteSubmission(sub.ID, other.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteSubmission(uuid.New(), owner.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteSubmission(sub.ID, owner.ID); err != nil {
		t.Fatalf("DeleteSubmission failed: %v", err)
	}
	if err := svc.DeleteSubmission(sub.ID, owner.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on repeat delete, got %v", err)
	}
}
