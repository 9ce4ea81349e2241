package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"wellyonfilm/internal/models"
)

func TestCreateComment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)

	createTestMonth(t, db, "2025-01", models.MonthStatusOpen)
	owner := createTestUser(t, db, "alice", models.RolePhotographer)
	commenter := createTestUser(t, db, "bob", models.RolePhotographer)
	sub := insertSubmission(t, db, owner.ID, "2025-01", models.CategoryOpen, nil,
		time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC))

	comment, err := svc.CreateComment(sub.ID, commenter.ID, "  lovely grain on this one  ")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if comment.Body != "lovely grain on this one" {
		t.Errorf("expected trimmed body, got %q", comment.Body)
	}

	if _, err := svc.CreateComment(sub.ID, commenter.ID, "   "); !errors.Is(err, ErrEmptyComment) {
		t.Errorf("expected ErrEmptyComment, got %v", err)
	}
	long := strings.Repeat("a", models.MaxCommentLength+1)
	if _, err := svc.CreateComment(sub.ID, commenter.ID, long); !errors.Is(err, ErrCommentTooLong) {
		t.Errorf("expected ErrCommentTooLong, got %v", err)
	}
	if _, err := svc.CreateComment(uuid.New(), commenter.ID, "hello"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown submission, got %v", err)
	}
}

func TestListCommentsHidesFlagged(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)

	createTestMonth(t, db, "2025-01", models.MonthStatusOpen)
	owner := createTestUser(t, db, "alice", models.RolePhotographer)
	commenter := createTestUser(t, db, "bob", models.RolePhotographer)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	sub := insertSubmission(t, db, owner.ID, "2025-01", models.CategoryOpen, nil,
		time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC))

	kept, err := svc.CreateComment(sub.ID, commenter.ID, "great tones")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	spam, err := svc.CreateComment(sub.ID, commenter.ID, "buy my presets")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	if err := svc.FlagComment(spam.ID, admin.ID); err != nil {
		t.Fatalf("FlagComment failed: %v", err)
	}
	if err := svc.FlagComment(uuid.New(), admin.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown comment, got %v", err)
	}

	comments, err := svc.ListComments(sub.ID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 1 || comments[0].ID != kept.ID {
		t.Fatalf("expected only the unflagged comment, got %d", len(comments))
	}
	if comments[0].User.DisplayName != "bob" {
		t.Errorf("expected author attribution, got %q", comments[0].User.DisplayName)
	}
}

func TestListCommentsDeletedAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(db)
	userSvc := NewUserService(db)

	createTestMonth(t, db, "2025-01", models.MonthStatusOpen)
	owner := createTestUser(t, db, "alice", models.RolePhotographer)
	commenter := createTestUser(t, db, "bob", models.RolePhotographer)
	sub := insertSubmission(t, db, owner.ID, "2025-01", models.CategoryOpen, nil,
		time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC))

	if _, err := svc.CreateComment(sub.ID, commenter.ID, "great tones"); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if err := userSvc.SoftDeleteUser(commenter.ID, commenter.ID, commenter.Role); err != nil {
		t.Fatalf("SoftDeleteUser failed: %v", err)
	}

	comments, err := svc.ListComments(sub.ID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected comment to survive author deletion, got %d", len(comments))
	}
	if comments[0].User.DisplayName != models.DeletedUserName {
		t.Errorf("expected %q attribution, got %q", models.DeletedUserName, comments[0].User.DisplayName)
	}
}
