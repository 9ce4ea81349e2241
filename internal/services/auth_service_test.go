package services

import (
	"errors"
	"testing"

	"wellyonfilm/internal/models"
)

func TestSignupAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	user, err := svc.Signup("Alice@Example.com", "darkroom35mm", "Alice")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected lowercased email, got %s", user.Email)
	}
	if user.Role != models.RolePhotographer {
		t.Errorf("expected photographer role, got %s", user.Role)
	}
	if user.PasswordHash == "darkroom35mm" {
		t.Error("password stored in plaintext")
	}

	logged, err := svc.Login("alice@example.com", "darkroom35mm")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("login returned wrong account")
	}

	if _, err := svc.Login("alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login("nobody@example.com", "darkroom35mm"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)
	userSvc := NewUserService(db)

	first, err := svc.Signup("alice@example.com", "darkroom35mm", "Alice")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if _, err := svc.Signup("alice@example.com", "other", "Alice Again"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	// A deleted account frees its email for re-registration
	if err := userSvc.SoftDeleteUser(first.ID, first.ID, first.Role); err != nil {
		t.Fatalf("SoftDeleteUser failed: %v", err)
	}
	if _, err := svc.Signup("alice@example.com", "fresh", "Alice Again"); err != nil {
		t.Errorf("expected signup after deletion to succeed, got %v", err)
	}
}

func TestSignupValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	cases := []struct{ email, password, name string }{
		{"", "pw", "Alice"},
		{"alice@example.com", "", "Alice"},
		{"alice@example.com", "pw", "   "},
	}
	for _, c := range cases {
		if _, err := svc.Signup(c.email, c.password, c.name); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Signup(%q, _, %q): expected ErrInvalidCredentials, got %v", c.email, c.name, err)
		}
	}
}

func TestLoginDeletedAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)
	userSvc := NewUserService(db)

	user, err := svc.Signup("alice@example.com", "darkroom35mm", "Alice")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if err := userSvc.SoftDeleteUser(user.ID, user.ID, user.Role); err != nil {
		t.Fatalf("SoftDeleteUser failed: %v", err)
	}

	if _, err := svc.Login("alice@example.com", "darkroom35mm"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for deleted account, got %v", err)
	}
	if _, err := svc.GetUserByID(user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for deleted account, got %v", err)
	}
}
