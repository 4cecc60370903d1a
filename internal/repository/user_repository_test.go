package repository

import (
	"errors"
	"testing"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
)

func TestUserRepositoryCreateFindAndDuplicateEmail(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewUserRepository(db)

	user := createTestUser(t, db, "alice@x.com")
	if user.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := repo.FindByEmail("alice@x.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("unexpected user: %+v", got)
	}

	// Lookups are exact-match on the stored email.
	if _, err := repo.FindByEmail("ALICE@x.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected case-sensitive miss, got %v", err)
	}

	if err := repo.Create(&domain.User{Email: "alice@x.com"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if _, err := repo.FindByID("missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepositoryProfileAndPasswordUpdates(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewUserRepository(db)

	alice := createTestUser(t, db, "alice@x.com")
	createTestUser(t, db, "bob@x.com")

	if err := repo.UpdateProfile(alice.ID, "Alice B", "alice.b@x.com"); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	updated, err := repo.FindByID(alice.ID)
	if err != nil {
		t.Fatalf("find updated user: %v", err)
	}
	if updated.Email != "alice.b@x.com" || updated.Name == nil || *updated.Name != "Alice B" {
		t.Fatalf("unexpected updated user: %+v", updated)
	}

	if err := repo.UpdateProfile(alice.ID, "Alice", "bob@x.com"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if err := repo.UpdatePassword(alice.ID, "new-hash"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	withPassword, _ := repo.FindByID(alice.ID)
	if withPassword.PasswordHash == nil || *withPassword.PasswordHash != "new-hash" {
		t.Fatalf("expected password hash persisted, got %+v", withPassword.PasswordHash)
	}

	if err := repo.UpdatePassword("missing", "h"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
