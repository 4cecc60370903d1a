package service

import (
	"testing"
	"time"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
)

func TestMintEmbedsProfileFields(t *testing.T) {
	manager := newTokenManagerForTest()
	svc := NewSessionService(&stubUserRepository{}, manager, time.Hour)

	name := "Alice"
	image := "https://img.test/a.png"
	user := &domain.User{ID: "u1", Email: "alice@x.com", Name: &name, Image: &image}

	token, err := svc.Mint(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := manager.ParseSession(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "u1" || claims.Email != "alice@x.com" || claims.Name != "Alice" || claims.Image != image {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

// Refresh reads the current profile so a rename is visible in the very
// next token, not after the old one expires.
func TestRefreshCarriesUpdatedProfile(t *testing.T) {
	manager := newTokenManagerForTest()
	newName := "Alice Renamed"
	users := &stubUserRepository{
		findByIDFn: func(id string) (*domain.User, error) {
			return &domain.User{ID: id, Email: "alice@x.com", Name: &newName}, nil
		},
	}
	svc := NewSessionService(users, manager, time.Hour)

	token, user, err := svc.Refresh("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Name == nil || *user.Name != newName {
		t.Fatalf("unexpected user: %+v", user)
	}
	claims, err := manager.ParseSession(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Name != newName {
		t.Fatalf("expected refreshed name in claims, got %q", claims.Name)
	}
}
