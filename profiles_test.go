package site

import (
	"testing"

	"github.com/irudium/site/views"
)

func TestCreateUserAndCredentials(t *testing.T) {
	s := setupTestStore(t)

	p, err := s.CreateUser("Reader@Example.com", "hash123", "Reader")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if p.Role != views.RoleUser {
		t.Errorf("Role = %q, want %q", p.Role, views.RoleUser)
	}
	if p.Email != "reader@example.com" {
		t.Errorf("Email = %q, want lowercased", p.Email)
	}

	// Lookup is case-insensitive on the email.
	userID, hash, err := s.GetCredentials("READER@example.com")
	if err != nil {
		t.Fatalf("GetCredentials failed: %v", err)
	}
	if userID != p.UserID || hash != "hash123" {
		t.Errorf("credentials = (%q, %q)", userID, hash)
	}

	if _, err := s.CreateUser("reader@example.com", "other", "Dup"); err == nil {
		t.Error("duplicate email should be rejected")
	}
}

func TestUpdateRole(t *testing.T) {
	s := setupTestStore(t)

	p, err := s.CreateUser("editor@example.com", "h", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := s.UpdateRole(p.UserID, views.RoleEditor); err != nil {
		t.Fatalf("UpdateRole failed: %v", err)
	}
	got, err := s.GetProfile(p.UserID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.Role != views.RoleEditor {
		t.Errorf("Role = %q, want editor", got.Role)
	}
	if !got.IsModerator() {
		t.Error("editor should count as moderator")
	}
	if got.IsAdmin() {
		t.Error("editor should not count as admin")
	}

	if err := s.UpdateRole(p.UserID, "superuser"); err != ErrInvalidRole {
		t.Errorf("UpdateRole(bad role) error = %v, want ErrInvalidRole", err)
	}
	if err := s.UpdateRole("missing", views.RoleAdmin); err != ErrNotFound {
		t.Errorf("UpdateRole(missing) error = %v, want ErrNotFound", err)
	}
}

func TestProfileNameFallback(t *testing.T) {
	p := views.Profile{Email: "jane.doe@example.com"}
	if p.Name() != "jane.doe" {
		t.Errorf("Name = %q, want email local part", p.Name())
	}
	p.DisplayName = "Jane"
	if p.Name() != "Jane" {
		t.Errorf("Name = %q, want display name", p.Name())
	}
}
