package core_test

import (
	"context"
	"errors"
	"testing"

	"service-desk/internal/core"
	"service-desk/internal/store"
)

// newTestDirectory builds a UserDirectory over a store seeded with the
// default roster.
func newTestDirectory(t *testing.T) (core.UserDirectory, context.Context) {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()
	if err := st.SeedUsers(ctx, core.DefaultRoster()); err != nil {
		t.Fatalf("failed to seed roster: %v", err)
	}
	return core.NewUserDirectory(st), ctx
}

func TestDirectory_Authenticate(t *testing.T) {
	dir, ctx := newTestDirectory(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"admin logs in", "admin@admin.com", "admin", nil},
		{"approved user logs in", "user1@example.com", "user123", nil},
		{"wrong password", "user1@example.com", "nope", core.ErrInvalidCredentials},
		{"unknown user", "ghost@example.com", "user123", core.ErrInvalidCredentials},
		{"unapproved user, correct password", "user2@example.com", "user123", core.ErrUserNotApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := dir.Authenticate(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate failed: %v", err)
			}
			if profile.Email != tt.email {
				t.Errorf("expected profile for %s, got %s", tt.email, profile.Email)
			}
		})
	}
}

func TestDirectory_FindApprovedUser(t *testing.T) {
	dir, ctx := newTestDirectory(t)

	if _, err := dir.FindApprovedUser(ctx, "user1@example.com"); err != nil {
		t.Fatalf("expected approved user to be found: %v", err)
	}
	if _, err := dir.FindApprovedUser(ctx, "user2@example.com"); !errors.Is(err, core.ErrUserNotApproved) {
		t.Fatalf("expected ErrUserNotApproved for unapproved user, got %v", err)
	}
	if _, err := dir.FindApprovedUser(ctx, "ghost@example.com"); !errors.Is(err, core.ErrUserNotApproved) {
		t.Fatalf("expected ErrUserNotApproved for unknown user, got %v", err)
	}
}

func TestDirectory_ListUsers_StripsCredentials(t *testing.T) {
	dir, ctx := newTestDirectory(t)

	users, err := dir.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 4 {
		t.Fatalf("expected 4 roster users, got %d", len(users))
	}
}

func TestDirectory_SetApproval(t *testing.T) {
	dir, ctx := newTestDirectory(t)
	const admin = "admin@admin.com"

	updated, err := dir.SetApproval(ctx, admin, "user2@example.com", true)
	if err != nil {
		t.Fatalf("SetApproval failed: %v", err)
	}
	if !updated.Approved {
		t.Error("expected user2 approved")
	}
	// Newly approved users pass the assignee check.
	if _, err := dir.FindApprovedUser(ctx, "user2@example.com"); err != nil {
		t.Errorf("expected newly approved user to be found: %v", err)
	}

	// Revoking works too.
	updated, err = dir.SetApproval(ctx, admin, "user2@example.com", false)
	if err != nil {
		t.Fatalf("SetApproval revoke failed: %v", err)
	}
	if updated.Approved {
		t.Error("expected user2 unapproved again")
	}
}

func TestDirectory_SetApproval_Guards(t *testing.T) {
	dir, ctx := newTestDirectory(t)

	// Nobody can toggle their own flag.
	if _, err := dir.SetApproval(ctx, "admin@admin.com", "admin@admin.com", false); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on self-toggle, got %v", err)
	}
	// Admin accounts cannot be unapproved.
	if _, err := dir.SetApproval(ctx, "user1@example.com", "admin@admin.com", false); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on admin toggle, got %v", err)
	}
	// Unknown targets surface ErrNotFound.
	if _, err := dir.SetApproval(ctx, "admin@admin.com", "ghost@example.com", true); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
