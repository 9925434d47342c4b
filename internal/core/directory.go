package core

import (
	"context"
	"errors"
	"fmt"
)

// UserDirectory reads and maintains the fixed credential/approval roster.
// The engine consumes it only to check approved-user existence; the web layer
// additionally uses it for login and the admin approval toggle.
type UserDirectory interface {
	// FindApprovedUser returns the profile for an approved roster user, or
	// ErrUserNotApproved when the user is missing or not approved.
	FindApprovedUser(ctx context.Context, email string) (*UserProfile, error)

	// Authenticate performs a plaintext credential match against the roster.
	// Unapproved users fail with ErrUserNotApproved even with a correct
	// password; unknown users and bad passwords fail identically with
	// ErrInvalidCredentials so login leaks nothing about roster membership.
	Authenticate(ctx context.Context, email, password string) (*UserProfile, error)

	// ListUsers returns the full roster, credential-free.
	ListUsers(ctx context.Context) ([]UserProfile, error)

	// SetApproval flips a user's approved flag. Admin accounts cannot be
	// toggled, and actingEmail cannot toggle itself.
	SetApproval(ctx context.Context, actingEmail, email string, approved bool) (*UserProfile, error)
}

type userDirectory struct {
	store Store
}

// NewUserDirectory constructs a UserDirectory backed by the given store.
func NewUserDirectory(store Store) UserDirectory {
	return &userDirectory{store: store}
}

func (d *userDirectory) FindApprovedUser(ctx context.Context, email string) (*UserProfile, error) {
	u, err := d.store.GetUser(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotApproved
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", email, err)
	}
	if !u.Approved {
		return nil, ErrUserNotApproved
	}
	p := u.Profile()
	return &p, nil
}

func (d *userDirectory) Authenticate(ctx context.Context, email, password string) (*UserProfile, error) {
	u, err := d.store.GetUser(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", email, err)
	}
	if u.Password != password {
		return nil, ErrInvalidCredentials
	}
	if !u.Approved {
		return nil, ErrUserNotApproved
	}
	p := u.Profile()
	return &p, nil
}

func (d *userDirectory) ListUsers(ctx context.Context) ([]UserProfile, error) {
	accounts, err := d.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	profiles := make([]UserProfile, 0, len(accounts))
	for _, a := range accounts {
		profiles = append(profiles, a.Profile())
	}
	return profiles, nil
}

func (d *userDirectory) SetApproval(ctx context.Context, actingEmail, email string, approved bool) (*UserProfile, error) {
	if email == actingEmail {
		return nil, fmt.Errorf("cannot change own approval: %w", ErrForbidden)
	}
	u, err := d.store.GetUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", email, err)
	}
	if u.Role == RoleAdmin {
		return nil, fmt.Errorf("admin accounts cannot be unapproved: %w", ErrForbidden)
	}
	updated, err := d.store.SetUserApproval(ctx, email, approved)
	if err != nil {
		return nil, fmt.Errorf("failed to set approval for %s: %w", email, err)
	}
	p := updated.Profile()
	return &p, nil
}

// DefaultRoster is the fixed demo roster seeded into an empty store.
func DefaultRoster() []UserAccount {
	return []UserAccount{
		{Email: "admin@admin.com", Name: "Administrator", Password: "admin", Role: RoleAdmin, Approved: true},
		{Email: "user1@example.com", Name: "User One", Password: "user123", Role: RoleUser, Approved: true},
		{Email: "user2@example.com", Name: "User Two", Password: "user123", Role: RoleUser, Approved: false},
		{Email: "user3@example.com", Name: "User Three", Password: "user123", Role: RoleUser, Approved: false},
	}
}
