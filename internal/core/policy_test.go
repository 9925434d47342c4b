package core_test

import (
	"testing"

	"service-desk/internal/core"
)

func TestCanEditService(t *testing.T) {
	svc := &core.Service{ID: "s1", AssignedUser: "user1@example.com"}

	tests := []struct {
		name  string
		email string
		role  core.Role
		want  bool
	}{
		{"admin on anyone's service", "admin@admin.com", core.RoleAdmin, true},
		{"assignee on own service", "user1@example.com", core.RoleUser, true},
		{"other user on someone else's service", "user3@example.com", core.RoleUser, false},
		{"admin email with user role is not admin", "admin@admin.com", core.RoleUser, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.CanEditService(tt.email, tt.role, svc); got != tt.want {
				t.Errorf("CanEditService(%s, %s) = %v, want %v", tt.email, tt.role, got, tt.want)
			}
			// Visibility follows editability.
			if got := core.CanViewService(tt.email, tt.role, svc); got != tt.want {
				t.Errorf("CanViewService(%s, %s) = %v, want %v", tt.email, tt.role, got, tt.want)
			}
		})
	}
}
