package entity

import "testing"

func TestAssignableRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected string
		ok       bool
	}{
		{"管理员", " Admin ", UserRoleAdmin, true},
		{"普通用户", "user", UserRoleUser, true},
		{"超级管理员不可分配", UserRoleSuperAdmin, "", false},
		{"未知角色", "editor", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AssignableRole(tt.role)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.expected, tt.ok, got, ok)
			}
		})
	}
}

func TestSummaryOmitsPasswordHash(t *testing.T) {
	user := &DbUser{ID: "u-1", Email: "a@example.com", PasswordHash: "secret", Role: UserRoleAdmin, IsActive: true}
	summary := user.Summary()
	if summary.ID != "u-1" || summary.Role != UserRoleAdmin || !summary.IsActive {
		t.Errorf("unexpected summary %+v", summary)
	}
	if !IsAdminRole(summary.Role) || IsAdminRole(UserRoleUser) {
		t.Error("unexpected admin role check")
	}
	var nilUser *DbUser
	if nilUser.Summary() != (UserSummary{}) {
		t.Error("expected empty summary for nil user")
	}
}
