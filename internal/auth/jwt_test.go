package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"
)

func TestSessionLifecycle(t *testing.T) {
	mgr, err := NewManager("test-secret", "issuer", time.Minute*30)
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}

	user := &entity.DbUser{ID: "7c1f3b9e-2d1a-4b55-9a51-0f0c9d6a1e42", Email: "planner@example.com", Role: entity.UserRoleAdmin}
	session, err := mgr.IssueSession(user)
	if err != nil {
		t.Fatalf("unexpected error issuing session: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected non-empty token")
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Fatal("expected future expiry time")
	}

	claims, err := mgr.Verify(session.Token)
	if err != nil {
		t.Fatalf("unexpected error verifying token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("expected user id %s, got %s", user.ID, claims.UserID)
	}
	if !strings.EqualFold(claims.Email, user.Email) {
		t.Errorf("expected email %s, got %s", user.Email, claims.Email)
	}
	if claims.Role != user.Role {
		t.Errorf("expected role %s, got %s", user.Role, claims.Role)
	}
}

func TestNewManagerDefaults(t *testing.T) {
	if _, err := NewManager("   ", "", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	mgr, err := NewManager("s", " ", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mgr.issuer != defaultIssuer || mgr.expiry != defaultExpiry {
		t.Errorf("expected defaults, got issuer=%q expiry=%s", mgr.issuer, mgr.expiry)
	}
}

func TestIssueSessionRequiresUserID(t *testing.T) {
	mgr, _ := NewManager("test-secret", "", time.Hour)
	if _, err := mgr.IssueSession(&entity.DbUser{Email: "x@example.com"}); err == nil {
		t.Fatal("expected error for user without id")
	}
	if _, err := mgr.IssueSession(nil); err == nil {
		t.Fatal("expected error for nil user")
	}
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	site, _ := NewManager("secret-a", "site", time.Hour)
	otherSecret, _ := NewManager("secret-b", "site", time.Hour)
	otherIssuer, _ := NewManager("secret-a", "other", time.Hour)

	session, err := site.IssueSession(&entity.DbUser{ID: "u-1", Email: "a@example.com", Role: entity.UserRoleUser})
	if err != nil {
		t.Fatalf("unexpected error issuing session: %v", err)
	}

	tests := []struct {
		name  string
		mgr   *Manager
		token string
	}{
		{"密钥不同", otherSecret, session.Token},
		{"签发方不同", otherIssuer, session.Token},
		{"篡改令牌", site, session.Token + "x"},
		{"空令牌", site, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.mgr.Verify(tt.token); err == nil {
				t.Fatal("expected verification failure")
			}
		})
	}
}

func TestVerifyHonoursExpiry(t *testing.T) {
	mgr, _ := NewManager("s", "site", time.Hour)
	issuedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mgr.now = func() time.Time { return issuedAt }

	session, err := mgr.IssueSession(&entity.DbUser{ID: "u-2"})
	if err != nil {
		t.Fatalf("unexpected error issuing session: %v", err)
	}

	tests := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"有效期内", issuedAt.Add(59 * time.Minute), true},
		{"容差内", issuedAt.Add(time.Hour + 10*time.Second), true},
		{"已过期", issuedAt.Add(time.Hour + time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr.now = func() time.Time { return tt.at }
			_, err := mgr.Verify(session.Token)
			if tt.valid && err != nil {
				t.Errorf("expected valid token, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected expired token to be rejected")
			}
		})
	}
}
