package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/surendar2011/courseApp/internal/domain/principal"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager(principal.RoleUser, "user-secret", time.Hour)

	id := uuid.NewString()

	raw, err := m.GenerateToken(id)

	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.VerifyToken(raw)

	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}

	if claims.PrincipalID != id {
		t.Errorf("principal id = %q, want %q", claims.PrincipalID, id)
	}

	if claims.Role != string(principal.RoleUser) {
		t.Errorf("role = %q, want %q", claims.Role, principal.RoleUser)
	}
}

func TestTokenRejectedAcrossRoles(t *testing.T) {
	userMgr := NewManager(principal.RoleUser, "user-secret", time.Hour)
	adminMgr := NewManager(principal.RoleAdmin, "admin-secret", time.Hour)

	raw, err := userMgr.GenerateToken(uuid.NewString())

	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	// a user token must not verify against the admin manager
	_, err = adminMgr.VerifyToken(raw)

	if err == nil {
		t.Fatal("expected cross-role token to be rejected")
	}
}

func TestTokenRejectedWithSameSecretDifferentRole(t *testing.T) {
	// even with an identical secret (misconfiguration) the role claim check
	// still refuses the token
	userMgr := NewManager(principal.RoleUser, "shared", time.Hour)
	adminMgr := NewManager(principal.RoleAdmin, "shared", time.Hour)

	raw, err := userMgr.GenerateToken(uuid.NewString())

	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	_, err = adminMgr.VerifyToken(raw)

	if err == nil {
		t.Fatal("expected wrong-role token to be rejected")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewManager(principal.RoleUser, "user-secret", -time.Minute)

	raw, err := m.GenerateToken(uuid.NewString())

	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	_, err = m.VerifyToken(raw)

	if err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	m := NewManager(principal.RoleUser, "user-secret", time.Hour)

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := m.VerifyToken(raw)

		if err == nil {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}
