package utils

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/pmsss/scholarship-portal-go/models"
)

func TestSignToken_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	account := &models.Account{
		ID:   primitive.NewObjectID(),
		Role: models.RoleSAG,
	}

	token, err := SignToken(account)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.ID != account.ID.Hex() {
		t.Errorf("claims.ID = %q, want %q", claims.ID, account.ID.Hex())
	}
	// the token carries the external role name
	if claims.Role != models.RoleSAGExternal {
		t.Errorf("claims.Role = %q, want %q", claims.Role, models.RoleSAGExternal)
	}
	if models.InternalRole(claims.Role) != models.RoleSAG {
		t.Errorf("InternalRole(%q) = %q, want %q",
			claims.Role, models.InternalRole(claims.Role), models.RoleSAG)
	}
}

func TestSignToken_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	account := &models.Account{ID: primitive.NewObjectID(), Role: models.RoleStudent}
	if _, err := SignToken(account); err != ErrSigningKeyMissing {
		t.Errorf("SignToken error = %v, want ErrSigningKeyMissing", err)
	}
	if _, err := VerifyToken("anything"); err != ErrSigningKeyMissing {
		t.Errorf("VerifyToken error = %v, want ErrSigningKeyMissing", err)
	}
}

func TestSignToken_UnknownRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	account := &models.Account{ID: primitive.NewObjectID(), Role: "superuser"}
	if _, err := SignToken(account); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	for _, tok := range []string{"", "not.a.token", "aaaa.bbbb.cccc"} {
		if _, err := VerifyToken(tok); err != ErrInvalidToken {
			t.Errorf("VerifyToken(%q) error = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	account := &models.Account{ID: primitive.NewObjectID(), Role: models.RoleFinance}
	token, err := SignToken(account)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	t.Setenv("JWT_SECRET", "second-secret")
	if _, err := VerifyToken(token); err != ErrInvalidToken {
		t.Errorf("VerifyToken error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want time.Duration
	}{
		{"default", "", 30 * 24 * time.Hour},
		{"explicit", "7", 7 * 24 * time.Hour},
		{"invalid falls back", "soon", 30 * 24 * time.Hour},
		{"non-positive falls back", "0", 30 * 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_EXPIRE", tt.env)
			if got := TokenExpiry(); got != tt.want {
				t.Errorf("TokenExpiry() = %v, want %v", got, tt.want)
			}
		})
	}
}
