package utils

import "testing"

func TestNewResetToken(t *testing.T) {
	raw, hashed, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	if len(raw) != 40 { // 20 random bytes, hex encoded
		t.Errorf("raw token length = %d, want 40", len(raw))
	}
	if hashed == raw {
		t.Error("stored form must differ from the raw token")
	}
	if HashResetToken(raw) != hashed {
		t.Error("hashing the raw token must reproduce the stored form")
	}
}

func TestNewResetToken_Unique(t *testing.T) {
	a, _, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	b, _, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	if a == b {
		t.Error("two tokens should not collide")
	}
}
