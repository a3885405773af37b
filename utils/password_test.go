package utils

import "testing"

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash must not equal the plain password")
	}

	if !CheckPassword("s3cret-password", hash) {
		t.Error("expected correct password to match")
	}
	if CheckPassword("wrong-password", hash) {
		t.Error("expected wrong password to fail")
	}
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	a, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	b, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}
